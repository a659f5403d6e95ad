package guard

import (
	"testing"

	"github.com/hxrts/aura/budget"
	"github.com/hxrts/aura/capability"
	"github.com/hxrts/aura/identity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func allowAllToken(op capability.Operation) capability.Token {
	return capability.Token{
		Subject:     identity.AuthorityFromSeed(1),
		Permissions: map[capability.Operation]bool{op: true},
	}
}

func TestEvaluateClearsAllFiveStepsOnASendWithinBudget(t *testing.T) {
	op := capability.Operation("send.message")
	snap := GuardSnapshot{
		Token:        allowAllToken(op),
		Context:      identity.ContextFromSeed(1),
		FlowLimit:    100,
		LeakageLimit: 50,
	}
	ann := Annotation{Operation: op, FlowCost: 10, LeakClass: "default", LeakCost: 5}
	flow := &budget.Counter{}
	leakage := &budget.Counter{}
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	cmd, err := Evaluate(snap, ann, capability.StaticOracle{}, flow, leakage, nil, metrics)
	require.NoError(t, err)
	require.Equal(t, EffectSend, cmd.Kind)
	require.True(t, cmd.Receipt.Allowed)

	require.NoError(t, CommitSend(cmd, ann, flow, leakage, snap.LeakageLimit, metrics))
	require.Equal(t, uint64(10), flow.Spent)
	require.Equal(t, uint64(5), leakage.Spent)
}

func TestEvaluateRejectsWhenTokenLacksCapability(t *testing.T) {
	snap := GuardSnapshot{
		Token:     allowAllToken("send.message"),
		FlowLimit: 100,
	}
	ann := Annotation{Operation: "send.other", FlowCost: 10}
	flow := &budget.Counter{}

	cmd, err := Evaluate(snap, ann, capability.StaticOracle{}, flow, &budget.Counter{}, nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Equal(t, EffectReject, cmd.Kind)
	require.Equal(t, uint64(0), flow.Spent)
}

func TestEvaluateRejectsOverFlowBudgetAndLeavesCounterUntouched(t *testing.T) {
	op := capability.Operation("send.message")
	snap := GuardSnapshot{Token: allowAllToken(op), FlowLimit: 5}
	ann := Annotation{Operation: op, FlowCost: 10}
	flow := &budget.Counter{}

	cmd, err := Evaluate(snap, ann, capability.StaticOracle{}, flow, &budget.Counter{}, nil, nil)
	require.ErrorIs(t, err, ErrOverFlowBudget)
	require.Equal(t, EffectReject, cmd.Kind)
	require.Equal(t, uint64(0), flow.Spent)
}

func TestEvaluateRejectsOverLeakageBudgetAndReleasesFlowReservation(t *testing.T) {
	op := capability.Operation("send.message")
	snap := GuardSnapshot{Token: allowAllToken(op), FlowLimit: 100, LeakageLimit: 5}
	ann := Annotation{Operation: op, FlowCost: 10, LeakClass: "default", LeakCost: 50}
	flow := &budget.Counter{}

	cmd, err := Evaluate(snap, ann, capability.StaticOracle{}, flow, &budget.Counter{}, nil, nil)
	require.ErrorIs(t, err, ErrOverLeakageBudget)
	require.Equal(t, EffectReject, cmd.Kind)
	require.Equal(t, uint64(0), flow.Spent, "rejected send must not hold its flow reservation")
}

func TestReleaseSendReturnsReservationUnspent(t *testing.T) {
	op := capability.Operation("send.message")
	snap := GuardSnapshot{Token: allowAllToken(op), FlowLimit: 100}
	ann := Annotation{Operation: op, FlowCost: 10}
	flow := &budget.Counter{}

	cmd, err := Evaluate(snap, ann, capability.StaticOracle{}, flow, &budget.Counter{}, nil, nil)
	require.NoError(t, err)

	ReleaseSend(cmd)
	require.Equal(t, uint64(0), flow.Spent, "a released reservation must never charge the counter")
	require.Error(t, cmd.Reservation.Commit(), "a resolved reservation cannot be committed a second time")
}
