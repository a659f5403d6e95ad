// Package guard implements Aura's send-side guard chain (spec.md
// §4.2): a pure, deterministic pipeline from a message annotation
// through capability check, flow-budget reservation, journal coupling,
// and leakage accounting, ending in an EffectCommand the runtime
// interprets. The chain itself never touches the network or storage —
// it is a state machine over a GuardSnapshot, kept simulator-driveable
// the same way the fact package's Reduce is kept pure.
package guard

import (
	"errors"

	"github.com/hxrts/aura/budget"
	"github.com/hxrts/aura/capability"
	"github.com/hxrts/aura/fact"
	"github.com/hxrts/aura/identity"
)

var (
	// ErrUnauthorized mirrors capability.ErrUnauthorized at the guard
	// chain's boundary so callers can errors.Is against either.
	ErrUnauthorized = capability.ErrUnauthorized
	// ErrOverFlowBudget is returned by the flow guard step.
	ErrOverFlowBudget = errors.New("guard: over flow budget")
	// ErrOverLeakageBudget is returned by the leakage tracker step.
	ErrOverLeakageBudget = errors.New("guard: over leakage budget")
)

// Annotation is a protocol message type's static guard-chain
// parameters (spec.md §4.2 "Annotations" / the Messages table):
// the capability it requires, its flow cost, and an optional leakage
// observer class with its cost. The facts a send implies are not part
// of the annotation; callers pass them to Evaluate as pendingFacts.
type Annotation struct {
	Operation    capability.Operation
	FlowCost     uint64
	LeakClass    string // empty means the send has no leakage accounting
	LeakCost     uint64
}

// GuardSnapshot is the guard chain's complete input state: the
// presented token, the send's context, source and destination, and the
// flow and leakage budgets' current spent counters and policy-derived
// limits. It holds no journal. It is a value — guard chains are
// "constructed fresh per send" (spec.md §3 "Ownership").
type GuardSnapshot struct {
	Token          capability.Token
	Context        identity.ContextId
	Source         identity.AuthorityId
	Destination    identity.AuthorityId
	FlowSpent      uint64
	FlowLimit      uint64
	LeakageSpent   uint64
	LeakageLimit   uint64
}

// EffectCommandKind tags which side effect the runtime must interpret.
type EffectCommandKind uint8

const (
	// EffectSend asks the runtime to hand the message to transport; on
	// success the runtime calls CommitSend, on failure ReleaseSend.
	EffectSend EffectCommandKind = iota
	// EffectReject means the chain stopped before transport; no I/O.
	EffectReject
)

func (k EffectCommandKind) String() string {
	switch k {
	case EffectSend:
		return "send"
	case EffectReject:
		return "reject"
	default:
		return "unknown"
	}
}

// EffectCommand is what the guard chain emits instead of performing
// I/O itself (spec.md §4.2: "any I/O is expressed as emitted
// EffectCommands interpreted by the runtime").
type EffectCommand struct {
	Kind           EffectCommandKind
	Reservation    *budget.Reservation
	PendingFacts   []fact.Fact
	Receipt        capability.Receipt
	RejectReason   error
}

// Evaluate runs the fixed five-step pipeline (spec.md §4.2) against
// snap for a send annotated by ann, carrying pendingFacts (the
// LeakageEvent / ChannelCheckpoint / etc. this send implies) and the
// flow/leakage counters to charge. It returns the EffectCommand the
// runtime must interpret; Evaluate performs no I/O itself.
//
// Evaluate is deterministic: the same (snap, ann, pendingFacts) always
// produces the same decision (spec.md §8 "re-evaluated with the same
// snapshot and input produces the same decision").
// metrics may be nil, in which case Evaluate/CommitSend simply skip
// observability (Metrics's observe* helpers are nil-safe).
func Evaluate(
	snap GuardSnapshot,
	ann Annotation,
	oracle capability.Oracle,
	flowCounter *budget.Counter,
	leakageCounter *budget.Counter,
	pendingFacts []fact.Fact,
	metrics *Metrics,
) (EffectCommand, error) {
	// 1. Capability guard.
	receipt, err := oracle.Check(snap.Token, ann.Operation, snap.Context)
	if err != nil {
		metrics.observeReject(ErrUnauthorized)
		return EffectCommand{Kind: EffectReject, Receipt: receipt, RejectReason: ErrUnauthorized}, ErrUnauthorized
	}

	// 2. Flow guard: reserve but do not yet commit.
	reservation, err := budget.Reserve(flowCounter, snap.FlowLimit, ann.FlowCost)
	if err != nil {
		metrics.observeReject(ErrOverFlowBudget)
		return EffectCommand{Kind: EffectReject, Receipt: receipt, RejectReason: ErrOverFlowBudget}, ErrOverFlowBudget
	}

	// 3. Journal coupler: pendingFacts is already staged by the
	// caller, bound to this reservation for atomic commit-or-release.

	// 4. Leakage tracker: verify the pending leakage stays in budget
	// without yet charging it (charged alongside the flow reservation
	// on Commit, see CommitSend).
	if ann.LeakClass != "" {
		if _, err := budget.Charge(snap.LeakageSpent, snap.LeakageLimit, ann.LeakCost); err != nil {
			reservation.Release()
			metrics.observeReject(ErrOverLeakageBudget)
			return EffectCommand{Kind: EffectReject, Receipt: receipt, RejectReason: ErrOverLeakageBudget}, ErrOverLeakageBudget
		}
	}

	// 5. Transport hand-off is the runtime's job; Evaluate returns the
	// command describing what to send and what to commit or release.
	metrics.observeSend()
	return EffectCommand{
		Kind:         EffectSend,
		Reservation:  reservation,
		PendingFacts: pendingFacts,
		Receipt:      receipt,
	}, nil
}

// CommitSend finalizes a successful transport hand-off: the flow
// reservation is committed and the leakage counter is charged, in one
// atomic step from the caller's point of view (the runtime serializes
// per observer class, spec.md §5): the leakage charge is checked before
// the flow reservation is committed, so a refused leakage charge leaves
// both counters unchanged. CommitSend takes no journal; the caller adds
// cmd.PendingFacts to the journal before or alongside this call; Aura
// keeps that as an explicit caller action rather than folding it into
// CommitSend, since journal ownership (single-node, spec.md §3) may
// require routing through a different path than the in-process budget
// counters.
func CommitSend(cmd EffectCommand, ann Annotation, flowCounter *budget.Counter, leakageCounter *budget.Counter, leakageLimit uint64, metrics *Metrics) error {
	if cmd.Kind != EffectSend {
		return errors.New("guard: CommitSend called on a non-send command")
	}
	if ann.LeakClass != "" {
		if _, err := budget.Charge(leakageCounter.Spent, leakageLimit, ann.LeakCost); err != nil {
			return err
		}
	}
	if err := cmd.Reservation.Commit(); err != nil {
		return err
	}
	if ann.LeakClass != "" {
		if err := leakageCounter.TryCharge(leakageLimit, ann.LeakCost); err != nil {
			return err
		}
	}
	metrics.observeSpend(flowCounter, leakageCounter)
	return nil
}

// ReleaseSend releases a pending reservation on cancellation, timeout,
// or transport failure (spec.md §5), dropping the pending facts (the
// caller must not add them to the journal).
func ReleaseSend(cmd EffectCommand) {
	if cmd.Reservation != nil {
		cmd.Reservation.Release()
	}
}
