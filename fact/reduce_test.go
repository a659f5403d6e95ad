package fact

import (
	"testing"

	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
	"github.com/stretchr/testify/require"
)

func orderFrom(seed byte) clock.OrderTime {
	var o clock.OrderTime
	o[0] = seed
	return o
}

func attestedOpFact(ns Namespace, order byte, op *AttestedOp, witnesses []identity.DeviceId) Fact {
	return Fact{
		Namespace:  ns,
		Order:      orderFrom(order),
		WitnessSet: witnesses,
		Content: FactContent{
			Kind:       ContentAttestedOp,
			AttestedOp: op,
		},
	}
}

func TestReduceAppliesAddLeafAndAdvancesRoot(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	leaf := identity.DeviceFromSeed(7)
	op := &AttestedOp{
		OpID:             identity.HashFromSeed(1),
		Op:               OpAddLeaf,
		Leaf:             leaf,
		WitnessThreshold: 2,
		NewCommitment:    identity.HashFromSeed(2),
	}
	require.NoError(t, j.Add(attestedOpFact(ns, 1, op, []identity.DeviceId{identity.DeviceFromSeed(1), identity.DeviceFromSeed(2)})))

	state, err := j.Reduce(fakeVerifier{})
	require.NoError(t, err)
	require.Equal(t, 1, state.AppliedCount)
	require.True(t, state.ActiveDevices[leaf])
	require.Equal(t, identity.HashFromSeed(2), state.Root)
}

func TestReduceRejectsBelowWitnessThreshold(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	op := &AttestedOp{
		OpID:             identity.HashFromSeed(1),
		Op:               OpAddLeaf,
		Leaf:             identity.DeviceFromSeed(7),
		WitnessThreshold: 3,
		NewCommitment:    identity.HashFromSeed(2),
	}
	require.NoError(t, j.Add(attestedOpFact(ns, 1, op, []identity.DeviceId{identity.DeviceFromSeed(1)})))

	state, err := j.Reduce(fakeVerifier{})
	require.NoError(t, err)
	require.Equal(t, 0, state.AppliedCount)
	require.Equal(t, 1, state.RejectedCount)
}

func TestReduceIsDeterministicRegardlessOfAddOrder(t *testing.T) {
	ns := authorityNS(1)
	leaf1 := identity.DeviceFromSeed(1)
	leaf2 := identity.DeviceFromSeed(2)
	witnesses := []identity.DeviceId{identity.DeviceFromSeed(9), identity.DeviceFromSeed(10)}

	op1 := &AttestedOp{OpID: identity.HashFromSeed(1), Op: OpAddLeaf, Leaf: leaf1, WitnessThreshold: 2, NewCommitment: identity.HashFromSeed(10)}
	op2 := &AttestedOp{OpID: identity.HashFromSeed(2), Op: OpAddLeaf, Leaf: leaf2, WitnessThreshold: 2, ParentCommitment: identity.HashFromSeed(10), NewCommitment: identity.HashFromSeed(11)}

	f1 := attestedOpFact(ns, 1, op1, witnesses)
	f2 := attestedOpFact(ns, 2, op2, witnesses)

	jA := New(ns)
	require.NoError(t, jA.Add(f1))
	require.NoError(t, jA.Add(f2))

	jB := New(ns)
	require.NoError(t, jB.Add(f2))
	require.NoError(t, jB.Add(f1))

	sA, err := jA.Reduce(fakeVerifier{})
	require.NoError(t, err)
	sB, err := jB.Reduce(fakeVerifier{})
	require.NoError(t, err)
	require.Equal(t, sA.Root, sB.Root)
	require.Equal(t, sA.Epoch, sB.Epoch)
}

func TestApplyRelationalConsensusResultRejectsDuplicateConsensusID(t *testing.T) {
	state := NewAuthorityState()
	cid := identity.ConsensusFromSeed(5)
	f := &ConsensusResultFact{ConsensusID: cid, OperationHash: identity.HashFromSeed(1), ParticipatingK: 3}
	ok := applyConsensusResult(state, f, fakeVerifier{})
	require.True(t, ok)

	f2 := &ConsensusResultFact{ConsensusID: cid, OperationHash: identity.HashFromSeed(2), ParticipatingK: 3}
	ok2 := applyConsensusResult(state, f2, fakeVerifier{})
	require.False(t, ok2)
	require.Equal(t, identity.HashFromSeed(1), state.ConsensusResults[cid])
}

func TestApplyRelationalChannelEpochBumpTieBreaksByLexicographicMinBumpID(t *testing.T) {
	state := NewAuthorityState()
	ch := identity.ChannelId{1}

	lo := &ChannelEpochBumpFact{Channel: ch, BumpID: identity.HashFromSeed(1), ParentEpoch: 0, NewEpoch: 1}
	hi := &ChannelEpochBumpFact{Channel: ch, BumpID: identity.HashFromSeed(9), ParentEpoch: 0, NewEpoch: 1}

	require.True(t, applyProposedBump(state, hi))
	require.True(t, applyProposedBump(state, lo))

	ces := state.channelEpoch(ch)
	pair := epochPair{Parent: 0, New: 1}
	require.Equal(t, identity.HashFromSeed(1), ces.ProposedBumps[pair])
}

func TestApplyRelationalCommittedBumpRejectsSecondCommitForSamePair(t *testing.T) {
	state := NewAuthorityState()
	ch := identity.ChannelId{1}
	f := &ChannelEpochBumpFact{Channel: ch, BumpID: identity.HashFromSeed(1), ParentEpoch: 0, NewEpoch: 1}
	require.True(t, applyCommittedBump(state, f))
	require.Equal(t, uint64(1), state.ChannelEpoch(ch))

	dup := &ChannelEpochBumpFact{Channel: ch, BumpID: identity.HashFromSeed(2), ParentEpoch: 0, NewEpoch: 1}
	require.False(t, applyCommittedBump(state, dup))
}

func TestApplyRelationalRotateEnforcesMonotonicLifecycle(t *testing.T) {
	state := NewAuthorityState()
	subject := identity.DeviceFromSeed(3)

	require.True(t, applyRotate(state, &RotateFact{Subject: subject, Lifecycle: LifecycleRotating}))
	require.True(t, applyRotate(state, &RotateFact{Subject: subject, Lifecycle: LifecycleDeprecated}))
	// backwards transition rejected
	require.False(t, applyRotate(state, &RotateFact{Subject: subject, Lifecycle: LifecycleActive}))
	// skipping a stage rejected
	require.False(t, applyRotate(state, &RotateFact{Subject: subject, Lifecycle: LifecycleRevoked + 1}))
	require.Equal(t, LifecycleDeprecated, state.DeviceLifecycle[subject])
}

func TestApplyRelationalReversionBlocksOpThatSortsAfterIt(t *testing.T) {
	// Reduce folds facts in a single fixed (order, hash) pass, so a
	// reversion only blocks ops that sort after it — it does not
	// retroactively undo ops already folded earlier in the same pass
	// (spec.md §4.1: reduction is a one-pass deterministic fold).
	ns := authorityNS(1)
	j := New(ns)
	opID := identity.HashFromSeed(1)
	leaf := identity.DeviceFromSeed(1)
	witnesses := []identity.DeviceId{identity.DeviceFromSeed(9), identity.DeviceFromSeed(10)}
	op := &AttestedOp{OpID: opID, Op: OpAddLeaf, Leaf: leaf, WitnessThreshold: 2, NewCommitment: identity.HashFromSeed(5)}

	require.NoError(t, j.Add(Fact{
		Namespace: ns,
		Order:     orderFrom(1),
		Content: FactContent{
			Kind: ContentRelational,
			Relational: &RelationalFact{
				Kind:      RelReversion,
				Reversion: &ReversionFact{OpID: opID},
			},
		},
	}))
	require.NoError(t, j.Add(attestedOpFact(ns, 2, op, witnesses)))

	state, err := j.Reduce(fakeVerifier{})
	require.NoError(t, err)
	require.False(t, state.ActiveDevices[leaf])
	require.True(t, state.RevertedOps[opID])
}
