package fact

import (
	"testing"

	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
	"github.com/stretchr/testify/require"
)

func TestApplySnapshotGarbageCollectsSupersededFacts(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	leaf := identity.DeviceFromSeed(1)
	witnesses := []identity.DeviceId{identity.DeviceFromSeed(9), identity.DeviceFromSeed(10)}
	op := &AttestedOp{OpID: identity.HashFromSeed(1), Op: OpAddLeaf, Leaf: leaf, WitnessThreshold: 2, NewCommitment: identity.HashFromSeed(5)}
	f := attestedOpFact(ns, 1, op, witnesses)
	require.NoError(t, j.Add(f))

	preState, err := j.Reduce(fakeVerifier{})
	require.NoError(t, err)

	snap := Fact{
		Namespace: ns,
		Order:     orderFrom(2),
		Content: FactContent{
			Kind: ContentSnapshot,
			Snapshot: &SnapshotFact{
				StateHash:       stateDigest(preState),
				SupersededFacts: []clock.OrderTime{f.Order},
				Sequence:        1,
			},
		},
	}

	require.NoError(t, j.ApplySnapshot(snap, fakeVerifier{}))
	require.Equal(t, 1, j.Len()) // only the snapshot fact remains

	postState, err := j.Reduce(fakeVerifier{})
	require.NoError(t, err)
	require.Equal(t, preState.Root, postState.Root)
}

func TestApplySnapshotRejectsWrongStateHash(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	leaf := identity.DeviceFromSeed(1)
	witnesses := []identity.DeviceId{identity.DeviceFromSeed(9), identity.DeviceFromSeed(10)}
	op := &AttestedOp{OpID: identity.HashFromSeed(1), Op: OpAddLeaf, Leaf: leaf, WitnessThreshold: 2, NewCommitment: identity.HashFromSeed(5)}
	f := attestedOpFact(ns, 1, op, witnesses)
	require.NoError(t, j.Add(f))

	snap := Fact{
		Namespace: ns,
		Order:     orderFrom(2),
		Content: FactContent{
			Kind: ContentSnapshot,
			Snapshot: &SnapshotFact{
				StateHash:       identity.HashFromSeed(99),
				SupersededFacts: []clock.OrderTime{f.Order},
				Sequence:        1,
			},
		},
	}

	require.ErrorIs(t, j.ApplySnapshot(snap, fakeVerifier{}), ErrSnapshotUnsound)
}
