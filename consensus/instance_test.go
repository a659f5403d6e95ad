package consensus

import (
	"testing"

	"github.com/hxrts/aura/identity"
	"github.com/hxrts/aura/threshold"
	"github.com/stretchr/testify/require"
)

func devices(n int) []identity.DeviceId {
	out := make([]identity.DeviceId, n)
	for i := range out {
		out[i] = identity.DeviceFromSeed(byte(i + 1))
	}
	return out
}

func TestCleanFastPathCommit(t *testing.T) {
	// spec.md §8 scenario 1: 4 witnesses, k=3.
	witnesses := devices(4)
	signer := threshold.NewBLSSigner()
	opHash := identity.HashFromSeed(1)
	id := identity.ConsensusFromHash(identity.HashFromSeed(0xc1))

	inst := NewInstance(id, identity.Hash32{}, witnesses, 3, signer, nil, 2_000, 10_000)
	require.NoError(t, inst.Execute(0))

	for i, w := range witnesses[:4] {
		msg := ShareMessage(inst.ID, inst.PreStateHash, opHash)
		share, err := signer.ProposeShare(i, []byte("secret"), msg)
		require.NoError(t, err)
		require.NoError(t, inst.SubmitShare(w, i, opHash, share.Bytes, 10))
	}

	require.Equal(t, Committed, inst.Phase)
	require.Equal(t, opHash, inst.CommittedOpHash)
	require.Empty(t, inst.Equivocators())
}

func TestEquivocationAbsorbed(t *testing.T) {
	// spec.md §8 scenario 2: 7 witnesses, k=5; W2 signs both A and B;
	// others sign only A. hash(A) commits; equivocators={W2}.
	witnesses := devices(7)
	signer := threshold.NewBLSSigner()
	propA := identity.HashFromSeed(0xA)
	propB := identity.HashFromSeed(0xB)
	id := identity.ConsensusFromHash(identity.HashFromSeed(0xc2))

	inst := NewInstance(id, identity.Hash32{}, witnesses, 5, signer, nil, 2_000, 10_000)
	require.NoError(t, inst.Execute(0))

	equivocator := witnesses[1] // W2

	// Equivocator signs both A and B first, so it is already flagged
	// and excluded by the time honest shares reach k.
	msgA := ShareMessage(inst.ID, inst.PreStateHash, propA)
	shareA, err := signer.ProposeShare(1, []byte("secret"), msgA)
	require.NoError(t, err)
	require.NoError(t, inst.SubmitShare(equivocator, 1, propA, shareA.Bytes, 10))

	msgB := ShareMessage(inst.ID, inst.PreStateHash, propB)
	shareB, err := signer.ProposeShare(1, []byte("secret"), msgB)
	require.NoError(t, err)
	require.NoError(t, inst.SubmitShare(equivocator, 1, propB, shareB.Bytes, 10))

	// Honest witnesses sign only A.
	for i, w := range witnesses {
		if w == equivocator {
			continue
		}
		msg := ShareMessage(inst.ID, inst.PreStateHash, propA)
		share, err := signer.ProposeShare(i, []byte("secret"), msg)
		require.NoError(t, err)
		require.NoError(t, inst.SubmitShare(w, i, propA, share.Bytes, 10))
	}

	require.Equal(t, Committed, inst.Phase)
	require.Equal(t, propA, inst.CommittedOpHash)
	require.True(t, inst.Equivocators()[equivocator])
}

func TestFastPathDeadlineFallsBackToFallback(t *testing.T) {
	witnesses := devices(4)
	signer := threshold.NewBLSSigner()
	id := identity.ConsensusFromHash(identity.HashFromSeed(0xc3))

	inst := NewInstance(id, identity.Hash32{}, witnesses, 3, signer, nil, 100, 10_000)
	require.NoError(t, inst.Execute(0))

	inst.Tick(50)
	require.Equal(t, CollectingShares, inst.Phase)

	inst.Tick(200)
	require.Equal(t, Fallback, inst.Phase)
}

func TestFallbackDeadlineFails(t *testing.T) {
	witnesses := devices(4)
	signer := threshold.NewBLSSigner()
	id := identity.ConsensusFromHash(identity.HashFromSeed(0xc4))

	inst := NewInstance(id, identity.Hash32{}, witnesses, 3, signer, nil, 100, 500)
	require.NoError(t, inst.Execute(0))
	inst.Tick(200) // -> Fallback

	inst.Tick(500)
	require.Equal(t, Fallback, inst.Phase)
	inst.Tick(900)
	require.Equal(t, Failed, inst.Phase)
}

func TestLeaderForIsDeterministicAcrossCalls(t *testing.T) {
	witnesses := devices(5)
	id := identity.ConsensusFromHash(identity.HashFromSeed(1))
	a := LeaderFor(id, witnesses, 3)
	b := LeaderFor(id, witnesses, 3)
	require.Equal(t, a, b)
}
