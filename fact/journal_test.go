package fact

import (
	"testing"

	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyAttestedOp(op *AttestedOp, witnesses []identity.DeviceId) bool {
	return len(witnesses) >= op.WitnessThreshold
}
func (fakeVerifier) VerifyConsensusResult(f *ConsensusResultFact, requiredK int) bool {
	return f.ParticipatingK >= requiredK
}
func (fakeVerifier) VerifySnapshot(s *SnapshotFact) bool    { return true }
func (fakeVerifier) VerifyReceipt(r *RendezvousReceiptFact) bool { return true }

func genericFact(ns Namespace, order byte, tag string) Fact {
	var o clock.OrderTime
	o[0] = order
	return Fact{
		Namespace: ns,
		Order:     clock.OrderTime(o),
		Content: FactContent{
			Kind: ContentRelational,
			Relational: &RelationalFact{
				Kind: RelGeneric,
				Generic: &GenericFact{
					ContextID:   identity.ContextFromSeed(1),
					BindingType: tag,
					BindingData: []byte(tag),
				},
			},
		},
	}
}

func TestJournalAddRejectsWrongNamespace(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	f := genericFact(authorityNS(2), 1, "x")
	require.ErrorIs(t, j.Add(f), ErrNamespaceMismatch)
}

func TestJournalAddIsIdempotent(t *testing.T) {
	ns := authorityNS(1)
	j := New(ns)
	f := genericFact(ns, 1, "x")
	require.NoError(t, j.Add(f))
	require.NoError(t, j.Add(f))
	require.Equal(t, 1, j.Len())
}

func TestMergeIsCommutative(t *testing.T) {
	ns := authorityNS(1)
	a := New(ns)
	b := New(ns)
	require.NoError(t, a.Add(genericFact(ns, 1, "a")))
	require.NoError(t, b.Add(genericFact(ns, 2, "b")))

	ab, err := Merge(a, b)
	require.NoError(t, err)
	ba, err := Merge(b, a)
	require.NoError(t, err)
	require.Equal(t, ab.Len(), ba.Len())
	require.True(t, ab.IsConvergent(ba, fakeVerifier{}))
}

func TestMergeIsAssociative(t *testing.T) {
	ns := authorityNS(1)
	a, b, c := New(ns), New(ns), New(ns)
	require.NoError(t, a.Add(genericFact(ns, 1, "a")))
	require.NoError(t, b.Add(genericFact(ns, 2, "b")))
	require.NoError(t, c.Add(genericFact(ns, 3, "c")))

	abThenC, err := Merge(mustMerge(t, a, b), c)
	require.NoError(t, err)
	aThenBC, err := Merge(a, mustMerge(t, b, c))
	require.NoError(t, err)
	require.Equal(t, abThenC.Len(), aThenBC.Len())
}

func TestMergeIsIdempotent(t *testing.T) {
	ns := authorityNS(1)
	a := New(ns)
	require.NoError(t, a.Add(genericFact(ns, 1, "a")))
	aa, err := Merge(a, a)
	require.NoError(t, err)
	require.Equal(t, a.Len(), aa.Len())
}

func mustMerge(t *testing.T, a, b *Journal) *Journal {
	t.Helper()
	m, err := Merge(a, b)
	require.NoError(t, err)
	return m
}

func authorityNS(seed byte) Namespace {
	return AuthorityNamespace(identity.AuthorityFromSeed(seed))
}
