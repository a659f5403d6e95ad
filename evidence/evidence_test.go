package evidence

import (
	"testing"

	"github.com/hxrts/aura/identity"
	"github.com/stretchr/testify/require"
)

func TestEquivocationDetectedOnTwoDistinctProposals(t *testing.T) {
	s := New()
	w := identity.DeviceFromSeed(2)
	s.Add(Vote{Witness: w, ProposalHash: identity.HashFromSeed(1), Signature: []byte("a")})
	require.Empty(t, s.Equivocators())

	s.Add(Vote{Witness: w, ProposalHash: identity.HashFromSeed(2), Signature: []byte("b")})
	require.True(t, s.Equivocators()[w])
}

func TestMergeIsCommutativeAndMonotone(t *testing.T) {
	w1 := identity.DeviceFromSeed(1)
	w2 := identity.DeviceFromSeed(2)

	a := New()
	a.Add(Vote{Witness: w1, ProposalHash: identity.HashFromSeed(1), Signature: []byte("a")})

	b := New()
	b.Add(Vote{Witness: w2, ProposalHash: identity.HashFromSeed(1), Signature: []byte("b")})
	b.Add(Vote{Witness: w1, ProposalHash: identity.HashFromSeed(9), Signature: []byte("c")})

	ab := Merge(a, b)
	ba := Merge(b, a)
	require.ElementsMatch(t, ab.Votes(), ba.Votes())
	require.True(t, ab.Equivocators()[w1])
}

func TestSharesForProposalExcludesEquivocators(t *testing.T) {
	s := New()
	honest := identity.DeviceFromSeed(1)
	cheat := identity.DeviceFromSeed(2)
	propA := identity.HashFromSeed(10)
	propB := identity.HashFromSeed(11)

	s.Add(Vote{Witness: honest, ProposalHash: propA, Signature: []byte("h")})
	s.Add(Vote{Witness: cheat, ProposalHash: propA, Signature: []byte("c1")})
	s.Add(Vote{Witness: cheat, ProposalHash: propB, Signature: []byte("c2")})

	shares := s.SharesForProposal(propA)
	require.Len(t, shares, 1)
	require.Equal(t, honest, shares[0].Witness)
}
