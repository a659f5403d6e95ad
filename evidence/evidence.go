// Package evidence implements Aura's equivocation evidence CRDT
// (spec.md §4.3): a grow-only set of witness votes, plus a derived set
// of equivocators computed from it rather than stored directly, so
// merge stays exactly set union and the derived set never needs its
// own reconciliation.
package evidence

import (
	"github.com/hxrts/aura/canon"
	"github.com/hxrts/aura/identity"
)

// Vote is a single witness's signed commitment to a proposal within a
// consensus instance.
type Vote struct {
	Witness      identity.DeviceId
	ProposalHash identity.Hash32
	Signature    []byte
}

// key is Vote's comparable identity: a signature is content-addressed
// into a Hash32 so Vote (which carries a []byte and isn't itself
// comparable) can still key a Go map.
type key struct {
	Witness      identity.DeviceId
	ProposalHash identity.Hash32
	SigHash      identity.Hash32
}

func keyOf(v Vote) key {
	return key{Witness: v.Witness, ProposalHash: v.ProposalHash, SigHash: canon.Hash(v.Signature)}
}

// Set is the evidence CRDT: votes grow only, and equivocators is
// always recomputed from votes rather than cached, so Merge is exactly
// Go map union and nothing can desync the two.
type Set struct {
	votes map[key]Vote
}

// New returns an empty evidence set.
func New() *Set {
	return &Set{votes: make(map[key]Vote)}
}

// Add records a vote. Idempotent: adding the same vote twice is a
// no-op.
func (s *Set) Add(v Vote) {
	s.votes[keyOf(v)] = v
}

// Votes returns every recorded vote.
func (s *Set) Votes() []Vote {
	out := make([]Vote, 0, len(s.votes))
	for _, v := range s.votes {
		out = append(out, v)
	}
	return out
}

// Equivocators returns every witness with votes on two or more
// distinct proposal hashes — sound (only witnesses who genuinely
// signed contradictory proposals appear) and complete (appears as soon
// as both contradictory votes are present in the set), per spec.md
// §4.3.
func (s *Set) Equivocators() map[identity.DeviceId]bool {
	seen := make(map[identity.DeviceId]identity.Hash32)
	equivocators := make(map[identity.DeviceId]bool)
	for _, v := range s.votes {
		if prior, ok := seen[v.Witness]; ok {
			if prior != v.ProposalHash {
				equivocators[v.Witness] = true
			}
			continue
		}
		seen[v.Witness] = v.ProposalHash
	}
	return equivocators
}

// Merge returns the set union of a and b's votes as a new set — the
// CRDT join. Commutative, associative, and idempotent by construction
// (map union); equivocators(Merge(a,b)) is a superset of
// equivocators(a) ∪ equivocators(b) because it is recomputed, never
// narrowed.
func Merge(a, b *Set) *Set {
	out := New()
	for k, v := range a.votes {
		out.votes[k] = v
	}
	for k, v := range b.votes {
		out.votes[k] = v
	}
	return out
}

// SharesForProposal returns only the votes from witnesses not in
// Equivocators, for the given proposal hash — "an equivocator's share
// does not count toward k" (spec.md §8 scenario 2).
func (s *Set) SharesForProposal(proposal identity.Hash32) []Vote {
	equivocators := s.Equivocators()
	out := make([]Vote, 0, len(s.votes))
	for _, v := range s.votes {
		if v.ProposalHash != proposal {
			continue
		}
		if equivocators[v.Witness] {
			continue
		}
		out = append(out, v)
	}
	return out
}
