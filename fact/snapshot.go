package fact

import (
	"github.com/hxrts/aura/canon"
	"github.com/hxrts/aura/clock"
	"github.com/hxrts/aura/identity"
)

// MagicStateDigest tags the canonical encoding a snapshot's claimed state
// hash is checked against.
const MagicStateDigest canon.Magic = 0x41534401 // "ASD\x01"

// stateDigest canonically encodes the observable fields of an
// AuthorityState and hashes them, giving ApplySnapshot something to
// check a SnapshotFact's claimed StateHash against. Only the fields a
// snapshot can actually attest to (root, policy, epoch) participate;
// local-only counters like AppliedCount are excluded.
func stateDigest(s *AuthorityState) identity.Hash32 {
	e := canon.NewEncoder(MagicStateDigest, CurrentFactVersion)
	e.Fixed(s.Root[:])
	e.Fixed(s.Policy[:])
	e.Uint64(s.Epoch)
	return canon.Hash(e.Bytes())
}

// ApplySnapshot performs the bounded garbage-collection step of spec.md
// §4.1: given a threshold-signed SnapshotFact, verify it is sound — every
// fact it claims to supersede is actually in the journal, and reducing
// exactly that subset yields the claimed state hash — and then drop the
// superseded facts and add the snapshot fact to the journal (it need not
// be present beforehand), keeping the snapshot (and anything not in its
// superseded set) as the
// journal's new, smaller representation of the same reduced state.
func (j *Journal) ApplySnapshot(snap Fact, v Verifier) error {
	if err := j.applySnapshot(snap, v); err != nil {
		j.lastErr = err
		return err
	}
	j.lastErr = nil
	return nil
}

func (j *Journal) applySnapshot(snap Fact, v Verifier) error {
	if snap.Content.Kind != ContentSnapshot || snap.Content.Snapshot == nil {
		return ErrMalformedFact
	}
	s := snap.Content.Snapshot
	if !v.VerifySnapshot(s) {
		return ErrSnapshotSignatureInvalid
	}

	superseded := make(map[clock.OrderTime]bool, len(s.SupersededFacts))
	for _, o := range s.SupersededFacts {
		superseded[o] = true
	}

	subset := New(j.ns)
	matched := make([]identity.Hash32, 0, len(s.SupersededFacts))
	for h, f := range j.facts {
		if superseded[f.Order] {
			if err := subset.Add(f); err != nil {
				return ErrSnapshotUnsound
			}
			matched = append(matched, h)
		}
	}
	if subset.Len() != len(s.SupersededFacts) {
		return ErrSnapshotUnsound // some superseded order-time isn't in the journal
	}

	reduced, err := subset.Reduce(v)
	if err != nil {
		return ErrSnapshotUnsound
	}
	if stateDigest(reduced) != s.StateHash {
		return ErrSnapshotUnsound
	}

	for _, h := range matched {
		delete(j.facts, h)
	}
	j.facts[Hash(snap)] = snap
	if j.metrics != nil {
		j.metrics.ObserveGC(len(matched))
		j.metrics.Observe(j)
	}
	return nil
}
