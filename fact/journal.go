package fact

import (
	"github.com/hxrts/aura/identity"
	"golang.org/x/exp/slices"
)

// Journal is a set of facts scoped to a single namespace, the CRDT
// described in spec.md §4.1. Facts are keyed by their canonical hash so
// membership, union, and idempotence fall directly out of Go map
// semantics.
type Journal struct {
	ns    Namespace
	facts map[identity.Hash32]Fact

	metrics *Metrics
	lastErr error
}

// New returns an empty journal scoped to ns.
func New(ns Namespace) *Journal {
	return &Journal{ns: ns, facts: make(map[identity.Hash32]Fact)}
}

// Namespace returns the journal's declared namespace.
func (j *Journal) Namespace() Namespace { return j.ns }

// Len reports how many distinct facts the journal holds.
func (j *Journal) Len() int { return len(j.facts) }

// Contains reports whether the journal already holds the fact hashing
// to h.
func (j *Journal) Contains(h identity.Hash32) bool {
	_, ok := j.facts[h]
	return ok
}

// Facts returns the journal's facts sorted by (order, canonical hash),
// the same order Reduce folds them in.
func (j *Journal) Facts() []Fact {
	out := make([]Fact, 0, len(j.facts))
	for _, f := range j.facts {
		out = append(out, f)
	}
	sortFacts(out)
	return out
}

func sortFacts(fs []Fact) {
	slices.SortFunc(fs, func(a, b Fact) int {
		if c := a.Order.Compare(b.Order); c != 0 {
			return c
		}
		return Hash(a).Compare(Hash(b))
	})
}

// SetMetrics attaches m so subsequent Add/ApplySnapshot calls keep its
// gauges/counters current. Passing nil (the default) disables
// observability with no behavioral effect on the journal itself.
func (j *Journal) SetMetrics(m *Metrics) {
	j.metrics = m
}

// Add inserts a single fact, rejecting facts outside the journal's
// namespace. Re-adding an already-present fact is a no-op (idempotence).
func (j *Journal) Add(f Fact) error {
	if !f.Namespace.Equal(j.ns) {
		j.lastErr = ErrNamespaceMismatch
		return ErrNamespaceMismatch
	}
	if err := validateShape(f.Content); err != nil {
		j.lastErr = err
		return err
	}
	j.facts[Hash(f)] = f
	j.lastErr = nil
	if j.metrics != nil {
		j.metrics.Observe(j)
	}
	return nil
}

func validateShape(c FactContent) error {
	switch c.Kind {
	case ContentAttestedOp:
		if c.AttestedOp == nil {
			return ErrMalformedFact
		}
	case ContentRelational:
		if c.Relational == nil {
			return ErrMalformedFact
		}
		return validateRelationalShape(c.Relational)
	case ContentSnapshot:
		if c.Snapshot == nil {
			return ErrMalformedFact
		}
	case ContentRendezvousReceipt:
		if c.RendezvousReceipt == nil {
			return ErrMalformedFact
		}
	default:
		return ErrMalformedFact
	}
	return nil
}

func validateRelationalShape(r *RelationalFact) error {
	ok := true
	switch r.Kind {
	case RelGuardianBinding:
		ok = r.GuardianBinding != nil
	case RelRecoveryGrant:
		ok = r.RecoveryGrant != nil
	case RelConsensusResult:
		ok = r.ConsensusResult != nil
	case RelChannelCheckpoint:
		ok = r.ChannelCheckpoint != nil
	case RelProposedChannelEpochBump:
		ok = r.ProposedChannelEpochBump != nil
	case RelCommittedChannelEpochBump:
		ok = r.CommittedChannelEpochBump != nil
	case RelChannelPolicy:
		ok = r.ChannelPolicy != nil
	case RelLeakageEvent:
		ok = r.LeakageEvent != nil
	case RelDKGTranscriptCommit:
		ok = r.DKGTranscriptCommit != nil
	case RelConvergenceCertificate:
		ok = r.ConvergenceCertificate != nil
	case RelReversion:
		ok = r.Reversion != nil
	case RelRotate:
		ok = r.Rotate != nil
	case RelGeneric:
		ok = r.Generic != nil
	default:
		ok = false
	}
	if !ok {
		return ErrMalformedFact
	}
	return nil
}

// Clone returns a shallow copy of the journal (facts are values, so a
// shallow copy is a full copy).
func (j *Journal) Clone() *Journal {
	c := New(j.ns)
	for h, f := range j.facts {
		c.facts[h] = f
	}
	return c
}

// Merge returns the set union of a and b's facts as a new journal,
// failing with ErrNamespaceMismatch if the namespaces differ. Merge is
// commutative, associative, and idempotent at the level of fact
// membership by construction (it is exactly Go map union).
func Merge(a, b *Journal) (*Journal, error) {
	if !a.ns.Equal(b.ns) {
		return nil, ErrNamespaceMismatch
	}
	out := New(a.ns)
	for h, f := range a.facts {
		out.facts[h] = f
	}
	for h, f := range b.facts {
		out.facts[h] = f
	}
	return out, nil
}

// IsConvergent reports whether two journals reduce to the same
// observable authority state (root, epoch, policy) — membership
// equality modulo snapshot equivalence, expressed as equality of the
// derived state rather than a byte-for-byte fact-set comparison, since
// a snapshot and the facts it supersedes are by definition equivalent
// under reduction.
func (j *Journal) IsConvergent(other *Journal, v Verifier) bool {
	if !j.ns.Equal(other.ns) {
		return false
	}
	sa, errA := j.Reduce(v)
	sb, errB := other.Reduce(v)
	if errA != nil || errB != nil {
		return false
	}
	return sa.Root == sb.Root && sa.Policy == sb.Policy && sa.Epoch == sb.Epoch
}
