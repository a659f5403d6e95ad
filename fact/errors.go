package fact

import "errors"

var (
	// ErrNamespaceMismatch is returned by Merge when two journals
	// declare different namespaces.
	ErrNamespaceMismatch = errors.New("fact: namespace mismatch")
	// ErrMalformedFact is returned when a fact's content doesn't match
	// its declared Kind (a nil variant pointer for the tagged Kind).
	ErrMalformedFact = errors.New("fact: malformed fact")
	// ErrSnapshotUnsound is returned by ApplySnapshot when the
	// snapshot's superseded set isn't a subset of the journal, or
	// reducing it doesn't yield the claimed state hash.
	ErrSnapshotUnsound = errors.New("fact: snapshot is not sound")
	// ErrSnapshotSignatureInvalid is returned when a snapshot's
	// threshold signature doesn't verify.
	ErrSnapshotSignatureInvalid = errors.New("fact: snapshot signature invalid")
)
