package consensus

import "errors"

var (
	// ErrPhaseViolation is returned when an operation is attempted in a
	// phase that doesn't permit it (spec.md §7 error kind PhaseViolation).
	ErrPhaseViolation = errors.New("consensus: phase violation")
	// ErrUnknownWitness is returned when a share is submitted by a
	// device not in the instance's witness set.
	ErrUnknownWitness = errors.New("consensus: share from unknown witness")
	// ErrStaleShare names a share bound to a different ConsensusId or
	// pre-state hash. SubmitShare does not return it: such a share is
	// checked through its signature over ShareMessage and fails as
	// ErrSignatureInvalid.
	ErrStaleShare = errors.New("consensus: share bound to a different instance or pre-state")
	// ErrSignatureInvalid is returned when a share's signature fails
	// verification.
	ErrSignatureInvalid = errors.New("consensus: signature invalid")
)
