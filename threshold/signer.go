// Package threshold models Aura's threshold-signature primitive: the
// Signer effect interface consensus uses to propose, aggregate, and
// verify shares (spec.md §6 "Threshold signer"), plus two concrete
// paths shaped after the teacher's own in-tree crypto stubs — a BLS
// fast path and a ringtail (lattice-based, post-quantum) fallback
// path — so Aura's consensus engine can be parameterized by either
// without depending on either scheme's real implementation, which
// spec.md treats as an assumed black box (Non-goal: the cryptographic
// scheme itself is out of scope).
package threshold

import "errors"

// ErrThresholdNotMet is returned by Aggregate when fewer than k valid
// shares were supplied.
var ErrThresholdNotMet = errors.New("threshold: not enough shares to aggregate")

// Share is a single participant's signature contribution toward a
// ConsensusId's threshold aggregate.
type Share struct {
	ParticipantIndex int
	Bytes            []byte
}

// Signature is an aggregated threshold signature over a message.
type Signature struct {
	Bytes []byte
}

// Signer is the effect interface consensus consumes (spec.md §6):
// propose_share, aggregate, verify. Both the fast (BLS) and fallback
// (ringtail) paths implement it identically so the consensus state
// machine never branches on which scheme is in play.
type Signer interface {
	ProposeShare(participantIndex int, secretKey []byte, msg []byte) (Share, error)
	Aggregate(msg []byte, shares []Share, k int) (Signature, error)
	Verify(sig Signature, msg []byte, groupPK []byte) bool
}
