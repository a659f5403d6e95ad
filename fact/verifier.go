package fact

import "github.com/hxrts/aura/identity"

// Verifier performs the deterministic cryptographic checks Reduce needs.
// It is injected rather than hard-coded so Reduce stays a pure function
// of (journal, verifier) — spec.md's Non-goal treats the underlying
// threshold-signature primitive as an assumed black box, so Aura models
// it behind this narrow interface instead of importing a concrete scheme
// here.
type Verifier interface {
	// VerifyAttestedOp checks op's signature against the given witness
	// set and reports whether the threshold was met.
	VerifyAttestedOp(op *AttestedOp, witnesses []identity.DeviceId) bool

	// VerifyConsensusResult checks a ConsensusResultFact's aggregate
	// signature reaches the required threshold k.
	VerifyConsensusResult(f *ConsensusResultFact, requiredK int) bool

	// VerifySnapshot checks a snapshot fact's threshold signature.
	VerifySnapshot(s *SnapshotFact) bool

	// VerifyReceipt checks a rendezvous receipt's signature.
	VerifyReceipt(r *RendezvousReceiptFact) bool
}
