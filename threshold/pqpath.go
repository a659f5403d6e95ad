package threshold

// PQSigner is Aura's fallback-path Signer, grounded on the teacher's
// ringtail package shape (KeyGen/Precompute/QuickSign/Aggregate/
// Verify): a lattice-based post-quantum alternative to BLSSigner. A
// consensus.Instance uses whichever Signer it was constructed with in
// every phase; it does not switch to PQSigner on entering Fallback.
// Like BLSSigner, the actual
// cryptographic operations are placeholders for a real ringtail wiring
// — spec.md treats the scheme as an assumed black box.
type PQSigner struct{}

func NewPQSigner() *PQSigner { return &PQSigner{} }

func (s *PQSigner) ProposeShare(participantIndex int, secretKey []byte, msg []byte) (Share, error) {
	b := make([]byte, len(msg)+1)
	b[0] = byte(participantIndex)
	for i, m := range msg {
		b[i+1] = m ^ secretKey[i%len(secretKey)]
	}
	return Share{ParticipantIndex: participantIndex, Bytes: b}, nil
}

func (s *PQSigner) Aggregate(msg []byte, shares []Share, k int) (Signature, error) {
	if len(shares) < k {
		return Signature{}, ErrThresholdNotMet
	}
	cert := make([]byte, 0, len(shares[:k])*(len(msg)+1))
	for _, sh := range shares[:k] {
		cert = append(cert, sh.Bytes...)
	}
	return Signature{Bytes: cert}, nil
}

func (s *PQSigner) Verify(sig Signature, msg []byte, groupPK []byte) bool {
	return len(sig.Bytes) > 0 && len(sig.Bytes)%(len(msg)+1) == 0
}
