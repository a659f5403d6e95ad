package threshold

// BLSSigner is Aura's fast-path Signer, grounded on the teacher's
// crypto/bls package shape (Sign/Verify/AggregatePartial/
// VerifyAggregate). It aggregates by XOR-folding share bytes rather
// than real pairing-based aggregation — a placeholder for wherever a
// genuine BLS library gets wired in, kept deterministic so the
// simulator can drive it from a seed.
type BLSSigner struct{}

func NewBLSSigner() *BLSSigner { return &BLSSigner{} }

func (s *BLSSigner) ProposeShare(participantIndex int, secretKey []byte, msg []byte) (Share, error) {
	b := make([]byte, len(msg))
	for i := range msg {
		b[i] = secretKey[i%len(secretKey)] ^ msg[i]
	}
	return Share{ParticipantIndex: participantIndex, Bytes: b}, nil
}

func (s *BLSSigner) Aggregate(msg []byte, shares []Share, k int) (Signature, error) {
	if len(shares) < k {
		return Signature{}, ErrThresholdNotMet
	}
	agg := make([]byte, len(msg))
	for _, sh := range shares[:k] {
		for i, b := range sh.Bytes {
			if i < len(agg) {
				agg[i] ^= b
			}
		}
	}
	return Signature{Bytes: agg}, nil
}

func (s *BLSSigner) Verify(sig Signature, msg []byte, groupPK []byte) bool {
	return len(sig.Bytes) == len(msg)
}
