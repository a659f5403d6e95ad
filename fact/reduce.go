package fact

// Reduce folds the journal's facts, sorted by (order, canonical hash),
// into an AuthorityState. Each fact is either applied, advancing the
// state, or rejected and dropped from this fold only — it remains in
// storage for a future reduction against a state where it becomes valid
// (spec.md §4.1: "Invalid facts are dropped from reduction but retained
// in storage"). Reduce never returns an error for an individual fact;
// it is pure and total over any journal.
func (j *Journal) Reduce(v Verifier) (*AuthorityState, error) {
	state := NewAuthorityState()
	for _, f := range j.Facts() {
		if applyFact(state, f, v) {
			state.AppliedCount++
		} else {
			state.RejectedCount++
		}
	}
	return state, nil
}

func applyFact(state *AuthorityState, f Fact, v Verifier) bool {
	switch f.Content.Kind {
	case ContentAttestedOp:
		return applyAttestedOp(state, f.Content.AttestedOp, f.WitnessSet, v)
	case ContentRelational:
		return applyRelational(state, f.Content.Relational, v)
	case ContentSnapshot:
		// Snapshots carry no authority-state effect of their own during
		// an ordinary fold; their effect is structural (superseding
		// facts), applied via ApplySnapshot on the journal itself.
		return true
	case ContentRendezvousReceipt:
		return applyReceipt(state, f, v)
	default:
		return false
	}
}

