package fact

func applyReceipt(state *AuthorityState, f Fact, v Verifier) bool {
	r := f.Content.RendezvousReceipt
	if !v.VerifyReceipt(r) {
		return false
	}
	if f.Namespace.Kind != NamespaceContext {
		return false
	}
	seq := state.ContextFrontiers[f.Namespace.Context]
	state.ContextFrontiers[f.Namespace.Context] = seq + 1
	return true
}
