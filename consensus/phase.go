// Package consensus implements Aura's per-ConsensusId BFT state
// machine (spec.md §4.3): Preparing -> CollectingShares -> (FastPath |
// Fallback) -> (Committed | Failed), threshold-signature driven, with
// explicit equivocation evidence folded in from the evidence package.
package consensus

// Phase enumerates the per-ConsensusId lifecycle states (spec.md §4.3
// state table). Phase is a plain enum rather than an interface with
// one implementation per state: the transition table is small and
// total, and an enum keeps Tick/SubmitShare exhaustive switches instead
// of a type-switch over implementations.
type Phase uint8

const (
	Preparing Phase = iota
	CollectingShares
	FastPath
	Fallback
	Committed
	Failed
)

func (p Phase) String() string {
	switch p {
	case Preparing:
		return "preparing"
	case CollectingShares:
		return "collecting_shares"
	case FastPath:
		return "fast_path"
	case Fallback:
		return "fallback"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// terminal reports whether p is Committed or Failed, the two states
// that ignore all further shares (spec.md §4.3).
func (p Phase) terminal() bool {
	return p == Committed || p == Failed
}
