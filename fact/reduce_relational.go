package fact

import "github.com/hxrts/aura/identity"

func applyRelational(state *AuthorityState, r *RelationalFact, v Verifier) bool {
	switch r.Kind {
	case RelGuardianBinding:
		f := r.GuardianBinding
		m, ok := state.GuardianBindings[f.Authority]
		if !ok {
			m = make(map[identity.DeviceId]bool)
			state.GuardianBindings[f.Authority] = m
		}
		m[f.Guardian] = true
		return true

	case RelRecoveryGrant:
		f := r.RecoveryGrant
		m, ok := state.RecoveryGrants[f.Authority]
		if !ok {
			m = make(map[identity.DeviceId]bool)
			state.RecoveryGrants[f.Authority] = m
		}
		m[f.Grantee] = true
		return true

	case RelConsensusResult:
		return applyConsensusResult(state, r.ConsensusResult, v)

	case RelChannelCheckpoint:
		// Checkpoints are informational markers; always accepted, no
		// state field besides the fact's own presence in the journal.
		return true

	case RelProposedChannelEpochBump:
		return applyProposedBump(state, r.ProposedChannelEpochBump)

	case RelCommittedChannelEpochBump:
		return applyCommittedBump(state, r.CommittedChannelEpochBump)

	case RelChannelPolicy:
		f := r.ChannelPolicy
		state.channelPolicy[f.Channel] = f.PolicyHash
		return true

	case RelLeakageEvent:
		f := r.LeakageEvent
		key := leakageKey{Source: f.Source, Destination: f.Destination}
		state.LeakageCounters[key] += f.BudgetConsumed
		return true

	case RelDKGTranscriptCommit:
		// Recorded for observability; no authority-state field tracks
		// transcript history beyond journal membership.
		return true

	case RelConvergenceCertificate:
		return true

	case RelReversion:
		state.RevertedOps[r.Reversion.OpID] = true
		return true

	case RelRotate:
		return applyRotate(state, r.Rotate)

	case RelGeneric:
		// Generic extension facts are always accepted; they carry no
		// authority-state semantics Aura's core understands.
		return true

	default:
		return false
	}
}

func applyConsensusResult(state *AuthorityState, f *ConsensusResultFact, v Verifier) bool {
	if _, already := state.ConsensusResults[f.ConsensusID]; already {
		return false
	}
	if !v.VerifyConsensusResult(f, f.ParticipatingK) {
		return false
	}
	state.ConsensusResults[f.ConsensusID] = f.OperationHash
	return true
}

func applyProposedBump(state *AuthorityState, f *ChannelEpochBumpFact) bool {
	ces := state.channelEpoch(f.Channel)
	pair := epochPair{Parent: f.ParentEpoch, New: f.NewEpoch}
	if ces.CommittedBumps[pair] {
		// Already settled by a committed bump; a later proposal for the
		// same pair is superseded, not an error.
		return false
	}
	if existing, ok := ces.ProposedBumps[pair]; !ok || f.BumpID.Compare(existing) < 0 {
		ces.ProposedBumps[pair] = f.BumpID
	}
	return true
}

func applyCommittedBump(state *AuthorityState, f *ChannelEpochBumpFact) bool {
	ces := state.channelEpoch(f.Channel)
	pair := epochPair{Parent: f.ParentEpoch, New: f.NewEpoch}
	if ces.CommittedBumps[pair] {
		return false // at most one committed bump per (parent_epoch, new_epoch)
	}
	if f.ParentEpoch != ces.CurrentEpoch {
		return false // stale: channel has already moved past this parent
	}
	ces.CommittedBumps[pair] = true
	ces.CurrentEpoch = f.NewEpoch
	delete(ces.ProposedBumps, pair)
	return true
}

func applyRotate(state *AuthorityState, f *RotateFact) bool {
	current, ok := state.DeviceLifecycle[f.Subject]
	if !ok {
		current = LifecycleActive
	}
	if f.Lifecycle <= current {
		return false // backwards or no-op transitions are rejected
	}
	if f.Lifecycle != current+1 {
		return false // lifecycle advances one stage at a time
	}
	state.DeviceLifecycle[f.Subject] = f.Lifecycle
	return true
}
