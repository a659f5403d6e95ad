package fact

import "github.com/hxrts/aura/identity"

func applyAttestedOp(state *AuthorityState, op *AttestedOp, witnesses []identity.DeviceId, v Verifier) bool {
	if op.ParentCommitment != state.Root {
		return false
	}
	if len(witnesses) < op.WitnessThreshold {
		return false
	}
	if !v.VerifyAttestedOp(op, witnesses) {
		return false
	}
	if state.RevertedOps[op.OpID] {
		return false
	}

	switch op.Op {
	case OpAddLeaf:
		if op.LeafIsGuardian {
			state.ActiveGuardians[op.Leaf] = true
		} else {
			state.ActiveDevices[op.Leaf] = true
		}
		if _, ok := state.DeviceLifecycle[op.Leaf]; !ok {
			state.DeviceLifecycle[op.Leaf] = LifecycleActive
		}
	case OpRemoveLeaf:
		if op.LeafIsGuardian {
			delete(state.ActiveGuardians, op.Leaf)
		} else {
			delete(state.ActiveDevices, op.Leaf)
		}
	case OpUpdatePolicy:
		state.Policy = op.PolicyHash
	case OpRotateEpoch:
		state.Epoch++
	default:
		return false
	}

	state.Root = op.NewCommitment
	return true
}
