package consensus

import "context"

// HealthReport mirrors the teacher's HealthReport shape (interfaces.go's
// Health interface), scoped to a single Instance: its phase and the
// equivocators it has caught.
type HealthReport struct {
	ConsensusType string
	Healthy       bool
	Details       map[string]interface{}
}

// Healthy reports whether inst has not reached Failed. A Committed
// instance is healthy (it did its job); only Failed — the fallback
// deadline elapsing without a stabilized majority — counts as unhealthy.
// ctx is accepted to match the teacher's Health interface shape; nothing
// here blocks on it.
func (inst *Instance) Healthy(ctx context.Context) (bool, error) {
	if inst.Phase == Failed {
		return false, ErrPhaseViolation
	}
	return true, nil
}

// HealthReport returns a detailed snapshot of inst's health.
func (inst *Instance) HealthReport(ctx context.Context) (HealthReport, error) {
	healthy, err := inst.Healthy(ctx)
	return HealthReport{
		ConsensusType: "aura-threshold-bft",
		Healthy:       healthy,
		Details: map[string]interface{}{
			"phase":        inst.Phase.String(),
			"equivocators": len(inst.Equivocators()),
		},
	}, err
}
