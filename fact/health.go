package fact

import "context"

// HealthReport mirrors the teacher's HealthReport shape (interfaces.go's
// Health interface), scoped to what a fact journal can actually attest
// to: its size and the outcome of its most recent Add/ApplySnapshot.
type HealthReport struct {
	ConsensusType string
	Healthy       bool
	Details       map[string]interface{}
}

// Healthy reports whether the journal's most recent Add or ApplySnapshot
// completed without error. ctx is accepted to match the teacher's Health
// interface shape; nothing here blocks on it.
func (j *Journal) Healthy(ctx context.Context) (bool, error) {
	return j.lastErr == nil, j.lastErr
}

// HealthReport returns a detailed snapshot of the journal's health.
func (j *Journal) HealthReport(ctx context.Context) (HealthReport, error) {
	return HealthReport{
		ConsensusType: "fact-journal",
		Healthy:       j.lastErr == nil,
		Details: map[string]interface{}{
			"namespace": j.ns.String(),
			"facts":     j.Len(),
		},
	}, j.lastErr
}
