package consensus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks engine-wide consensus observability, grounded on the
// teacher's poll.Set metrics (a gauge plus registerer-owned counters
// rather than ad hoc package-level globals).
type Metrics struct {
	instancesActive   prometheus.Gauge
	committedTotal    prometheus.Counter
	failedTotal       prometheus.Counter
	equivocatorsTotal prometheus.Counter
}

// NewMetrics registers Aura's consensus gauges/counters against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		instancesActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aura_consensus_instances_active",
			Help: "Number of consensus instances not yet Committed or Failed.",
		}),
		committedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_consensus_committed_total",
			Help: "Total consensus instances that reached Committed.",
		}),
		failedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_consensus_failed_total",
			Help: "Total consensus instances that reached Failed.",
		}),
		equivocatorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_consensus_equivocators_total",
			Help: "Total distinct witnesses caught equivocating.",
		}),
	}
	for _, c := range []prometheus.Collector{m.instancesActive, m.committedTotal, m.failedTotal, m.equivocatorsTotal} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("consensus: registering metric: %w", err)
		}
	}
	return m, nil
}

// Observe updates the gauges/counters that can be derived purely from
// an instance's current state. Callers should call it once, at the
// moment an instance first reaches a terminal phase, not on every
// SubmitShare/Tick, or committedTotal/failedTotal will double-count.
func (m *Metrics) Observe(inst *Instance) {
	switch inst.Phase {
	case Committed:
		m.committedTotal.Inc()
	case Failed:
		m.failedTotal.Inc()
	}
	m.equivocatorsTotal.Add(float64(len(inst.Equivocators())))
}
