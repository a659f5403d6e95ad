package fact

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks journal-wide observability, grounded on the teacher's
// poll.Set metrics (a gauge plus registerer-owned counters rather than
// package-level globals).
type Metrics struct {
	factsTotal           prometheus.Gauge
	gcRunsTotal          prometheus.Counter
	factsSupersededTotal prometheus.Counter
}

// NewMetrics registers the journal's gauge/counters against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		factsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aura_fact_journal_facts",
			Help: "Number of facts currently held by the journal.",
		}),
		gcRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_fact_journal_gc_runs_total",
			Help: "Total ApplySnapshot garbage-collection passes.",
		}),
		factsSupersededTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_fact_journal_facts_superseded_total",
			Help: "Total facts removed from the journal by ApplySnapshot.",
		}),
	}
	for _, c := range []prometheus.Collector{m.factsTotal, m.gcRunsTotal, m.factsSupersededTotal} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("fact: registering metric: %w", err)
		}
	}
	return m, nil
}

// Observe refreshes the fact-count gauge from j's current size. Called
// by Journal.Add and Journal.ApplySnapshot whenever a Metrics is
// attached via SetMetrics.
func (m *Metrics) Observe(j *Journal) {
	m.factsTotal.Set(float64(j.Len()))
}

// ObserveGC records one ApplySnapshot pass that superseded n facts.
func (m *Metrics) ObserveGC(superseded int) {
	m.gcRunsTotal.Inc()
	m.factsSupersededTotal.Add(float64(superseded))
}
