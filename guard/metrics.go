package guard

import (
	"fmt"

	"github.com/hxrts/aura/budget"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks guard-chain observability: how many sends clear the
// chain versus get rejected at each step, and the flow/leakage spend the
// chain charges. Grounded on the teacher's poll.Set metrics (a gauge
// plus registerer-owned counters rather than package-level globals).
type Metrics struct {
	sendsTotal             prometheus.Counter
	unauthorizedTotal      prometheus.Counter
	overFlowBudgetTotal    prometheus.Counter
	overLeakageBudgetTotal prometheus.Counter
	flowSpent              prometheus.Gauge
	leakageSpent           prometheus.Gauge
}

// NewMetrics registers the guard chain's counters/gauges against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sendsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_guard_sends_total",
			Help: "Total sends that cleared the guard chain.",
		}),
		unauthorizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_guard_rejected_unauthorized_total",
			Help: "Total sends rejected by the capability guard step.",
		}),
		overFlowBudgetTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_guard_rejected_over_flow_budget_total",
			Help: "Total sends rejected by the flow-budget guard step.",
		}),
		overLeakageBudgetTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aura_guard_rejected_over_leakage_budget_total",
			Help: "Total sends rejected by the leakage-budget guard step.",
		}),
		flowSpent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aura_guard_flow_spent",
			Help: "Flow budget spent by the most recently committed send's counter.",
		}),
		leakageSpent: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aura_guard_leakage_spent",
			Help: "Leakage budget spent by the most recently committed send's counter.",
		}),
	}
	collectors := []prometheus.Collector{
		m.sendsTotal, m.unauthorizedTotal, m.overFlowBudgetTotal,
		m.overLeakageBudgetTotal, m.flowSpent, m.leakageSpent,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("guard: registering metric: %w", err)
		}
	}
	return m, nil
}

// observeReject increments the counter for the step that rejected a
// send, identified by the sentinel error Evaluate returned.
func (m *Metrics) observeReject(reason error) {
	if m == nil {
		return
	}
	switch reason {
	case ErrUnauthorized:
		m.unauthorizedTotal.Inc()
	case ErrOverFlowBudget:
		m.overFlowBudgetTotal.Inc()
	case ErrOverLeakageBudget:
		m.overLeakageBudgetTotal.Inc()
	}
}

// observeSend records a send that cleared all five guard steps.
func (m *Metrics) observeSend() {
	if m == nil {
		return
	}
	m.sendsTotal.Inc()
}

// observeSpend refreshes the flow/leakage spend gauges after a commit.
func (m *Metrics) observeSpend(flowCounter, leakageCounter *budget.Counter) {
	if m == nil {
		return
	}
	m.flowSpent.Set(float64(flowCounter.Spent))
	if leakageCounter != nil {
		m.leakageSpent.Set(float64(leakageCounter.Spent))
	}
}
