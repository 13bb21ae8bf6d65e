package metrics

import "github.com/prometheus/client_golang/prometheus"

// SettlementMetrics counts trade decision outcomes.
type SettlementMetrics struct {
	decisions *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement counters on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trade_decisions_total",
		Help: "Trade proposal decisions processed, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(decisions)
	return &SettlementMetrics{decisions: decisions}
}

// IncDecision increments the counter for a decision outcome (accepted, rejected,
// insufficient_carbon, insufficient_cash, conflict).
func (s *SettlementMetrics) IncDecision(outcome string) {
	if s == nil || s.decisions == nil {
		return
	}
	s.decisions.WithLabelValues(normalizeLabel(outcome)).Inc()
}
