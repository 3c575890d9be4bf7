package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels the result of one selection.
type Outcome string

const (
	OutcomeServed       Outcome = "served"
	OutcomeEmpty        Outcome = "empty"
	OutcomeFetchMiss    Outcome = "fetch_miss"
	OutcomeStoreFailure Outcome = "store_failure"
)

// SelectionMetrics counts selector outcomes for the /-/metrics endpoint.
type SelectionMetrics struct {
	selections *prometheus.CounterVec
}

// NewSelectionMetrics creates the selection counter and registers it with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewSelectionMetrics(reg prometheus.Registerer) (*SelectionMetrics, error) {
	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moviequotes",
		Name:      "selections_total",
		Help:      "Random quote selections by outcome.",
	}, []string{"outcome"})

	if err := reg.Register(selections); err != nil {
		return nil, err
	}

	// Pre-create every series so dashboards see zeros instead of gaps.
	for _, o := range []Outcome{OutcomeServed, OutcomeEmpty, OutcomeFetchMiss, OutcomeStoreFailure} {
		selections.WithLabelValues(string(o))
	}

	return &SelectionMetrics{selections: selections}, nil
}

func (m *SelectionMetrics) observe(o Outcome) {
	if m == nil {
		return
	}

	m.selections.WithLabelValues(string(o)).Inc()
}
