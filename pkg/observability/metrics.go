package observability

import (
	"github.com/aretw0/sessiondb/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	LockOps     *prometheus.CounterVec
	LockWait    *prometheus.HistogramVec
	StoreOps    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LockOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiondb_lock_operations_total",
				Help: "Session lock acquire and release calls by backend and outcome",
			},
			[]string{"backend", "op", "outcome"},
		),
		LockWait: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sessiondb_lock_acquire_seconds",
				Help:    "Time spent acquiring session locks",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 10},
			},
			[]string{"backend"},
		),
		StoreOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiondb_store_operations_total",
				Help: "Session row store calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiondb_lifecycle_transitions_total",
				Help: "Session lifecycle state changes",
			},
			[]string{"from", "to"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.LockOps, m.LockWait, m.StoreOps, m.Transitions)
	}
	return m
}

// ObserveTransition counts a state change. Its signature matches session.Observer.
func (m *Metrics) ObserveTransition(from, to domain.State) {
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}
