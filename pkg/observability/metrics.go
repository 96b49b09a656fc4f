package observability

import (
	"context"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	Simulations *prometheus.CounterVec
	Duration    prometheus.Histogram
	Dropped     *prometheus.CounterVec
	Capped      prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		Simulations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuitlab_simulations_total",
				Help: "Total number of simulation passes by status",
			},
			[]string{"status"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "circuitlab_simulation_duration_seconds",
				Help:    "Duration of simulation passes",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		Dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "circuitlab_elements_dropped_total",
				Help: "Elements rejected by the registry, by kind",
			},
			[]string{"kind"},
		),
		Capped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "circuitlab_traversal_capped_total",
				Help: "Path searches aborted by the step limit",
			},
		),
	}
	for _, c := range []prometheus.Collector{m.Simulations, m.Duration, m.Dropped, m.Capped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSimulate: func(ctx context.Context, e *domain.SimulationEvent) {
			m.Simulations.WithLabelValues(e.Status.String()).Inc()
			m.Duration.Observe(e.Duration.Seconds())
		},
		OnElementDropped: func(ctx context.Context, e *domain.DropEvent) {
			kind := string(e.Kind)
			if !e.Kind.Valid() {
				// Unknown kinds would explode label cardinality.
				kind = "invalid"
			}
			m.Dropped.WithLabelValues(kind).Inc()
		},
		OnTraversalCapped: func(ctx context.Context, e *domain.CapEvent) {
			m.Capped.Inc()
		},
	}
}
