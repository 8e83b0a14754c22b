package observability

import (
	"context"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by network hooks.
type Metrics struct {
	CellChanges    *prometheus.CounterVec
	PropagatorRuns *prometheus.CounterVec
	Contradictions *prometheus.CounterVec
	Runs           *prometheus.CounterVec
	StepsPerRun    prometheus.Histogram
	RunDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered, which suits tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CellChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propnet_cell_changes_total",
				Help: "Number of merges that changed a cell value",
			},
			[]string{"cell"},
		),
		PropagatorRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propnet_propagator_runs_total",
				Help: "Number of propagator firings by outcome",
			},
			[]string{"outcome"},
		),
		Contradictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propnet_contradictions_total",
				Help: "Number of cells that became contradictory",
			},
			[]string{"cell"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propnet_runs_total",
				Help: "Number of completed runs by status",
			},
			[]string{"status"},
		),
		StepsPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "propnet_run_steps",
			Help:    "Propagator firings per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "propnet_run_duration_seconds",
			Help:    "Wall time of a run",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.CellChanges, m.PropagatorRuns, m.Contradictions, m.Runs, m.StepsPerRun, m.RunDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCellChange: func(_ context.Context, e *domain.CellEvent) {
			m.CellChanges.WithLabelValues(cellLabel(e)).Inc()
		},
		OnContradiction: func(_ context.Context, e *domain.CellEvent) {
			m.Contradictions.WithLabelValues(cellLabel(e)).Inc()
		},
		OnPropagatorRun: func(_ context.Context, e *domain.PropagatorEvent) {
			outcome := "idle"
			if e.Changed > 0 {
				outcome = "changed"
			}
			m.PropagatorRuns.WithLabelValues(outcome).Inc()
		},
		OnPropagatorFailure: func(_ context.Context, e *domain.PropagatorEvent) {
			m.PropagatorRuns.WithLabelValues("failed").Inc()
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(string(e.Result.Status)).Inc()
			m.StepsPerRun.Observe(float64(e.Result.Steps))
			m.RunDuration.Observe(e.Duration.Seconds())
		},
	}
}

func cellLabel(e *domain.CellEvent) string {
	if e.CellName != "" {
		return e.CellName
	}
	return e.CellID.String()
}
