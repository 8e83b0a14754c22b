package observability_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/propnet/internal/runtime"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/aretw0/propnet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyProp(in []lattice.Value) ([]lattice.Value, error) {
	return []lattice.Value{in[0]}, nil
}

func TestMetrics_RecordsRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	n := runtime.NewNetwork(runtime.WithLifecycleHooks(m.Hooks()), runtime.WithPolicy(domain.PolicyCollect))

	a, err := n.AddCell(domain.CellSpec{Name: "a"})
	require.NoError(t, err)
	b, err := n.AddCell(domain.CellSpec{Name: "b"})
	require.NoError(t, err)
	_, err = n.AddPropagator(domain.PropagatorSpec{Name: "copy", Inputs: []domain.CellID{a}, Outputs: []domain.CellID{b}, Compute: copyProp})
	require.NoError(t, err)

	_, err = n.Inject(b, 2)
	require.NoError(t, err)
	_, err = n.Inject(a, 1)
	require.NoError(t, err)
	res, err := n.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CellChanges.WithLabelValues("a")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CellChanges.WithLabelValues("b")), "injection then contradiction")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Contradictions.WithLabelValues("b")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropagatorRuns.WithLabelValues("changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues(string(res.Status))))

	expected := `
# HELP propnet_runs_total Number of completed runs by status
# TYPE propnet_runs_total counter
propnet_runs_total{status="quiescent"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "propnet_runs_total"))
	count, err := testutil.GatherAndCount(reg,
		"propnet_cell_changes_total",
		"propnet_contradictions_total",
		"propnet_propagator_runs_total",
		"propnet_runs_total",
		"propnet_run_steps",
		"propnet_run_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 7, count, "two cell series, one series for each other collector")
}

func TestMetrics_Failures(t *testing.T) {
	m := observability.NewMetrics(nil)
	hooks := m.Hooks()
	hooks.OnPropagatorFailure(context.Background(), &domain.PropagatorEvent{})
	hooks.OnPropagatorRun(context.Background(), &domain.PropagatorEvent{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropagatorRuns.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropagatorRuns.WithLabelValues("idle")))
}

func TestCompose(t *testing.T) {
	var order []string
	first := domain.LifecycleHooks{
		OnCellChange: func(context.Context, *domain.CellEvent) { order = append(order, "first") },
	}
	second := domain.LifecycleHooks{
		OnCellChange:  func(context.Context, *domain.CellEvent) { order = append(order, "second") },
		OnRunComplete: func(context.Context, *domain.RunEvent) { order = append(order, "done") },
	}

	hooks := observability.Compose(first, domain.LifecycleHooks{}, second)
	require.NotNil(t, hooks.OnCellChange)
	require.NotNil(t, hooks.OnRunComplete)
	assert.Nil(t, hooks.OnContradiction)

	hooks.OnCellChange(context.Background(), &domain.CellEvent{})
	hooks.OnRunComplete(context.Background(), &domain.RunEvent{})
	assert.Equal(t, []string{"first", "second", "done"}, order)
}
