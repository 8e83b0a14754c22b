package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/internal/logging"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSolver(cfg config.Config) *cli.Solver {
	return cli.NewSolver(cfg, logging.NewNop())
}

func TestRunSolve_ExitCodes(t *testing.T) {
	collect := config.Default()
	collect.Policy = domain.PolicyCollect
	bounded := config.Default()
	bounded.MaxSteps = 1

	tests := []struct {
		name    string
		cfg     config.Config
		problem cli.Problem
		code    int
	}{
		{"quiescent", config.Default(), cli.Problem{Constraints: []string{"sum a b c"}, Values: []string{"a=1", "b=2"}}, 0},
		{"contradiction", config.Default(), cli.Problem{Constraints: []string{"sum a b c"}, Values: []string{"a=1", "b=2", "c=4"}}, exitContradiction},
		{"collected contradiction", collect, cli.Problem{Constraints: []string{"sum a b c"}, Values: []string{"a=1", "b=2", "c=4"}}, exitContradiction},
		{"step bound", bounded, cli.Problem{Constraints: []string{"sum a b c"}, Values: []string{"a=1", "b=2"}}, exitNonTermination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runSolve(context.Background(), &buf, testSolver(tt.cfg), tt.problem, cli.FormatText, nil)
			assert.Contains(t, buf.String(), "status:")
			if tt.code == 0 {
				assert.NoError(t, err)
				return
			}
			var ee *exitError
			require.ErrorAs(t, err, &ee)
			assert.Equal(t, tt.code, ee.code)
		})
	}
}

func TestRunSolve_UsageError(t *testing.T) {
	var buf bytes.Buffer
	err := runSolve(context.Background(), &buf, testSolver(config.Default()), cli.Problem{Constraints: []string{"cube a"}}, cli.FormatText, nil)
	require.Error(t, err)
	assert.True(t, cli.IsUsageError(err))
	assert.Empty(t, buf.String())
}

func TestRunSolve_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	solver := testSolver(config.Default())
	solver.Hooks = observability.NewMetrics(reg).Hooks()

	var buf bytes.Buffer
	problem := cli.Problem{Constraints: []string{"sum a b c"}, Values: []string{"a=1", "b=2"}}
	require.NoError(t, runSolve(context.Background(), &buf, solver, problem, cli.FormatJSON, reg))
	assert.Contains(t, buf.String(), `"status": "quiescent"`)
	assert.Contains(t, buf.String(), "propnet_runs_total")
}

func TestApplySchedulerFlags(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := &cobra.Command{Use: "test"}
		addSchedulerFlags(cmd)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd
	}

	cfg := config.Default()
	cfg.Workers = 4
	require.NoError(t, applySchedulerFlags(newCmd(), &cfg))
	assert.Equal(t, 4, cfg.Workers, "unset flags keep the config value")

	require.NoError(t, applySchedulerFlags(newCmd("--workers", "2", "--max-steps", "9", "--policy", "collect"), &cfg))
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 9, cfg.MaxSteps)
	assert.Equal(t, domain.PolicyCollect, cfg.Policy)

	assert.Error(t, applySchedulerFlags(newCmd("--policy", "panic"), &cfg))
	assert.Error(t, applySchedulerFlags(newCmd("--workers", "-1"), &config.Config{Policy: domain.PolicyFailFast}))
}
