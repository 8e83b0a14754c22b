package cli_test

import (
	"context"
	"testing"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/internal/logging"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func converter(values ...string) cli.Problem {
	return cli.Problem{
		Constants: []string{"k32=32", "k9=9", "k5=5"},
		Constraints: []string{
			"difference f k32 t",
			"product c k9 c9",
			"product t k5 c9",
		},
		Values: values,
	}
}

func newSolver() *cli.Solver {
	return cli.NewSolver(config.Default(), logging.NewNop())
}

func cellValues(sol *cli.Solution) map[string]string {
	out := make(map[string]string, len(sol.Cells))
	for _, c := range sol.Cells {
		out[c.Name] = c.Value
	}
	return out
}

func TestSolve_Converter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  map[string]string
	}{
		{"fahrenheit", "f=212", map[string]string{"c": "100", "t": "180", "c9": "900"}},
		{"celsius", "c=0", map[string]string{"f": "32", "t": "0"}},
		{"interval", "f=[32, 212]", map[string]string{"c": "[0, 100]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := newSolver().Solve(context.Background(), converter(tt.value))
			require.NoError(t, err)
			require.NoError(t, sol.Err())
			assert.Equal(t, domain.StatusQuiescent, sol.Status)

			got := cellValues(sol)
			for name, want := range tt.want {
				assert.Equal(t, want, got[name], name)
			}
		})
	}
}

func TestSolve_CellsInDeclarationOrder(t *testing.T) {
	sol, err := newSolver().Solve(context.Background(), converter())
	require.NoError(t, err)

	var names []string
	for _, c := range sol.Cells {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"k32", "k9", "k5", "f", "t", "c", "c9"}, names)
	assert.True(t, sol.Cells[0].Constant)
	assert.Equal(t, "Nothing", cellValues(sol)["f"])
}

func TestSolve_Contradiction(t *testing.T) {
	sol, err := newSolver().Solve(context.Background(), converter("f=212", "c=0"))
	require.NoError(t, err, "contradictions are reported in the solution")
	assert.Equal(t, domain.StatusHaltedContradiction, sol.Status)
	assert.NotEmpty(t, sol.Contradictions)
	assert.ErrorIs(t, sol.Err(), domain.ErrContradiction)
}

func TestSolve_CollectPolicy(t *testing.T) {
	cfg := config.Default()
	cfg.Policy = domain.PolicyCollect
	s := cli.NewSolver(cfg, logging.NewNop())

	sol, err := s.Solve(context.Background(), converter("f=212", "c=0"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQuiescent, sol.Status)
	assert.NotEmpty(t, sol.Contradictions)
	assert.ErrorIs(t, sol.Err(), domain.ErrContradiction)
}

func TestSolve_NonNumericValues(t *testing.T) {
	p := cli.Problem{
		Constraints: []string{"switch on color shown"},
		Values:      []string{"on=true", "color=red"},
	}
	sol, err := newSolver().Solve(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "red", cellValues(sol)["shown"])
}

func TestSolve_Failures(t *testing.T) {
	p := cli.Problem{
		Constraints: []string{"div x y z"},
		Values:      []string{"x=1", "y=0"},
	}
	sol, err := newSolver().Solve(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, sol.Failures, 1)
	assert.Contains(t, sol.Failures[0], "division by zero")
}

func TestSolve_Violations(t *testing.T) {
	p := cli.Problem{
		Constants:   []string{"k=1"},
		Constraints: []string{"copy x k"},
		Values:      []string{"x=2"},
	}
	sol, err := newSolver().Solve(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, sol.Violations, 1)
	assert.Equal(t, "1", cellValues(sol)["k"])
}

func TestSolve_NaNIsContradiction(t *testing.T) {
	sol, err := newSolver().Solve(context.Background(), converter("c=NaN"))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHaltedContradiction, sol.Status)
	assert.Equal(t, "Contradiction", cellValues(sol)["c"])
	assert.Equal(t, []string{"c"}, sol.Contradictions)
}

func TestSolve_MalformedProblems(t *testing.T) {
	tests := []struct {
		name    string
		problem cli.Problem
		target  error
	}{
		{"bad constraint", cli.Problem{Constraints: []string{"sum"}}, cli.ErrSyntax},
		{"unknown kind", cli.Problem{Constraints: []string{"cube a b"}}, registry.ErrUnknownConstraint},
		{"wrong arity", cli.Problem{Constraints: []string{"sum a b"}}, domain.ErrArity},
		{"bad value", cli.Problem{Constraints: []string{"sum a b c"}, Values: []string{"a"}}, cli.ErrSyntax},
		{"bad constant", cli.Problem{Constants: []string{"k=[2, 1]"}}, cli.ErrSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newSolver().Solve(context.Background(), tt.problem)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.True(t, cli.IsUsageError(err))
		})
	}
}

func TestSolve_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSolver().Solve(ctx, converter("f=212"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, cli.IsUsageError(err))
}

func TestSolver_Constraints(t *testing.T) {
	list := newSolver().Constraints()
	require.NotEmpty(t, list)
	assert.Contains(t, list, cli.Constraint{Name: "product", Arity: 3, Description: "x * y = z"})

	var names []string
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.IsIncreasing(t, names)
}
