package propnet_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/propnet"
	"github.com/aretw0/propnet/internal/logging"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterNetwork(t *testing.T, opts ...propnet.Option) (*propnet.Network, domain.CellID) {
	t.Helper()
	net := propnet.New(opts...)
	x, err := net.AddCell(domain.CellSpec{Name: "x", Domain: lattice.Max{}})
	require.NoError(t, err)
	_, err = net.AddPropagator(domain.PropagatorSpec{
		Name:    "increment",
		Inputs:  []domain.CellID{x},
		Outputs: []domain.CellID{x},
		Compute: func(in []lattice.Value) ([]lattice.Value, error) {
			n, ok := lattice.ToFloat(in[0])
			if !ok {
				n = 0
			}
			return []lattice.Value{n + 1}, nil
		},
	})
	require.NoError(t, err)
	return net, x
}

func TestNew_GeneratesID(t *testing.T) {
	a, b := propnet.New(), propnet.New()
	assert.NotEqual(t, a.ID, b.ID)
	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)

	named := propnet.New(propnet.WithID("thermostat"))
	assert.Equal(t, "thermostat", named.ID)
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxSteps = 10
	cfg.Workers = 2

	net, x := counterNetwork(t, propnet.WithConfig(cfg))
	res, err := net.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNonTermination, res.Status)
	assert.Equal(t, 10, res.Steps)
	assert.ErrorIs(t, res.Err(), domain.ErrNonTermination)

	v, err := net.Read(x)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestWithConfig_LaterOptionsWin(t *testing.T) {
	cfg := config.Default()
	cfg.MaxSteps = 10

	net, _ := counterNetwork(t, propnet.WithConfig(cfg), propnet.WithMaxSteps(3))
	res, err := net.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Steps)
}

func TestWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug)

	net, _ := counterNetwork(t, propnet.WithLogger(logger), propnet.WithID("logged"), propnet.WithMaxSteps(2))
	_, err := net.Run(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "network=logged")
	assert.Contains(t, out, `msg="run complete"`)
	assert.Contains(t, out, "status=non_termination")
}

func TestWithLifecycleHooks(t *testing.T) {
	var statuses []domain.RunStatus
	hooks := domain.LifecycleHooks{
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			statuses = append(statuses, e.Result.Status)
			assert.Equal(t, "hooked", e.NetworkID)
		},
	}

	net := propnet.New(propnet.WithLifecycleHooks(hooks), propnet.WithID("hooked"))
	_, err := net.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.RunStatus{domain.StatusQuiescent}, statuses)
}

func TestWithPolicy(t *testing.T) {
	for _, policy := range []domain.ContradictionPolicy{domain.PolicyFailFast, domain.PolicyCollect} {
		t.Run(string(policy), func(t *testing.T) {
			net := propnet.New(propnet.WithPolicy(policy))
			a, err := net.AddCell(domain.CellSpec{Name: "a"})
			require.NoError(t, err)
			_, err = net.Inject(a, "red")
			require.NoError(t, err)
			_, err = net.Inject(a, "blue")
			require.NoError(t, err)

			res, err := net.Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, []domain.CellID{a}, net.Contradictions())
			assert.ErrorIs(t, res.Err(), domain.ErrContradiction)
			if policy == domain.PolicyFailFast {
				assert.Equal(t, domain.StatusHaltedContradiction, res.Status)
			} else {
				assert.Equal(t, domain.StatusQuiescent, res.Status)
			}
		})
	}
}

func TestFacadeIntrospection(t *testing.T) {
	net, x := counterNetwork(t)
	assert.Equal(t, 1, net.Pending())

	info, err := net.Cell(x)
	require.NoError(t, err)
	assert.Equal(t, "x", info.Name)
	assert.Equal(t, "max", info.Domain)
	assert.Len(t, net.Cells(), 1)
	require.Len(t, net.Propagators(), 1)
	assert.Equal(t, "increment", net.Propagators()[0].Name)

	_, err = net.Inject(x, 5.0)
	require.NoError(t, err)
	require.NoError(t, net.Freeze(x))
	_, err = net.Inject(x, 6.0)
	assert.ErrorIs(t, err, domain.ErrConstantViolation)
}
