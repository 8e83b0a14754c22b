package registry_test

import (
	"context"
	"testing"

	"github.com/aretw0/propnet"
	"github.com/aretw0/propnet/pkg/constraints"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/aretw0/propnet/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Names(t *testing.T) {
	names := registry.Default().Names()
	assert.Equal(t, []string{
		"add", "copy", "difference", "div", "equal", "mul",
		"product", "quotient", "sub", "sum", "switch",
	}, names)
}

func TestWire(t *testing.T) {
	n := propnet.New()
	var cells []domain.CellID
	for _, name := range []string{"a", "b", "c"} {
		id, err := n.AddCell(domain.CellSpec{Name: name, Domain: lattice.Numeric{}})
		require.NoError(t, err)
		cells = append(cells, id)
	}

	reg := registry.Default()
	props, err := reg.Wire(n, "product", cells...)
	require.NoError(t, err)
	assert.Len(t, props, 3)

	_, err = n.Inject(cells[2], 12)
	require.NoError(t, err)
	_, err = n.Inject(cells[1], 3)
	require.NoError(t, err)
	res, err := n.Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Quiescent())

	a, err := n.Read(cells[0])
	require.NoError(t, err)
	assert.Equal(t, 4.0, a)
}

func TestWire_Errors(t *testing.T) {
	n := propnet.New()
	reg := registry.Default()

	_, err := reg.Wire(n, "integral", 0, 1, 2)
	assert.ErrorIs(t, err, registry.ErrUnknownConstraint)

	_, err = reg.Wire(n, "sum", 0, 1)
	assert.ErrorIs(t, err, domain.ErrArity)
}

func TestRegister_Overrides(t *testing.T) {
	reg := registry.NewRegistry()
	called := false
	reg.Register("noop", registry.Constructor{
		Arity: 1,
		Build: func(constraints.Wirer, []domain.CellID) ([]domain.PropagatorID, error) {
			called = true
			return nil, nil
		},
	})

	c, ok := reg.Lookup("noop")
	require.True(t, ok)
	assert.Equal(t, 1, c.Arity)

	_, err := reg.Wire(propnet.New(), "noop", 0)
	require.NoError(t, err)
	assert.True(t, called)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}
