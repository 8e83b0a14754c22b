package runtime_test

import (
	"testing"

	"github.com/aretw0/propnet/internal/runtime"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/stretchr/testify/require"
)

// unary lifts f into a one-in/one-out compute function that waits for a number.
func unary(f func(float64) float64) domain.ComputeFunc {
	return func(in []lattice.Value) ([]lattice.Value, error) {
		if lattice.IsContradiction(in[0]) {
			return []lattice.Value{lattice.Contradiction}, nil
		}
		x, ok := lattice.ToFloat(in[0])
		if !ok {
			return []lattice.Value{lattice.Nothing}, nil
		}
		return []lattice.Value{f(x)}, nil
	}
}

// binary lifts a lattice arithmetic operation into a two-in/one-out compute function.
func binary(op func(x, y lattice.Value) (lattice.Value, error)) domain.ComputeFunc {
	return func(in []lattice.Value) ([]lattice.Value, error) {
		for _, v := range in {
			if lattice.IsContradiction(v) {
				return []lattice.Value{lattice.Contradiction}, nil
			}
		}
		for _, v := range in {
			if lattice.IsNothing(v) {
				return []lattice.Value{lattice.Nothing}, nil
			}
		}
		out, err := op(in[0], in[1])
		if err != nil {
			return nil, err
		}
		return []lattice.Value{out}, nil
	}
}

// identity copies its single input, contradictions included.
func identity(in []lattice.Value) ([]lattice.Value, error) {
	return []lattice.Value{in[0]}, nil
}

func addCell(t *testing.T, n *runtime.Network, name string, d lattice.Domain) domain.CellID {
	t.Helper()
	id, err := n.AddCell(domain.CellSpec{Name: name, Domain: d})
	require.NoError(t, err)
	return id
}

func addProp(t *testing.T, n *runtime.Network, name string, in, out []domain.CellID, fn domain.ComputeFunc) domain.PropagatorID {
	t.Helper()
	id, err := n.AddPropagator(domain.PropagatorSpec{Name: name, Inputs: in, Outputs: out, Compute: fn})
	require.NoError(t, err)
	return id
}

func inject(t *testing.T, n *runtime.Network, id domain.CellID, v lattice.Value) {
	t.Helper()
	_, err := n.Inject(id, v)
	require.NoError(t, err)
}

func read(t *testing.T, n *runtime.Network, id domain.CellID) lattice.Value {
	t.Helper()
	v, err := n.Read(id)
	require.NoError(t, err)
	return v
}

func cells(ids ...domain.CellID) []domain.CellID { return ids }
