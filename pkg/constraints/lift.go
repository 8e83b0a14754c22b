package constraints

import (
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
)

// Func computes one output from determined inputs.
type Func func(args ...lattice.Value) (lattice.Value, error)

// Lift adapts f to a single-output compute function. Contradiction in any
// input is passed through, Nothing in any input yields Nothing, and f only
// sees determined values.
func Lift(f Func) domain.ComputeFunc {
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
		out, err := f(in...)
		if err != nil {
			return nil, err
		}
		return []lattice.Value{out}, nil
	}
}

// binary adapts a two-argument lattice operation to Func.
func binary(op func(x, y lattice.Value) (lattice.Value, error)) Func {
	return func(args ...lattice.Value) (lattice.Value, error) {
		return op(args[0], args[1])
	}
}

// undetermined treats division by zero as "no information": 0 * x = 0 says
// nothing about x.
func undetermined(op func(x, y lattice.Value) (lattice.Value, error)) func(x, y lattice.Value) (lattice.Value, error) {
	return func(x, y lattice.Value) (lattice.Value, error) {
		out, err := op(x, y)
		if err != nil && isDivisionByZero(err) {
			return lattice.Nothing, nil
		}
		return out, err
	}
}
