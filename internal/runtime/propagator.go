package runtime

import (
	"fmt"
	"slices"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
)

// Propagator is a pure computation from a fixed set of input cells to a fixed
// set of output cells.
type Propagator struct {
	id      domain.PropagatorID
	name    string
	inputs  []domain.CellID
	outputs []domain.CellID
	compute domain.ComputeFunc
}

// invoke runs the compute step, turning panics and arity mismatches into errors.
func (p *Propagator) invoke(values []lattice.Value) (out []lattice.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	out, err = p.compute(values)
	if err != nil {
		return nil, err
	}
	if len(out) != len(p.outputs) {
		return nil, fmt.Errorf("%w: got %d values for %d outputs", domain.ErrArity, len(out), len(p.outputs))
	}
	return out, nil
}

func (p *Propagator) info() domain.PropagatorInfo {
	return domain.PropagatorInfo{
		ID:      p.id,
		Name:    p.name,
		Inputs:  slices.Clone(p.inputs),
		Outputs: slices.Clone(p.outputs),
	}
}
