package constraints

import (
	"errors"
	"fmt"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
)

// Wirer is the part of a network the constructors need.
type Wirer interface {
	AddCell(spec domain.CellSpec) (domain.CellID, error)
	AddPropagator(spec domain.PropagatorSpec) (domain.PropagatorID, error)
}

// Function wires f from inputs to output under the given name.
func Function(w Wirer, name string, f Func, output domain.CellID, inputs ...domain.CellID) (domain.PropagatorID, error) {
	return w.AddPropagator(domain.PropagatorSpec{
		Name:    name,
		Inputs:  inputs,
		Outputs: []domain.CellID{output},
		Compute: Lift(f),
	})
}

// Adder wires sum = x + y.
func Adder(w Wirer, x, y, sum domain.CellID) (domain.PropagatorID, error) {
	return Function(w, "adder", binary(lattice.Add), sum, x, y)
}

// Subtractor wires diff = x - y.
func Subtractor(w Wirer, x, y, diff domain.CellID) (domain.PropagatorID, error) {
	return Function(w, "subtractor", binary(lattice.Sub), diff, x, y)
}

// Multiplier wires product = x * y.
func Multiplier(w Wirer, x, y, product domain.CellID) (domain.PropagatorID, error) {
	return Function(w, "multiplier", binary(lattice.Mul), product, x, y)
}

// Divider wires quotient = x / y. Division by zero is a propagator failure.
func Divider(w Wirer, x, y, quotient domain.CellID) (domain.PropagatorID, error) {
	return Function(w, "divider", binary(lattice.Div), quotient, x, y)
}

// Constant wires a source propagator that writes value into output once.
func Constant(w Wirer, value lattice.Value, output domain.CellID) (domain.PropagatorID, error) {
	return w.AddPropagator(domain.PropagatorSpec{
		Name:    fmt.Sprintf("constant(%v)", value),
		Outputs: []domain.CellID{output},
		Compute: func([]lattice.Value) ([]lattice.Value, error) {
			return []lattice.Value{value}, nil
		},
	})
}

// ConstantCell creates an immutable cell holding value, fed by a Constant
// propagator.
func ConstantCell(w Wirer, name string, value lattice.Value) (domain.CellID, error) {
	id, err := w.AddCell(domain.CellSpec{Name: name, Domain: domainFor(value), Immutable: true})
	if err != nil {
		return 0, err
	}
	if _, err := Constant(w, value, id); err != nil {
		return 0, err
	}
	return id, nil
}

// Switch wires output = input while control is true. A false control
// produces no information.
func Switch(w Wirer, control, input, output domain.CellID) (domain.PropagatorID, error) {
	return Function(w, "switch", func(args ...lattice.Value) (lattice.Value, error) {
		on, err := truthy(args[0])
		if err != nil {
			return nil, err
		}
		if !on {
			return lattice.Nothing, nil
		}
		return args[1], nil
	}, output, control, input)
}

func truthy(v lattice.Value) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return t != "", nil
	}
	if f, ok := lattice.ToFloat(v); ok {
		return f != 0, nil
	}
	return false, fmt.Errorf("switch control %v is not a boolean", v)
}

func domainFor(v lattice.Value) lattice.Domain {
	switch v.(type) {
	case lattice.Interval:
		return lattice.Numeric{}
	}
	if lattice.IsNumber(v) {
		return lattice.Numeric{}
	}
	return lattice.Equality{}
}

func isDivisionByZero(err error) bool {
	return errors.Is(err, lattice.ErrDivisionByZero)
}

// Identity wires output = input.
func Identity(w Wirer, input, output domain.CellID) (domain.PropagatorID, error) {
	return Function(w, "identity", func(args ...lattice.Value) (lattice.Value, error) {
		return args[0], nil
	}, output, input)
}
