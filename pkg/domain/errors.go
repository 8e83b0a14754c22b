package domain

import (
	"errors"
	"fmt"

	"github.com/aretw0/propnet/pkg/lattice"
)

var (
	// ErrContradiction is returned by RunResult.Err when a run halts on a contradictory cell.
	ErrContradiction = errors.New("contradiction")

	// ErrNonTermination is returned by RunResult.Err when the step bound is exceeded.
	ErrNonTermination = errors.New("non-termination")

	// ErrConstantViolation is returned when a merge would change an immutable cell.
	ErrConstantViolation = errors.New("constant violation")

	// ErrPropagatorFailure wraps a failure of a propagator's compute step.
	ErrPropagatorFailure = errors.New("propagator failure")

	// ErrNetworkRunning is returned when the network is modified structurally during a run.
	ErrNetworkRunning = errors.New("network is running")

	// ErrUnknownCell is returned for a cell id the network does not own.
	ErrUnknownCell = errors.New("unknown cell")

	// ErrUnknownPropagator is returned for a propagator id the network does not own.
	ErrUnknownPropagator = errors.New("unknown propagator")

	// ErrArity is returned when a propagator yields the wrong number of outputs.
	ErrArity = errors.New("output arity mismatch")
)

// ConstantViolationError records an attempt to change an immutable cell.
type ConstantViolationError struct {
	Cell      CellID
	Name      string
	Current   lattice.Value
	Attempted lattice.Value
	// Source is the propagator that attempted the merge, or -1 for external injection.
	Source PropagatorID
}

func (e *ConstantViolationError) Error() string {
	return fmt.Sprintf("%s %s (%s): holds %v, refused %v", ErrConstantViolation, e.Cell, e.Name, e.Current, e.Attempted)
}

func (e *ConstantViolationError) Unwrap() error { return ErrConstantViolation }

// PropagatorFailure records a propagator whose compute step failed.
type PropagatorFailure struct {
	Propagator PropagatorID
	Name       string
	Inputs     []CellID
	Outputs    []CellID
	Values     []lattice.Value
	Cause      error
}

func (f *PropagatorFailure) Error() string {
	return fmt.Sprintf("%s %s (%s) inputs=%v values=%v: %v", ErrPropagatorFailure, f.Propagator, f.Name, f.Inputs, f.Values, f.Cause)
}

// Unwrap exposes both the category and the underlying cause to errors.Is.
func (f *PropagatorFailure) Unwrap() []error { return []error{ErrPropagatorFailure, f.Cause} }
