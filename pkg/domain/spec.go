package domain

import "github.com/aretw0/propnet/pkg/lattice"

// ComputeFunc is the body of a propagator.
//
// It receives the current value of every input cell, in declaration order,
// including Nothing for cells without information, and returns one value per
// output cell. Returning Nothing for an output leaves that cell untouched.
// A returned error marks the firing as failed and none of its outputs are merged.
type ComputeFunc func(inputs []lattice.Value) ([]lattice.Value, error)

// CellSpec describes a cell to add to a network.
type CellSpec struct {
	// Name is a human-readable label used in logs and reports. Optional.
	Name string

	// Domain supplies the merge for this cell. Defaults to lattice.Equality.
	Domain lattice.Domain

	// Immutable rejects any merge that would change a determined value.
	Immutable bool
}

// PropagatorSpec describes a propagator to add to a network.
type PropagatorSpec struct {
	Name    string
	Inputs  []CellID
	Outputs []CellID
	Compute ComputeFunc
}

// CellInfo is a point-in-time view of a cell.
type CellInfo struct {
	ID          CellID
	Name        string
	Domain      string
	Value       lattice.Value
	Immutable   bool
	Subscribers []PropagatorID
}

// PropagatorInfo is a static view of a propagator's wiring.
type PropagatorInfo struct {
	ID      PropagatorID
	Name    string
	Inputs  []CellID
	Outputs []CellID
}
