package domain

import "fmt"

// CellID is an opaque handle to a cell within one network.
type CellID int

// PropagatorID is an opaque handle to a propagator within one network.
type PropagatorID int

func (id CellID) String() string { return fmt.Sprintf("cell#%d", int(id)) }

func (id PropagatorID) String() string { return fmt.Sprintf("propagator#%d", int(id)) }
