package dsl

import (
	"github.com/aretw0/propnet/pkg/lattice"
)

// CellBuilder provides a fluent API for configuring a cell.
type CellBuilder struct {
	name      string
	domain    lattice.Domain
	immutable bool
	values    []lattice.Value
	builder   *Builder
}

// Domain sets the merge domain of the cell.
func (c *CellBuilder) Domain(d lattice.Domain) *CellBuilder {
	c.domain = d
	return c
}

// Numeric is shorthand for Domain(lattice.Numeric{}).
func (c *CellBuilder) Numeric() *CellBuilder {
	return c.Domain(lattice.Numeric{})
}

// Equality is shorthand for Domain(lattice.Equality{}).
func (c *CellBuilder) Equality() *CellBuilder {
	return c.Domain(lattice.Equality{})
}

// Value queues an injection performed after wiring. Several values are
// merged in order.
func (c *CellBuilder) Value(v lattice.Value) *CellBuilder {
	c.values = append(c.values, v)
	return c
}

// Immutable marks the cell as a constant once it holds a value.
func (c *CellBuilder) Immutable() *CellBuilder {
	c.immutable = true
	return c
}

// Cell returns to the network builder to declare another cell.
func (c *CellBuilder) Cell(name string) *CellBuilder {
	return c.builder.Cell(name)
}
