package dsl

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/propnet"
	"github.com/aretw0/propnet/pkg/constraints"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/aretw0/propnet/pkg/registry"
)

// ErrDuplicatePropagator is returned when two custom propagators share a name.
var ErrDuplicatePropagator = errors.New("duplicate propagator name")

type constraintDecl struct {
	kind  string
	cells []string
}

type funcDecl struct {
	name   string
	f      constraints.Func
	output string
	inputs []string
}

// Builder manages the network construction.
type Builder struct {
	cells       map[string]*CellBuilder
	order       []string
	constraints []constraintDecl
	funcs       []funcDecl
	registry    *registry.Registry
	domain      lattice.Domain
}

// New creates a builder that resolves constraints with registry.Default().
func New() *Builder {
	return &Builder{
		cells:    make(map[string]*CellBuilder),
		registry: registry.Default(),
		domain:   lattice.Numeric{},
	}
}

// WithRegistry swaps the registry used to resolve constraint names.
func (b *Builder) WithRegistry(r *registry.Registry) *Builder {
	b.registry = r
	return b
}

// WithDefaultDomain sets the domain of cells that do not choose one.
func (b *Builder) WithDefaultDomain(d lattice.Domain) *Builder {
	b.domain = d
	return b
}

// Cell declares a cell. If the cell already exists, it returns the existing builder.
func (b *Builder) Cell(name string) *CellBuilder {
	if cb, ok := b.cells[name]; ok {
		return cb
	}
	cb := &CellBuilder{name: name, builder: b}
	b.cells[name] = cb
	b.order = append(b.order, name)
	return cb
}

// Constant declares an immutable cell holding v.
func (b *Builder) Constant(name string, v lattice.Value) *CellBuilder {
	return b.Cell(name).Value(v).Immutable()
}

// Constraint wires the registered constraint kind over the named cells.
func (b *Builder) Constraint(kind string, cells ...string) *Builder {
	for _, name := range cells {
		b.Cell(name)
	}
	b.constraints = append(b.constraints, constraintDecl{kind: kind, cells: cells})
	return b
}

// Func wires a lifted function from the named inputs to the named output.
func (b *Builder) Func(name string, f constraints.Func, output string, inputs ...string) *Builder {
	b.Cell(output)
	for _, in := range inputs {
		b.Cell(in)
	}
	b.funcs = append(b.funcs, funcDecl{name: name, f: f, output: output, inputs: inputs})
	return b
}

// Build creates the network, wires every declaration and injects the
// declared values. Nothing is run yet.
func (b *Builder) Build(opts ...propnet.Option) (*Network, error) {
	net := &Network{
		Network: propnet.New(opts...),
		ids:     make(map[string]domain.CellID, len(b.order)),
	}

	for _, name := range b.order {
		cb := b.cells[name]
		d := cb.domain
		if d == nil {
			d = b.domain
		}
		id, err := net.AddCell(domain.CellSpec{Name: name, Domain: d, Immutable: cb.immutable})
		if err != nil {
			return nil, fmt.Errorf("cell %q: %w", name, err)
		}
		net.ids[name] = id
		net.names = append(net.names, name)
	}

	for _, c := range b.constraints {
		if _, err := b.registry.Wire(net, c.kind, net.resolve(c.cells)...); err != nil {
			return nil, fmt.Errorf("constraint %s%v: %w", c.kind, c.cells, err)
		}
	}

	seen := make(map[string]bool, len(b.funcs))
	for _, f := range b.funcs {
		if seen[f.name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePropagator, f.name)
		}
		seen[f.name] = true
		if _, err := constraints.Function(net, f.name, f.f, net.ids[f.output], net.resolve(f.inputs)...); err != nil {
			return nil, fmt.Errorf("func %s: %w", f.name, err)
		}
	}

	for _, name := range b.order {
		for _, v := range b.cells[name].values {
			if _, err := net.Inject(net.ids[name], v); err != nil {
				return nil, fmt.Errorf("cell %q: %w", name, err)
			}
		}
	}
	return net, nil
}

// Network is a built network whose cells can be addressed by name.
type Network struct {
	*propnet.Network
	ids   map[string]domain.CellID
	names []string
}

// ErrUnknownName is returned for a cell name the builder never declared.
var ErrUnknownName = errors.New("unknown cell name")

// Lookup returns the handle of a named cell.
func (n *Network) Lookup(name string) (domain.CellID, error) {
	id, ok := n.ids[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return id, nil
}

// Names lists the cells in declaration order.
func (n *Network) Names() []string {
	return append([]string(nil), n.names...)
}

// Value reads a cell by name.
func (n *Network) Value(name string) (lattice.Value, error) {
	id, err := n.Lookup(name)
	if err != nil {
		return nil, err
	}
	return n.Read(id)
}

// Set injects a value into a cell by name.
func (n *Network) Set(name string, v lattice.Value) (bool, error) {
	id, err := n.Lookup(name)
	if err != nil {
		return false, err
	}
	return n.Inject(id, v)
}

// Solve injects values by name and runs the network to completion.
func (n *Network) Solve(ctx context.Context, values map[string]lattice.Value) (*domain.RunResult, error) {
	for name, v := range values {
		if _, err := n.Set(name, v); err != nil {
			return nil, err
		}
	}
	return n.Run(ctx)
}

func (n *Network) resolve(names []string) []domain.CellID {
	out := make([]domain.CellID, len(names))
	for i, name := range names {
		out[i] = n.ids[name]
	}
	return out
}
