package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/propnet/pkg/constraints"
	"github.com/aretw0/propnet/pkg/domain"
)

// ErrUnknownConstraint is returned when a name has no registered constructor.
var ErrUnknownConstraint = errors.New("unknown constraint")

// BuildFunc wires a constraint over the given cells.
type BuildFunc func(w constraints.Wirer, cells []domain.CellID) ([]domain.PropagatorID, error)

// Constructor describes a named way of wiring propagators.
type Constructor struct {
	// Arity is the number of cells the constructor takes.
	Arity       int
	Description string
	Build       BuildFunc
}

// Registry manages the available constraint constructors.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// Register adds a constructor to the registry.
// If a constructor with the same name exists, it is overwritten.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[name] = c
}

// Lookup returns the constructor registered under name.
func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.constructors[name]
	return c, ok
}

// Names lists the registered constructors in alphabetical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Wire looks up a constructor by name and applies it to cells.
func (r *Registry) Wire(w constraints.Wirer, name string, cells ...domain.CellID) ([]domain.PropagatorID, error) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConstraint, name)
	}
	if len(cells) != c.Arity {
		return nil, fmt.Errorf("%s takes %d cells, got %d: %w", name, c.Arity, len(cells), domain.ErrArity)
	}
	return c.Build(w, cells)
}

// Default returns a registry preloaded with the arithmetic constraints.
func Default() *Registry {
	r := NewRegistry()
	one := func(f func(constraints.Wirer, domain.CellID, domain.CellID, domain.CellID) (domain.PropagatorID, error)) BuildFunc {
		return func(w constraints.Wirer, c []domain.CellID) ([]domain.PropagatorID, error) {
			id, err := f(w, c[0], c[1], c[2])
			if err != nil {
				return nil, err
			}
			return []domain.PropagatorID{id}, nil
		}
	}
	all := func(f func(constraints.Wirer, domain.CellID, domain.CellID, domain.CellID) ([]domain.PropagatorID, error)) BuildFunc {
		return func(w constraints.Wirer, c []domain.CellID) ([]domain.PropagatorID, error) {
			return f(w, c[0], c[1], c[2])
		}
	}

	r.Register("add", Constructor{3, "z = x + y (one way)", one(constraints.Adder)})
	r.Register("sub", Constructor{3, "z = x - y (one way)", one(constraints.Subtractor)})
	r.Register("mul", Constructor{3, "z = x * y (one way)", one(constraints.Multiplier)})
	r.Register("div", Constructor{3, "z = x / y (one way)", one(constraints.Divider)})
	r.Register("switch", Constructor{3, "out = in while control holds", one(constraints.Switch)})
	r.Register("sum", Constructor{3, "x + y = z", all(constraints.Sum)})
	r.Register("difference", Constructor{3, "x - y = z", all(constraints.Difference)})
	r.Register("product", Constructor{3, "x * y = z", all(constraints.Product)})
	r.Register("quotient", Constructor{3, "x / y = z", all(constraints.Quotient)})
	r.Register("copy", Constructor{2, "y = x (one way)", func(w constraints.Wirer, c []domain.CellID) ([]domain.PropagatorID, error) {
		id, err := constraints.Identity(w, c[0], c[1])
		if err != nil {
			return nil, err
		}
		return []domain.PropagatorID{id}, nil
	}})
	r.Register("equal", Constructor{2, "x = y", func(w constraints.Wirer, c []domain.CellID) ([]domain.PropagatorID, error) {
		return constraints.Equal(w, c[0], c[1])
	}})
	return r
}
