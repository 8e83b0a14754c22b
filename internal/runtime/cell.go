package runtime

import (
	"slices"
	"sync"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
)

// Cell is a container of partial information.
type Cell struct {
	mu          sync.Mutex
	id          domain.CellID
	name        string
	dom         lattice.Domain
	value       lattice.Value
	immutable   bool
	subscribers []domain.PropagatorID
}

func newCell(id domain.CellID, spec domain.CellSpec) *Cell {
	dom := spec.Domain
	if dom == nil {
		dom = lattice.Equality{}
	}
	return &Cell{
		id:        id,
		name:      spec.Name,
		dom:       dom,
		value:     lattice.Nothing,
		immutable: spec.Immutable,
	}
}

// Read returns the current value.
func (c *Cell) Read() lattice.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// subscribe registers a propagator; repeated subscriptions collapse.
func (c *Cell) subscribe(pid domain.PropagatorID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !slices.Contains(c.subscribers, pid) {
		c.subscribers = append(c.subscribers, pid)
	}
}

func (c *Cell) freeze() {
	c.mu.Lock()
	c.immutable = true
	c.mu.Unlock()
}

// mergeResult describes the outcome of a single merge-in.
type mergeResult struct {
	changed bool
	old     lattice.Value
	new     lattice.Value
}

// mergeIn folds v into the cell. When the value changes, notify is called with
// the subscribers while the cell lock is still held, so the change and the
// enqueue are observed together.
func (c *Cell) mergeIn(v lattice.Value, source domain.PropagatorID, notify func([]domain.PropagatorID)) (mergeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.value
	merged := lattice.Merge(c.dom, old, v)
	if lattice.Equal(c.dom, old, merged) {
		return mergeResult{old: old, new: old}, nil
	}

	if c.immutable && !lattice.IsNothing(old) {
		return mergeResult{old: old, new: old}, &domain.ConstantViolationError{
			Cell:      c.id,
			Name:      c.name,
			Current:   old,
			Attempted: v,
			Source:    source,
		}
	}

	c.value = merged
	if notify != nil && len(c.subscribers) > 0 {
		notify(c.subscribers)
	}
	return mergeResult{changed: true, old: old, new: merged}, nil
}

func (c *Cell) info() domain.CellInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.CellInfo{
		ID:          c.id,
		Name:        c.name,
		Domain:      c.dom.Name(),
		Value:       c.value,
		Immutable:   c.immutable,
		Subscribers: slices.Clone(c.subscribers),
	}
}
