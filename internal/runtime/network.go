package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
)

// DefaultMaxSteps bounds a single run when no explicit bound is configured.
const DefaultMaxSteps = 100_000

// Network owns the cells, the propagators and the worklist that connects them.
type Network struct {
	id       string
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	policy   domain.ContradictionPolicy
	maxSteps int
	workers  int

	mu      sync.RWMutex // guards cells, props and the running transition
	cells   []*Cell
	props   []*Propagator
	running atomic.Bool

	queue *Worklist
	state atomic.Pointer[runState]
}

// Option defines a functional option for configuring the Network.
type Option func(*Network)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Network) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Network) {
		n.hooks = hooks
	}
}

// WithPolicy selects how contradictions affect a run.
func WithPolicy(p domain.ContradictionPolicy) Option {
	return func(n *Network) {
		if p != "" {
			n.policy = p
		}
	}
}

// WithMaxSteps bounds the number of propagator firings per run.
// Zero or a negative bound disables the guard.
func WithMaxSteps(steps int) Option {
	return func(n *Network) {
		n.maxSteps = steps
	}
}

// WithWorkers sets the number of concurrent workers; values below one mean one.
func WithWorkers(workers int) Option {
	return func(n *Network) {
		n.workers = max(workers, 1)
	}
}

// WithID labels the network in logs and events.
func WithID(id string) Option {
	return func(n *Network) {
		n.id = id
	}
}

// NewNetwork creates an empty network.
func NewNetwork(opts ...Option) *Network {
	n := &Network{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy:   domain.PolicyFailFast,
		maxSteps: DefaultMaxSteps,
		workers:  1,
		queue:    NewWorklist(),
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.id != "" {
		n.logger = n.logger.With("network", n.id)
	}
	return n
}

// ID returns the label given with WithID.
func (n *Network) ID() string { return n.id }

// Policy returns the configured contradiction policy.
func (n *Network) Policy() domain.ContradictionPolicy { return n.policy }

// AddCell creates a cell and returns its handle.
func (n *Network) AddCell(spec domain.CellSpec) (domain.CellID, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.running.Load() {
		return 0, domain.ErrNetworkRunning
	}

	id := domain.CellID(len(n.cells))
	c := newCell(id, spec)
	n.cells = append(n.cells, c)
	n.logger.Debug("cell added", "cell", id, "name", spec.Name, "domain", c.dom.Name(), "immutable", spec.Immutable)
	return id, nil
}

// AddPropagator wires a propagator to its input cells and schedules it to
// fire once on the next run.
func (n *Network) AddPropagator(spec domain.PropagatorSpec) (domain.PropagatorID, error) {
	if spec.Compute == nil {
		return 0, fmt.Errorf("propagator %q: nil compute function", spec.Name)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.running.Load() {
		return 0, domain.ErrNetworkRunning
	}
	for _, cid := range slices.Concat(spec.Inputs, spec.Outputs) {
		if !n.validCellLocked(cid) {
			return 0, fmt.Errorf("propagator %q: %w: %s", spec.Name, domain.ErrUnknownCell, cid)
		}
	}

	id := domain.PropagatorID(len(n.props))
	p := &Propagator{
		id:      id,
		name:    spec.Name,
		inputs:  slices.Clone(spec.Inputs),
		outputs: slices.Clone(spec.Outputs),
		compute: spec.Compute,
	}
	n.props = append(n.props, p)
	for _, cid := range p.inputs {
		n.cells[cid].subscribe(id)
	}
	n.queue.Push(id)

	n.logger.Debug("propagator added", "propagator", id, "name", spec.Name, "inputs", p.inputs, "outputs", p.outputs)
	return id, nil
}

// Inject merges an external value into a cell and schedules its subscribers.
// A refused change to an immutable cell is reported as a
// *domain.ConstantViolationError and leaves the cell untouched.
func (n *Network) Inject(id domain.CellID, v lattice.Value) (bool, error) {
	c, err := n.cell(id)
	if err != nil {
		return false, err
	}
	res, err := n.merge(context.Background(), c, v, domain.ExternalSource)
	if err != nil {
		n.logger.Warn("injection refused", "cell", id, "name", c.name, "error", err)
		return false, err
	}
	return res.changed, nil
}

// Freeze marks a cell immutable from now on.
func (n *Network) Freeze(id domain.CellID) error {
	c, err := n.cell(id)
	if err != nil {
		return err
	}
	c.freeze()
	return nil
}

// Read returns the current value of a cell.
func (n *Network) Read(id domain.CellID) (lattice.Value, error) {
	c, err := n.cell(id)
	if err != nil {
		return nil, err
	}
	return c.Read(), nil
}

// Cell returns a snapshot of a cell.
func (n *Network) Cell(id domain.CellID) (domain.CellInfo, error) {
	c, err := n.cell(id)
	if err != nil {
		return domain.CellInfo{}, err
	}
	return c.info(), nil
}

// Cells returns a snapshot of every cell in creation order.
func (n *Network) Cells() []domain.CellInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]domain.CellInfo, len(n.cells))
	for i, c := range n.cells {
		out[i] = c.info()
	}
	return out
}

// Propagators returns the wiring of every propagator in creation order.
func (n *Network) Propagators() []domain.PropagatorInfo {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]domain.PropagatorInfo, len(n.props))
	for i, p := range n.props {
		out[i] = p.info()
	}
	return out
}

// Pending returns the number of propagators waiting to fire.
func (n *Network) Pending() int {
	return n.queue.Len()
}

// Contradictions lists the cells currently holding Contradiction.
func (n *Network) Contradictions() []domain.CellID {
	n.mu.RLock()
	defer n.mu.RUnlock()
	var out []domain.CellID
	for _, c := range n.cells {
		if lattice.IsContradiction(c.Read()) {
			out = append(out, c.id)
		}
	}
	return out
}

func (n *Network) validCellLocked(id domain.CellID) bool {
	return id >= 0 && int(id) < len(n.cells)
}

func (n *Network) cell(id domain.CellID) (*Cell, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if !n.validCellLocked(id) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCell, id)
	}
	return n.cells[id], nil
}

func (n *Network) propagator(id domain.PropagatorID) (*Propagator, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if id < 0 || int(id) >= len(n.props) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPropagator, id)
	}
	return n.props[id], nil
}
