package propnet

import (
	"context"
	"log/slog"

	"github.com/aretw0/propnet/internal/runtime"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/google/uuid"
)

// Network is the high-level entry point for the library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Network struct {
	runtime *runtime.Network
	ID      string
}

type settings struct {
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
	workers  int
	maxSteps int
	policy   domain.ContradictionPolicy
	id       string
}

// Option defines a functional option for configuring the Network.
type Option func(*settings)

// WithLogger sets a custom structured logger for the network.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithWorkers sets how many propagators may fire concurrently (default: 1).
func WithWorkers(workers int) Option {
	return func(s *settings) {
		s.workers = workers
	}
}

// WithMaxSteps bounds the number of propagator firings per run.
// Zero disables the bound.
func WithMaxSteps(steps int) Option {
	return func(s *settings) {
		s.maxSteps = steps
	}
}

// WithPolicy selects fail-fast (default) or collect contradiction handling.
func WithPolicy(p domain.ContradictionPolicy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithID overrides the generated network id used in logs and events.
func WithID(id string) Option {
	return func(s *settings) {
		s.id = id
	}
}

// WithConfig applies the scheduler settings of a loaded configuration.
// Options given after it take precedence.
func WithConfig(cfg config.Config) Option {
	return func(s *settings) {
		s.workers = cfg.Workers
		s.maxSteps = cfg.MaxSteps
		s.policy = cfg.Policy
	}
}

// New creates an empty network.
func New(opts ...Option) *Network {
	s := &settings{
		workers:  1,
		maxSteps: runtime.DefaultMaxSteps,
		policy:   domain.PolicyFailFast,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}

	rt := runtime.NewNetwork(
		runtime.WithID(s.id),
		runtime.WithLogger(s.logger),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithWorkers(s.workers),
		runtime.WithMaxSteps(s.maxSteps),
		runtime.WithPolicy(s.policy),
	)
	return &Network{runtime: rt, ID: s.id}
}

// AddCell creates a cell. A nil domain means equality.
func (n *Network) AddCell(spec domain.CellSpec) (domain.CellID, error) {
	return n.runtime.AddCell(spec)
}

// AddPropagator wires a propagator and schedules it to fire on the next run.
func (n *Network) AddPropagator(spec domain.PropagatorSpec) (domain.PropagatorID, error) {
	return n.runtime.AddPropagator(spec)
}

// Inject merges an external value into a cell. It reports whether the cell
// changed; a contradiction is recorded in the cell, not returned as an error.
func (n *Network) Inject(id domain.CellID, v lattice.Value) (bool, error) {
	return n.runtime.Inject(id, v)
}

// Freeze makes a cell immutable.
func (n *Network) Freeze(id domain.CellID) error {
	return n.runtime.Freeze(id)
}

// Read returns the current value of a cell.
func (n *Network) Read(id domain.CellID) (lattice.Value, error) {
	return n.runtime.Read(id)
}

// Run propagates until quiescence, a fail-fast contradiction, the step bound
// or cancellation. The result describes which one happened.
func (n *Network) Run(ctx context.Context) (*domain.RunResult, error) {
	return n.runtime.Run(ctx)
}

// Cell returns a snapshot of a cell.
func (n *Network) Cell(id domain.CellID) (domain.CellInfo, error) {
	return n.runtime.Cell(id)
}

// Cells returns a snapshot of every cell.
func (n *Network) Cells() []domain.CellInfo {
	return n.runtime.Cells()
}

// Propagators returns the wiring of every propagator.
func (n *Network) Propagators() []domain.PropagatorInfo {
	return n.runtime.Propagators()
}

// Contradictions lists the cells currently holding Contradiction.
func (n *Network) Contradictions() []domain.CellID {
	return n.runtime.Contradictions()
}

// Pending returns the number of propagators waiting to fire.
func (n *Network) Pending() int {
	return n.runtime.Pending()
}
