package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/propnet/internal/cli"
	"github.com/aretw0/propnet/internal/logging"
	"github.com/aretw0/propnet/pkg/dsl"
	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned for an id with no live network.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExists is returned when creating a network under a taken id.
	ErrSessionExists = errors.New("session already exists")
)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// liveNetwork is a built network together with its latest solution.
type liveNetwork struct {
	net  *dsl.Network
	last *cli.Solution
}

// Manager keeps networks alive between requests so that clients can keep
// asserting information into them. Operations on the same network are
// serialized; different networks proceed in parallel.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	solver *cli.Solver

	mu    sync.Mutex            // Global lock for the locks map
	locks map[string]*lockEntry // Map of active locks

	netMu    sync.RWMutex
	networks map[string]*liveNetwork

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager that builds networks with solver.
func NewManager(solver *cli.Solver, opts ...Option) *Manager {
	m := &Manager{
		solver:   solver,
		locks:    make(map[string]*lockEntry),
		networks: make(map[string]*liveNetwork),
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// WithLock executes a function while holding the lock for the network id.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Create builds p, runs it to completion and keeps the network for later
// assertions. An empty id is replaced with a random one.
func (m *Manager) Create(ctx context.Context, p cli.Problem) (*cli.Solution, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	var sol *cli.Solution
	err := m.WithLock(ctx, p.ID, func(ctx context.Context) error {
		if m.lookup(p.ID) != nil {
			return fmt.Errorf("%w: %s", ErrSessionExists, p.ID)
		}

		net, err := m.solver.Build(p)
		if err != nil {
			return err
		}
		res, err := net.Run(ctx)
		if err != nil {
			return err
		}
		sol = cli.Snapshot(net, res)

		m.netMu.Lock()
		m.networks[p.ID] = &liveNetwork{net: net, last: sol}
		m.netMu.Unlock()

		m.logger.Info("network created", "network_id", p.ID, "status", sol.Status, "cells", len(sol.Cells))
		return nil
	})
	return sol, err
}

// Assert injects "name=value" assignments into a live network and runs it
// again. Assignments are applied in order; the first invalid one aborts
// the call and leaves earlier injections in place for the next run.
func (m *Manager) Assert(ctx context.Context, id string, values []string) (*cli.Solution, error) {
	var sol *cli.Solution
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		live := m.lookup(id)
		if live == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}

		for _, raw := range values {
			name, v, err := cli.ParseAssignment(raw)
			if err != nil {
				return err
			}
			if _, err := live.net.Set(name, v); err != nil {
				return fmt.Errorf("assert %s: %w", name, err)
			}
		}

		res, err := live.net.Run(ctx)
		if err != nil {
			return err
		}
		sol = cli.Snapshot(live.net, res)
		live.last = sol

		m.logger.Debug("network updated", "network_id", id, "asserted", len(values), "status", sol.Status)
		return nil
	})
	return sol, err
}

// Get returns the solution of the last run of a live network.
func (m *Manager) Get(ctx context.Context, id string) (*cli.Solution, error) {
	var sol *cli.Solution
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		live := m.lookup(id)
		if live == nil {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		sol = live.last
		return nil
	})
	return sol, err
}

// Delete drops a live network.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		m.netMu.Lock()
		defer m.netMu.Unlock()
		if _, ok := m.networks[id]; !ok {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		delete(m.networks, id)
		m.logger.Info("network deleted", "network_id", id)
		return nil
	})
}

// List returns the ids of the live networks, sorted.
func (m *Manager) List() []string {
	m.netMu.RLock()
	defer m.netMu.RUnlock()
	ids := make([]string, 0, len(m.networks))
	for id := range m.networks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (m *Manager) lookup(id string) *liveNetwork {
	m.netMu.RLock()
	defer m.netMu.RUnlock()
	return m.networks[id]
}
