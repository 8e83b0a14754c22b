package runtime

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/lattice"
	"golang.org/x/sync/errgroup"
)

// runState accumulates what happens during one run.
type runState struct {
	mu         sync.Mutex
	first      domain.CellID
	halted     bool
	failures   []domain.PropagatorFailure
	violations []domain.ConstantViolationError
}

func (rs *runState) noteContradiction(id domain.CellID) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.halted {
		return false
	}
	rs.halted = true
	rs.first = id
	return true
}

func (rs *runState) addFailure(f domain.PropagatorFailure) {
	rs.mu.Lock()
	rs.failures = append(rs.failures, f)
	rs.mu.Unlock()
}

func (rs *runState) addViolation(v domain.ConstantViolationError) {
	rs.mu.Lock()
	rs.violations = append(rs.violations, v)
	rs.mu.Unlock()
}

// Run fires queued propagators until the worklist drains, a contradiction
// halts the run (fail-fast policy), the step bound is exceeded, or ctx is
// canceled. Firings already in progress when the run stops are allowed to
// finish; their merges stay applied.
//
// On cancellation the partial result is returned together with ctx.Err().
func (n *Network) Run(ctx context.Context) (*domain.RunResult, error) {
	n.mu.Lock()
	if n.running.Load() {
		n.mu.Unlock()
		return nil, domain.ErrNetworkRunning
	}
	n.running.Store(true)
	rs := &runState{}
	n.state.Store(rs)
	n.mu.Unlock()

	defer func() {
		n.mu.Lock()
		n.state.Store(nil)
		n.running.Store(false)
		n.mu.Unlock()
	}()

	start := time.Now()
	n.queue.Reset(n.maxSteps)

	if n.policy == domain.PolicyFailFast {
		if existing := n.Contradictions(); len(existing) > 0 {
			rs.noteContradiction(existing[0])
			n.queue.Halt()
		}
	}

	n.logger.Debug("run started", "pending", n.queue.Len(), "workers", n.workers, "policy", n.policy)

	g, gctx := errgroup.WithContext(ctx)
	for range n.workers {
		g.Go(func() error {
			return n.work(gctx)
		})
	}
	err := g.Wait()

	result := n.result(rs)
	duration := time.Since(start)
	n.logger.Info("run complete",
		"status", result.Status,
		"steps", result.Steps,
		"pending", result.Pending,
		"contradictions", len(result.Contradictions),
		"failures", len(result.Failures),
		"duration", duration,
	)
	if n.hooks.OnRunComplete != nil {
		n.hooks.OnRunComplete(ctx, &domain.RunEvent{
			EventBase: n.event(domain.EventRunComplete),
			Result:    result,
			Duration:  duration,
		})
	}

	return result, err
}

func (n *Network) work(ctx context.Context) error {
	for {
		pid, ok := n.queue.Next(ctx)
		if !ok {
			if n.queue.reason() == haltCanceled {
				return ctx.Err()
			}
			return nil
		}
		func() {
			defer n.queue.Done()
			n.fire(ctx, pid)
		}()
	}
}

// fire runs one propagator against a snapshot of its inputs and merges the
// results into its outputs.
func (n *Network) fire(ctx context.Context, pid domain.PropagatorID) {
	p, err := n.propagator(pid)
	if err != nil {
		n.logger.Error("dequeued unknown propagator", "propagator", pid, "error", err)
		return
	}

	inputs := make([]lattice.Value, len(p.inputs))
	for i, cid := range p.inputs {
		c, err := n.cell(cid)
		if err != nil {
			n.logger.Error("propagator input missing", "propagator", pid, "cell", cid, "error", err)
			return
		}
		inputs[i] = c.Read()
	}

	out, err := p.invoke(inputs)
	if err != nil {
		failure := domain.PropagatorFailure{
			Propagator: p.id,
			Name:       p.name,
			Inputs:     slices.Clone(p.inputs),
			Outputs:    slices.Clone(p.outputs),
			Values:     inputs,
			Cause:      err,
		}
		if rs := n.state.Load(); rs != nil {
			rs.addFailure(failure)
		}
		n.logger.Warn("propagator failed", "propagator", pid, "name", p.name, "inputs", p.inputs, "error", err)
		if n.hooks.OnPropagatorFailure != nil {
			n.hooks.OnPropagatorFailure(ctx, &domain.PropagatorEvent{
				EventBase:      n.event(domain.EventPropagatorFailure),
				PropagatorID:   p.id,
				PropagatorName: p.name,
				Failure:        &failure,
			})
		}
		return
	}

	changed := 0
	for i, cid := range p.outputs {
		if lattice.IsNothing(out[i]) {
			continue
		}
		c, err := n.cell(cid)
		if err != nil {
			continue
		}
		res, err := n.merge(ctx, c, out[i], p.id)
		if err != nil {
			var cv *domain.ConstantViolationError
			if errors.As(err, &cv) {
				if rs := n.state.Load(); rs != nil {
					rs.addViolation(*cv)
				}
				n.logger.Warn("constant violation", "propagator", pid, "name", p.name, "cell", cid, "error", err)
			}
			continue
		}
		if res.changed {
			changed++
		}
	}

	n.logger.Debug("propagator fired", "propagator", pid, "name", p.name, "changed", changed)
	if n.hooks.OnPropagatorRun != nil {
		n.hooks.OnPropagatorRun(ctx, &domain.PropagatorEvent{
			EventBase:      n.event(domain.EventPropagatorRun),
			PropagatorID:   p.id,
			PropagatorName: p.name,
			Changed:        changed,
		})
	}
}

// merge folds v into c, scheduling subscribers and reporting the change.
func (n *Network) merge(ctx context.Context, c *Cell, v lattice.Value, source domain.PropagatorID) (mergeResult, error) {
	res, err := c.mergeIn(v, source, func(subs []domain.PropagatorID) {
		n.queue.Push(subs...)
	})
	if err != nil || !res.changed {
		return res, err
	}

	n.logger.Debug("cell changed", "cell", c.id, "name", c.name, "old", res.old, "new", res.new, "source", source)
	ev := &domain.CellEvent{
		EventBase: n.event(domain.EventCellChange),
		CellID:    c.id,
		CellName:  c.name,
		Old:       res.old,
		New:       res.new,
		Source:    source,
	}
	if n.hooks.OnCellChange != nil {
		n.hooks.OnCellChange(ctx, ev)
	}

	if lattice.IsContradiction(res.new) {
		n.logger.Warn("contradiction", "cell", c.id, "name", c.name, "old", res.old, "increment", v, "source", source)
		if n.hooks.OnContradiction != nil {
			contra := *ev
			contra.Type = domain.EventContradiction
			n.hooks.OnContradiction(ctx, &contra)
		}
		if rs := n.state.Load(); rs != nil && n.policy == domain.PolicyFailFast {
			if rs.noteContradiction(c.id) {
				n.queue.Halt()
			}
		}
	}
	return res, nil
}

func (n *Network) result(rs *runState) *domain.RunResult {
	out := &domain.RunResult{
		Status:         domain.StatusQuiescent,
		Contradictions: n.Contradictions(),
		Steps:          n.queue.Steps(),
		Pending:        n.queue.Len(),
	}

	rs.mu.Lock()
	out.Failures = slices.Clone(rs.failures)
	out.Violations = slices.Clone(rs.violations)
	first, halted := rs.first, rs.halted
	rs.mu.Unlock()

	switch n.queue.reason() {
	case haltContradiction:
		out.Status = domain.StatusHaltedContradiction
		if halted {
			out.Cell = first
		}
	case haltStepLimit:
		out.Status = domain.StatusNonTermination
	case haltCanceled:
		out.Status = domain.StatusCanceled
	}
	return out
}

func (n *Network) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		NetworkID: n.id,
	}
}
