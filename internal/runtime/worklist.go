package runtime

import (
	"context"
	"sync"

	"github.com/aretw0/propnet/pkg/domain"
)

// haltReason records why a worklist stopped handing out work.
type haltReason int

const (
	notHalted haltReason = iota
	haltContradiction
	haltStepLimit
	haltCanceled
)

// Worklist is the deduplicated FIFO of propagators waiting to fire.
//
// It also tracks how many firings are in flight: the network is quiescent only
// when the queue is empty and nothing is in flight, and both are checked under
// the same lock so a worker about to enqueue cannot be missed.
type Worklist struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []domain.PropagatorID
	pending  map[domain.PropagatorID]struct{}
	inFlight int
	steps    int
	limit    int
	halted   haltReason
}

// NewWorklist creates an empty worklist.
func NewWorklist() *Worklist {
	w := &Worklist{pending: make(map[domain.PropagatorID]struct{})}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// Push enqueues ids that are not already pending and returns how many were added.
func (w *Worklist) Push(ids ...domain.PropagatorID) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	added := 0
	for _, id := range ids {
		if _, ok := w.pending[id]; ok {
			continue
		}
		w.pending[id] = struct{}{}
		w.queue = append(w.queue, id)
		added++
	}
	if added > 0 {
		w.cond.Broadcast()
	}
	return added
}

// Next blocks until a propagator is available and claims it. It returns false
// once the worklist is quiescent or halted. Every successful Next must be
// paired with a Done.
func (w *Worklist) Next(ctx context.Context) (domain.PropagatorID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for {
		if w.halted != notHalted {
			return 0, false
		}
		if ctx.Err() != nil {
			w.haltLocked(haltCanceled)
			return 0, false
		}
		if len(w.queue) > 0 {
			if w.limit > 0 && w.steps >= w.limit {
				w.haltLocked(haltStepLimit)
				return 0, false
			}
			id := w.queue[0]
			w.queue[0] = 0
			w.queue = w.queue[1:]
			delete(w.pending, id)
			w.inFlight++
			w.steps++
			return id, true
		}
		if w.inFlight == 0 {
			w.cond.Broadcast()
			return 0, false
		}
		w.cond.Wait()
	}
}

// Done marks a claimed propagator as finished.
func (w *Worklist) Done() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inFlight--
	if w.inFlight == 0 || len(w.queue) > 0 {
		w.cond.Broadcast()
	}
}

// Halt stops further dequeues. In-flight firings are left to finish.
func (w *Worklist) Halt() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.haltLocked(haltContradiction)
}

func (w *Worklist) haltLocked(r haltReason) {
	if w.halted == notHalted {
		w.halted = r
	}
	w.cond.Broadcast()
}

// Reset prepares the worklist for a new run with the given step bound
// (0 means unbounded). Queued propagators are kept.
func (w *Worklist) Reset(limit int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.steps = 0
	w.limit = limit
	w.halted = notHalted
}

// Len returns the number of queued propagators.
func (w *Worklist) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Steps returns the number of propagators claimed since the last Reset.
func (w *Worklist) Steps() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps
}

func (w *Worklist) reason() haltReason {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.halted
}
