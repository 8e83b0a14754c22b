package domain

import (
	"context"
	"time"

	"github.com/aretw0/propnet/pkg/lattice"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCellChange        EventType = "cell_change"
	EventPropagatorRun     EventType = "propagator_run"
	EventPropagatorFailure EventType = "propagator_failure"
	EventContradiction     EventType = "contradiction"
	EventRunComplete       EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	NetworkID string    `json:"network_id"`
}

// CellEvent reports a cell whose value moved up the lattice.
type CellEvent struct {
	EventBase
	CellID   CellID        `json:"cell_id"`
	CellName string        `json:"cell_name"`
	Old      lattice.Value `json:"old"`
	New      lattice.Value `json:"new"`
	// Source is the propagator that caused the change, or ExternalSource.
	Source PropagatorID `json:"source"`
}

// PropagatorEvent reports one firing of a propagator.
type PropagatorEvent struct {
	EventBase
	PropagatorID   PropagatorID       `json:"propagator_id"`
	PropagatorName string             `json:"propagator_name"`
	Changed        int                `json:"changed"`
	Failure        *PropagatorFailure `json:"failure,omitempty"`
}

// RunEvent reports the end of a run.
type RunEvent struct {
	EventBase
	Result   *RunResult    `json:"result"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks may be invoked concurrently from several workers.
type LifecycleHooks struct {
	OnCellChange        func(context.Context, *CellEvent)
	OnContradiction     func(context.Context, *CellEvent)
	OnPropagatorRun     func(context.Context, *PropagatorEvent)
	OnPropagatorFailure func(context.Context, *PropagatorEvent)
	OnRunComplete       func(context.Context, *RunEvent)
}
