package domain

import "fmt"

// RunStatus is the terminal state of a run.
type RunStatus string

const (
	StatusQuiescent           RunStatus = "quiescent"            // Worklist drained: fixpoint reached
	StatusHaltedContradiction RunStatus = "halted_contradiction" // Fail-fast policy stopped on a contradiction
	StatusNonTermination      RunStatus = "non_termination"      // Step bound exceeded
	StatusCanceled            RunStatus = "canceled"             // Context canceled before quiescence
)

// ExternalSource marks a merge that came from Inject rather than a propagator.
const ExternalSource PropagatorID = -1

// RunResult is the structured outcome of Network.Run.
type RunResult struct {
	Status RunStatus

	// Cell is the first cell that became contradictory (HaltedContradiction only).
	Cell CellID

	// Contradictions lists every cell holding Contradiction when the run ended.
	Contradictions []CellID

	// Failures lists propagator firings that failed during this run.
	Failures []PropagatorFailure

	// Violations lists constant violations caused by propagators during this run.
	Violations []ConstantViolationError

	// Steps is the number of propagator firings performed.
	Steps int

	// Pending is the number of propagators still queued when the run ended.
	Pending int
}

// Quiescent reports whether the run reached a fixpoint.
func (r *RunResult) Quiescent() bool {
	return r.Status == StatusQuiescent
}

// Err maps a non-quiescent outcome onto the matching sentinel error.
// Contradictions collected under PolicyCollect are reported as well.
func (r *RunResult) Err() error {
	switch r.Status {
	case StatusHaltedContradiction:
		return fmt.Errorf("%w in %s", ErrContradiction, r.Cell)
	case StatusNonTermination:
		return fmt.Errorf("%w: %d propagators pending after %d steps", ErrNonTermination, r.Pending, r.Steps)
	}
	if len(r.Contradictions) > 0 {
		return fmt.Errorf("%w in %v", ErrContradiction, r.Contradictions)
	}
	return nil
}
