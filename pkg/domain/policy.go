package domain

import "fmt"

// ContradictionPolicy decides what a run does when a cell becomes contradictory.
type ContradictionPolicy string

const (
	// PolicyFailFast halts the run at the first contradiction.
	PolicyFailFast ContradictionPolicy = "fail-fast"
	// PolicyCollect keeps propagating and reports every contradictory cell at the end.
	PolicyCollect ContradictionPolicy = "collect"
)

// ParsePolicy maps a configuration string to a policy. Empty means fail-fast.
func ParsePolicy(s string) (ContradictionPolicy, error) {
	switch ContradictionPolicy(s) {
	case "", PolicyFailFast:
		return PolicyFailFast, nil
	case PolicyCollect:
		return PolicyCollect, nil
	}
	return "", fmt.Errorf("unknown contradiction policy %q", s)
}
