package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/propnet"
	"github.com/aretw0/propnet/pkg/config"
	"github.com/aretw0/propnet/pkg/domain"
	"github.com/aretw0/propnet/pkg/dsl"
	"github.com/aretw0/propnet/pkg/lattice"
	"github.com/aretw0/propnet/pkg/registry"
)

// Problem describes a network in the textual form shared by the command
// line, the HTTP API and the MCP tool.
type Problem struct {
	// ID names the network; a random one is assigned when empty.
	ID string `json:"id,omitempty"`
	// Constraints are "kind cell..." strings, e.g. "sum a b c".
	Constraints []string `json:"constraints"`
	// Values are "name=value" injections.
	Values []string `json:"values,omitempty"`
	// Constants are "name=value" immutable cells.
	Constants []string `json:"constants,omitempty"`
}

// CellValue is one row of a solution.
type CellValue struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Constant bool   `json:"constant,omitempty"`
}

// Solution is the outcome of solving a Problem.
type Solution struct {
	NetworkID      string           `json:"network_id"`
	Status         domain.RunStatus `json:"status"`
	Steps          int              `json:"steps"`
	Pending        int              `json:"pending"`
	Cells          []CellValue      `json:"cells"`
	Contradictions []string         `json:"contradictions,omitempty"`
	Failures       []string         `json:"failures,omitempty"`
	Violations     []string         `json:"violations,omitempty"`

	result *domain.RunResult
}

// Err reports a contradiction or non-termination as an error.
func (s *Solution) Err() error {
	if s.result == nil {
		return nil
	}
	return s.result.Err()
}

// Solver builds and runs networks from textual problems.
type Solver struct {
	Config   config.Config
	Logger   *slog.Logger
	Hooks    domain.LifecycleHooks
	Registry *registry.Registry
}

// NewSolver creates a solver with the default registry.
func NewSolver(cfg config.Config, logger *slog.Logger) *Solver {
	return &Solver{Config: cfg, Logger: logger, Registry: registry.Default()}
}

// Build parses p into a network ready to run.
func (s *Solver) Build(p Problem) (*dsl.Network, error) {
	b := dsl.New()
	if s.Registry != nil {
		b.WithRegistry(s.Registry)
	}

	for _, raw := range p.Constants {
		name, v, err := ParseAssignment(raw)
		if err != nil {
			return nil, fmt.Errorf("constant: %w", err)
		}
		b.Constant(name, v).Domain(domainFor(v))
	}
	for _, raw := range p.Constraints {
		kind, cells, err := ParseConstraint(raw)
		if err != nil {
			return nil, fmt.Errorf("constraint: %w", err)
		}
		b.Constraint(kind, cells...)
	}
	for _, raw := range p.Values {
		name, v, err := ParseAssignment(raw)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		cb := b.Cell(name).Value(v)
		if _, isNum := lattice.ToFloat(v); !isNum {
			if _, ok := v.(lattice.Interval); !ok {
				cb.Domain(domainFor(v))
			}
		}
	}

	opts := []propnet.Option{
		propnet.WithConfig(s.Config),
		propnet.WithLogger(s.Logger),
		propnet.WithLifecycleHooks(s.Hooks),
	}
	if p.ID != "" {
		opts = append(opts, propnet.WithID(p.ID))
	}
	return b.Build(opts...)
}

// Solve builds p, runs it and collects every cell.
// Contradictions and non-termination are part of the Solution, not errors;
// errors are reserved for malformed problems and cancellation.
func (s *Solver) Solve(ctx context.Context, p Problem) (*Solution, error) {
	net, err := s.Build(p)
	if err != nil {
		return nil, err
	}

	res, err := net.Run(ctx)
	if err != nil {
		return nil, err
	}

	return Snapshot(net, res), nil
}

// Snapshot describes net as left by the run that produced res.
func Snapshot(net *dsl.Network, res *domain.RunResult) *Solution {
	sol := &Solution{
		NetworkID: net.ID,
		Status:    res.Status,
		Steps:     res.Steps,
		Pending:   res.Pending,
		result:    res,
	}
	names := make(map[domain.CellID]string)
	for _, info := range net.Cells() {
		names[info.ID] = info.Name
		sol.Cells = append(sol.Cells, CellValue{
			Name:     info.Name,
			Value:    FormatValue(info.Value),
			Domain:   info.Domain,
			Constant: info.Immutable,
		})
	}
	for _, id := range res.Contradictions {
		sol.Contradictions = append(sol.Contradictions, names[id])
	}
	for _, f := range res.Failures {
		sol.Failures = append(sol.Failures, fmt.Sprintf("%s: %v", f.Name, f.Cause))
	}
	for _, v := range res.Violations {
		sol.Violations = append(sol.Violations, v.Error())
	}
	return sol
}

// Constraint describes a registered constraint kind.
type Constraint struct {
	Name        string `json:"name"`
	Arity       int    `json:"arity"`
	Description string `json:"description"`
}

// Constraints lists the kinds known to the solver's registry.
func (s *Solver) Constraints() []Constraint {
	reg := s.Registry
	if reg == nil {
		reg = registry.Default()
	}
	var out []Constraint
	for _, name := range reg.Names() {
		c, _ := reg.Lookup(name)
		out = append(out, Constraint{Name: name, Arity: c.Arity, Description: c.Description})
	}
	return out
}

// IsUsageError reports whether err came from a malformed problem or
// assignment rather than from the engine.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrSyntax) ||
		errors.Is(err, ErrInputTooLarge) ||
		errors.Is(err, ErrInvalidUTF8) ||
		errors.Is(err, registry.ErrUnknownConstraint) ||
		errors.Is(err, dsl.ErrUnknownName) ||
		errors.Is(err, domain.ErrArity) ||
		errors.Is(err, domain.ErrConstantViolation)
}

func domainFor(v lattice.Value) lattice.Domain {
	switch v.(type) {
	case lattice.Interval:
		return lattice.Numeric{}
	case lattice.Set:
		return lattice.SetIntersection{}
	}
	if _, ok := lattice.ToFloat(v); ok {
		return lattice.Numeric{}
	}
	return lattice.Equality{}
}
