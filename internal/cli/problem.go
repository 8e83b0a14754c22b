package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"
)

// LoadProblem reads a problem file. YAML is used for every extension since
// it also accepts JSON:
//
//	constants: ["k9=9"]
//	constraints:
//	  - product c k9 c9
//	values: ["c9=900"]
func LoadProblem(path string) (Problem, error) {
	var p Problem
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("problem file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w: problem file %s: %v", ErrSyntax, path, err)
	}
	return p, nil
}

// Merge appends the declarations of other to p.
func (p Problem) Merge(other Problem) Problem {
	if p.ID == "" {
		p.ID = other.ID
	}
	p.Constraints = append(p.Constraints, other.Constraints...)
	p.Values = append(p.Values, other.Values...)
	p.Constants = append(p.Constants, other.Constants...)
	return p
}

// WriteMetrics writes every gathered family in the Prometheus text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
