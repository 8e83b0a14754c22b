package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/propnet/pkg/lattice"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("syntax error")

// ParseValue reads a literal from the command line:
//
//	3, -1.5        numbers
//	[1, 2]         closed intervals
//	{a, b}         sets
//	true, false    booleans
//	"text", text   strings
func ParseValue(s string) (lattice.Value, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("%w: empty value", ErrSyntax)
	case strings.HasPrefix(s, "["):
		return parseInterval(s)
	case strings.HasPrefix(s, "{"):
		return parseSet(s)
	case s == "true":
		return true, nil
	case s == "false":
		return false, nil
	case len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"':
		return strconv.Unquote(s)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, nil
	}
	return s, nil
}

func parseInterval(s string) (lattice.Value, error) {
	if !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: unterminated interval %q", ErrSyntax, s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: interval %q needs two bounds", ErrSyntax, s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: interval bound %q", ErrSyntax, parts[0])
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: interval bound %q", ErrSyntax, parts[1])
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: interval %q is empty", ErrSyntax, s)
	}
	return lattice.NewInterval(lo, hi), nil
}

func parseSet(s string) (lattice.Value, error) {
	if !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("%w: unterminated set %q", ErrSyntax, s)
	}
	var items []string
	for _, item := range strings.Split(s[1:len(s)-1], ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return lattice.NewSet(items...), nil
}

// ParseAssignment splits "name=value".
func ParseAssignment(s string) (string, lattice.Value, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("%w: expected name=value, got %q", ErrSyntax, s)
	}
	v, err := ParseValue(raw)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", name, err)
	}
	return name, v, nil
}

// ParseConstraint splits "kind cell cell ..." on whitespace.
func ParseConstraint(s string) (string, []string, error) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return "", nil, fmt.Errorf("%w: expected \"kind cell...\", got %q", ErrSyntax, s)
	}
	return fields[0], fields[1:], nil
}

// FormatValue renders a cell value for display.
func FormatValue(v lattice.Value) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if lattice.IsNothing(v) {
		return fmt.Sprint(lattice.Nothing)
	}
	return fmt.Sprint(v)
}
