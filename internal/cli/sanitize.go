package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize bounds a single declaration (4KB).
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "PROPNET_MAX_INPUT_SIZE"
	// MaxDeclarations bounds constraints + values + constants of one problem.
	MaxDeclarations = 10_000
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput cleans one declaration received from a remote client by
// enforcing the size limit, validating UTF-8 and stripping control
// characters that would poison logs or terminals.
func SanitizeInput(input string) (string, error) {
	limit := maxInputSize()
	if len(input) > limit {
		// Rejected rather than truncated: a cut declaration means something else.
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	// Fast path: if no control chars, return as is.
	if strings.IndexFunc(input, unicode.IsControl) < 0 {
		return input, nil
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		} else if r == '\t' || r == '\n' || r == '\r' {
			b.WriteByte(' ')
		}
	}
	return b.String(), nil
}

// Sanitize applies SanitizeInput to every declaration of p.
func (p Problem) Sanitize() (Problem, error) {
	if n := len(p.Constraints) + len(p.Values) + len(p.Constants); n > MaxDeclarations {
		return p, fmt.Errorf("%w: %d declarations, limit %d", ErrInputTooLarge, n, MaxDeclarations)
	}

	id, err := SanitizeInput(p.ID)
	if err != nil {
		return p, fmt.Errorf("id: %w", err)
	}
	out := Problem{ID: id}
	if out.Constraints, err = sanitizeAll(p.Constraints); err != nil {
		return p, fmt.Errorf("constraints: %w", err)
	}
	if out.Values, err = sanitizeAll(p.Values); err != nil {
		return p, fmt.Errorf("values: %w", err)
	}
	if out.Constants, err = sanitizeAll(p.Constants); err != nil {
		return p, fmt.Errorf("constants: %w", err)
	}
	return out, nil
}

func sanitizeAll(in []string) ([]string, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		clean, err := SanitizeInput(s)
		if err != nil {
			return nil, err
		}
		out[i] = clean
	}
	return out, nil
}

func maxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
