package tui

import (
	"io"

	"github.com/aretw0/propnet/pkg/domain"
	"github.com/muesli/termenv"
)

var statusColors = map[domain.RunStatus]string{
	domain.StatusQuiescent:           "#22c55e",
	domain.StatusHaltedContradiction: "#ef4444",
	domain.StatusNonTermination:      "#f59e0b",
	domain.StatusCanceled:            "#a1a1aa",
}

// Status renders a run status for w, colored when w is a terminal.
func Status(w io.Writer, status domain.RunStatus) string {
	out := termenv.NewOutput(w)
	s := out.String(string(status)).Bold()
	if c, ok := statusColors[status]; ok {
		s = s.Foreground(out.Color(c))
	}
	return s.String()
}

// Highlight marks a contradictory value.
func Highlight(w io.Writer, text string) string {
	out := termenv.NewOutput(w)
	return out.String(text).Foreground(out.Color("#ef4444")).String()
}
