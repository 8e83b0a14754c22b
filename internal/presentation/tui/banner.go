package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the propnet banner to w. Colors are dropped when w is
// not a terminal.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	lines := []struct{ text, color string }{
		{"  _ __  _ __ ___  _ __  _ __   ___| |_ ", "#818cf8"},
		{" | '_ \\| '__/ _ \\| '_ \\| '_ \\ / _ \\ __|", "#a78bfa"},
		{" | |_) | | | (_) | |_) | | | |  __/ |_ ", "#c084fc"},
		{" | .__/|_|  \\___/| .__/|_| |_|\\___|\\__|", "#e879f9"},
		{" |_|             |_|                   ", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w)
}
