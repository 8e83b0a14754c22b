package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/propnet/internal/presentation/tui"
	"golang.org/x/term"
)

// Format selects how a Solution is written.
type Format string

const (
	FormatAuto     Format = "auto"     // markdown on a terminal, text otherwise
	FormatText     Format = "text"     // aligned table
	FormatMarkdown Format = "markdown" // glamour-rendered table
	FormatJSON     Format = "json"     // machine readable
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", ErrSyntax, s)
}

// Write renders sol to w in the requested format.
func Write(w io.Writer, format Format, sol *Solution) error {
	if format == FormatAuto {
		format = FormatText
		if isTerminal(w) {
			format = FormatMarkdown
		}
	}

	switch format {
	case FormatJSON:
		return WriteJSON(w, sol)
	case FormatMarkdown:
		return RenderMarkdown(w, sol)
	default:
		return WriteText(w, sol)
	}
}

// WriteText writes a tab-aligned table followed by the run summary.
func WriteText(w io.Writer, sol *Solution) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CELL\tVALUE\tDOMAIN\t")
	for _, c := range sol.Cells {
		value := c.Value
		if c.Value == "Contradiction" {
			value = tui.Highlight(w, value)
		}
		name := c.Name
		if c.Constant {
			name += " (const)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", name, value, c.Domain)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nstatus: %s  steps: %d  pending: %d\n", tui.Status(w, sol.Status), sol.Steps, sol.Pending)
	writeList(w, "contradictions", sol.Contradictions)
	writeList(w, "failures", sol.Failures)
	writeList(w, "violations", sol.Violations)
	return nil
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

// Markdown renders sol as a markdown document.
func Markdown(sol *Solution) string {
	var sb strings.Builder
	sb.WriteString("# Solution\n\n")
	fmt.Fprintf(&sb, "**Status:** `%s` after %d steps", sol.Status, sol.Steps)
	if sol.Pending > 0 {
		fmt.Fprintf(&sb, " (%d pending)", sol.Pending)
	}
	sb.WriteString("\n\n| Cell | Value | Domain |\n|---|---|---|\n")
	for _, c := range sol.Cells {
		name := c.Name
		if c.Constant {
			name = "*" + name + "*"
		}
		fmt.Fprintf(&sb, "| %s | `%s` | %s |\n", name, c.Value, c.Domain)
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", title)
		for _, item := range items {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}
	section("Contradictions", sol.Contradictions)
	section("Failures", sol.Failures)
	section("Violations", sol.Violations)
	return sb.String()
}

// RenderMarkdown writes the glamour rendering of Markdown(sol).
func RenderMarkdown(w io.Writer, sol *Solution) error {
	render, err := tui.NewRenderer(0)
	if err != nil {
		return err
	}
	out, err := render(Markdown(sol))
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// WriteJSON writes sol as indented JSON.
func WriteJSON(w io.Writer, sol *Solution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sol)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
