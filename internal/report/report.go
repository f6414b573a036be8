// Package report renders query results for the terminal. Three formats are
// supported: go-pretty tables (default), plain markdown-ish text blocks, and
// JSON. Empty results render as an explicit placeholder line, never an error.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/compare"
)

// Format selects the output rendering.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "table":
		return FormatTable, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q (use table|markdown|json)", s)
}

const emptyPlaceholder = "(no matching records)"

// Count is one labeled count in a rendered list.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Counts converts single-field aggregate rows into rendered counts,
// preserving their order.
func Counts(rows []aggregate.Row, field aggregate.Field) []Count {
	out := make([]Count, len(rows))
	for i, r := range rows {
		out[i] = Count{Label: r.Key.Label(field), Count: r.Count}
	}
	return out
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

func countTable(w io.Writer, title string, rows []Count) {
	fmt.Fprintln(w, title)
	if len(rows) == 0 {
		fmt.Fprintln(w, emptyPlaceholder)
		return
	}
	t := newTable(w, "#", "Name", "Count")
	for i, r := range rows {
		t.AppendRow(table.Row{i + 1, r.Label, r.Count})
	}
	t.Render()
}

func countSection(b *strings.Builder, title string, rows []Count) {
	fmt.Fprintf(b, "[%s]\n", title)
	if len(rows) == 0 {
		b.WriteString(emptyPlaceholder + "\n")
		return
	}
	for i, r := range rows {
		fmt.Fprintf(b, "%d. %s: %d\n", i+1, r.Label, r.Count)
	}
}

func deltaTable(w io.Writer, title string, rows []compare.DeltaRow) {
	fmt.Fprintln(w, title)
	if len(rows) == 0 {
		fmt.Fprintln(w, emptyPlaceholder)
		return
	}
	t := newTable(w, "Name", "Base", "Current", "Delta", "Change")
	for _, r := range rows {
		t.AppendRow(table.Row{r.Entity, r.Base, r.Current, fmt.Sprintf("%+d", r.Delta), r.Percent.String()})
	}
	t.Render()
}

func deltaSection(b *strings.Builder, title string, rows []compare.DeltaRow) {
	fmt.Fprintf(b, "[%s]\n", title)
	if len(rows) == 0 {
		b.WriteString(emptyPlaceholder + "\n")
		return
	}
	for _, r := range rows {
		fmt.Fprintf(b, "- %s: %d -> %d (%+d, %s)\n", r.Entity, r.Base, r.Current, r.Delta, r.Percent.String())
	}
}
