package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/medward/refdash-cli/internal/compare"
)

// Comparison is a two-period comparison: summary metric deltas plus
// per-entity deltas along one dimension.
type Comparison struct {
	Base     string                `json:"base_period"`
	Current  string                `json:"current_period"`
	By       string                `json:"by"`
	Metrics  []compare.MetricDelta `json:"metrics"`
	Entities []compare.DeltaRow    `json:"entities"`
	Gainers  []compare.DeltaRow    `json:"top_gainers"`
	Losers   []compare.DeltaRow    `json:"top_losers"`
}

// RenderComparison writes the comparison in the requested format.
func RenderComparison(w io.Writer, f Format, c Comparison) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, c)
	case FormatMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "[COMPARISON] %s vs %s\n\n", c.Base, c.Current)
		fmt.Fprintf(&b, "[SUMMARY METRICS]\n")
		for _, m := range c.Metrics {
			fmt.Fprintf(&b, "- %s: %d -> %d (%+d, %s)\n", m.Metric, m.Base, m.Current, m.Delta, m.Percent.String())
		}
		b.WriteString("\n")
		deltaSection(&b, strings.ToUpper(c.By)+" DELTAS", c.Entities)
		b.WriteString("\n")
		deltaSection(&b, "TOP GAINERS", c.Gainers)
		b.WriteString("\n")
		deltaSection(&b, "TOP LOSERS", c.Losers)
		_, err := io.WriteString(w, b.String())
		return err
	default:
		fmt.Fprintf(w, "Comparison: %s (base) vs %s (current)\n", c.Base, c.Current)
		t := newTable(w, "Metric", "Base", "Current", "Delta", "Change")
		for _, m := range c.Metrics {
			t.AppendRow(table.Row{m.Metric, m.Base, m.Current, fmt.Sprintf("%+d", m.Delta), m.Percent.String()})
		}
		t.Render()
		deltaTable(w, fmt.Sprintf("Per-%s deltas", c.By), c.Entities)
		deltaTable(w, "Top gainers", c.Gainers)
		deltaTable(w, "Top losers", c.Losers)
		return nil
	}
}

// HistoryRow is one period of a single physician's activity. Delta and
// Percent compare against the previous listed period; the first row has
// no previous period.
type HistoryRow struct {
	Period  string          `json:"period"`
	Count   int             `json:"count"`
	First   bool            `json:"-"`
	Delta   int             `json:"delta"`
	Percent compare.Percent `json:"percent_delta"`
}

// History is a physician's month-by-month activity.
type History struct {
	Physician string       `json:"physician"`
	Rows      []HistoryRow `json:"rows"`
}

// RenderHistory writes the physician history in the requested format.
func RenderHistory(w io.Writer, f Format, h History) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, h)
	case FormatMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "[PHYSICIAN HISTORY] %s\n", h.Physician)
		if len(h.Rows) == 0 {
			b.WriteString(emptyPlaceholder + "\n")
		}
		for _, r := range h.Rows {
			if r.First {
				fmt.Fprintf(&b, "- %s: %d\n", r.Period, r.Count)
				continue
			}
			fmt.Fprintf(&b, "- %s: %d (%+d, %s)\n", r.Period, r.Count, r.Delta, r.Percent.String())
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		fmt.Fprintf(w, "Physician history: %s\n", h.Physician)
		if len(h.Rows) == 0 {
			fmt.Fprintln(w, emptyPlaceholder)
			return nil
		}
		t := newTable(w, "Period", "Count", "Delta", "Change")
		for _, r := range h.Rows {
			if r.First {
				t.AppendRow(table.Row{r.Period, r.Count, "", ""})
				continue
			}
			t.AppendRow(table.Row{r.Period, r.Count, fmt.Sprintf("%+d", r.Delta), r.Percent.String()})
		}
		t.Render()
		return nil
	}
}
