package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/medward/refdash-cli/internal/cohort"
	"github.com/medward/refdash-cli/internal/compare"
)

// Cohorts is the roster-based category analysis: classification, per-category
// summaries for a period, and (optionally) period-over-period deltas.
type Cohorts struct {
	Period         string                   `json:"period,omitempty"`
	Base           string                   `json:"base_period,omitempty"`
	Current        string                   `json:"current_period,omitempty"`
	Classification map[string][]string      `json:"classification"`
	Summaries      []cohort.CategorySummary `json:"summaries"`
	Deltas         []compare.DeltaRow       `json:"deltas,omitempty"`
}

// RenderCohorts writes the cohort analysis in the requested format.
func RenderCohorts(w io.Writer, f Format, c Cohorts) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, c)
	case FormatMarkdown:
		var b strings.Builder
		b.WriteString("[COHORTS]\n")
		for _, cat := range sortedCategories(c.Classification) {
			members := c.Classification[cat]
			if len(members) == 0 {
				fmt.Fprintf(&b, "- %s: (none active)\n", cat)
				continue
			}
			fmt.Fprintf(&b, "- %s: %s\n", cat, strings.Join(members, ", "))
		}
		if len(c.Summaries) > 0 {
			fmt.Fprintf(&b, "\n[CATEGORY METRICS] %s\n", c.Period)
			for _, s := range c.Summaries {
				fmt.Fprintf(&b, "- %s: %d procedures, %d/%d active, %.2f per rostered physician\n",
					s.Category, s.Procedures, s.ActivePhysicians, s.RosterSize, s.AvgPerPhysician)
			}
		}
		if len(c.Deltas) > 0 {
			b.WriteString("\n")
			deltaSection(&b, fmt.Sprintf("CATEGORY DELTAS %s vs %s", c.Base, c.Current), c.Deltas)
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		fmt.Fprintln(w, "Cohort classification")
		t := newTable(w, "Category", "Active physicians")
		for _, cat := range sortedCategories(c.Classification) {
			members := c.Classification[cat]
			if len(members) == 0 {
				t.AppendRow(table.Row{cat, "(none active)"})
				continue
			}
			t.AppendRow(table.Row{cat, strings.Join(members, ", ")})
		}
		t.Render()
		if len(c.Summaries) > 0 {
			fmt.Fprintf(w, "Category metrics: %s\n", c.Period)
			mt := newTable(w, "Category", "Procedures", "Active", "Rostered", "Avg/Physician")
			for _, s := range c.Summaries {
				mt.AppendRow(table.Row{s.Category, s.Procedures, s.ActivePhysicians, s.RosterSize,
					fmt.Sprintf("%.2f", s.AvgPerPhysician)})
			}
			mt.Render()
		}
		if len(c.Deltas) > 0 {
			deltaTable(w, fmt.Sprintf("Category deltas: %s vs %s", c.Base, c.Current), c.Deltas)
		}
		return nil
	}
}

func sortedCategories(m map[string][]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
