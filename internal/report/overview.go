package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Overview is a one-month summary of the dataset.
type Overview struct {
	Period             string  `json:"period"`
	WorkingDaysOnly    bool    `json:"working_days_only"`
	TotalProcedures    int     `json:"total_procedures"`
	DistinctPhysicians int     `json:"distinct_physicians"`
	DistinctPayers     int     `json:"distinct_payers"`
	DistinctProcedures int     `json:"distinct_procedures"`
	TopPhysicians      []Count `json:"top_physicians"`
	TopProcedures      []Count `json:"top_procedures"`
	TopPayers          []Count `json:"top_payers"`
}

// RenderOverview writes the overview in the requested format.
func RenderOverview(w io.Writer, f Format, o Overview) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, o)
	case FormatMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "[MONTH OVERVIEW] %s\n", o.Period)
		fmt.Fprintf(&b, "Working days only: %t\n", o.WorkingDaysOnly)
		fmt.Fprintf(&b, "Total procedures: %d\n", o.TotalProcedures)
		fmt.Fprintf(&b, "Distinct physicians: %d\n", o.DistinctPhysicians)
		fmt.Fprintf(&b, "Distinct payers: %d\n", o.DistinctPayers)
		fmt.Fprintf(&b, "Distinct procedures: %d\n\n", o.DistinctProcedures)
		countSection(&b, "TOP PHYSICIANS", o.TopPhysicians)
		b.WriteString("\n")
		countSection(&b, "TOP PROCEDURES", o.TopProcedures)
		b.WriteString("\n")
		countSection(&b, "TOP PAYERS", o.TopPayers)
		_, err := io.WriteString(w, b.String())
		return err
	default:
		fmt.Fprintf(w, "Month overview: %s\n", o.Period)
		if o.TotalProcedures == 0 {
			fmt.Fprintln(w, emptyPlaceholder)
			return nil
		}
		t := newTable(w, "Metric", "Value")
		t.AppendRow(table.Row{"total procedures", o.TotalProcedures})
		t.AppendRow(table.Row{"distinct physicians", o.DistinctPhysicians})
		t.AppendRow(table.Row{"distinct payers", o.DistinctPayers})
		t.AppendRow(table.Row{"distinct procedures", o.DistinctProcedures})
		t.Render()
		countTable(w, "Top physicians", o.TopPhysicians)
		countTable(w, "Top procedures", o.TopProcedures)
		countTable(w, "Top payers", o.TopPayers)
		return nil
	}
}

// Periods lists the dataset's months with record counts.
func RenderPeriods(w io.Writer, f Format, rows []Count) error {
	switch f {
	case FormatJSON:
		return renderJSON(w, rows)
	case FormatMarkdown:
		var b strings.Builder
		fmt.Fprintf(&b, "[PERIODS]\n")
		if len(rows) == 0 {
			b.WriteString(emptyPlaceholder + "\n")
		}
		for _, r := range rows {
			fmt.Fprintf(&b, "- %s: %d\n", r.Label, r.Count)
		}
		_, err := io.WriteString(w, b.String())
		return err
	default:
		if len(rows) == 0 {
			fmt.Fprintln(w, emptyPlaceholder)
			return nil
		}
		t := newTable(w, "Period", "Records")
		for _, r := range rows {
			t.AppendRow(table.Row{r.Label, r.Count})
		}
		t.Render()
		return nil
	}
}
