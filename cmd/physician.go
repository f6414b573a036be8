package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/compare"
	"github.com/medward/refdash-cli/internal/referral"
	"github.com/medward/refdash-cli/internal/report"
)

var physicianWorkspace string

var physicianCmd = &cobra.Command{
	Use:   "physician <name>",
	Short: "Show one physician's month-by-month referral history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		_, store, err := openStore(physicianWorkspace)
		if err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}

		preds := append([]referral.Predicate{referral.ByPhysician(name)}, scopePredicates()...)
		view := store.Filter(preds...)

		counts := make(map[string]int)
		for _, row := range aggregate.CountBy(view, aggregate.FieldPeriod) {
			counts[row.Key.Period.String()] = row.Count
		}

		h := report.History{Physician: name}
		prev := 0
		for i, p := range view.Periods() {
			label := p.String()
			count := counts[label]
			row := report.HistoryRow{Period: label, Count: count}
			if i == 0 {
				row.First = true
			} else {
				row.Delta = count - prev
				row.Percent = compare.PercentChange(prev, count)
			}
			h.Rows = append(h.Rows, row)
			prev = count
		}
		return report.RenderHistory(os.Stdout, format, h)
	},
}

func init() {
	rootCmd.AddCommand(physicianCmd)
	physicianCmd.Flags().StringVarP(&physicianWorkspace, "workspace", "w", "", "workspace name")
}
