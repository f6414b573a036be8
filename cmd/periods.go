package cmd

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/report"
)

var periodsWorkspace string

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the dataset's months with record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore(periodsWorkspace)
		if err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}
		view := store.Filter(scopePredicates()...)
		rows := aggregate.CountBy(view, aggregate.FieldPeriod)
		counts := report.Counts(rows, aggregate.FieldPeriod)
		// chronological, not by count
		sort.Slice(counts, func(i, j int) bool { return counts[i].Label < counts[j].Label })
		return report.RenderPeriods(os.Stdout, format, counts)
	},
}

func init() {
	rootCmd.AddCommand(periodsCmd)
	periodsCmd.Flags().StringVarP(&periodsWorkspace, "workspace", "w", "", "workspace name")
}
