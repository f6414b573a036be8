package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/referral"
	"github.com/medward/refdash-cli/internal/report"
)

var (
	overviewWorkspace string
	overviewMonth     string
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summarize one month: totals, distinct counts, and top-N rankings",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore(overviewWorkspace)
		if err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}

		var period referral.Period
		if overviewMonth != "" {
			period, err = referral.ParsePeriod(overviewMonth)
			if err != nil {
				return fmt.Errorf("invalid --month: %w", err)
			}
		} else {
			period, err = latestPeriod(store)
			if err != nil {
				return err
			}
		}

		preds := append([]referral.Predicate{referral.InPeriod(period)}, scopePredicates()...)
		view := store.Filter(preds...)
		n := topLimit()

		o := report.Overview{
			Period:             period.String(),
			WorkingDaysOnly:    workingDaysOnly(),
			TotalProcedures:    view.Len(),
			DistinctPhysicians: aggregate.Distinct(view, aggregate.FieldPhysician),
			DistinctPayers:     aggregate.Distinct(view, aggregate.FieldPayer),
			DistinctProcedures: aggregate.Distinct(view, aggregate.FieldProcedure),
			TopPhysicians:      report.Counts(aggregate.TopN(view, aggregate.FieldPhysician, n), aggregate.FieldPhysician),
			TopProcedures:      report.Counts(aggregate.TopN(view, aggregate.FieldProcedure, n), aggregate.FieldProcedure),
			TopPayers:          report.Counts(aggregate.TopN(view, aggregate.FieldPayer, n), aggregate.FieldPayer),
		}
		return report.RenderOverview(os.Stdout, format, o)
	},
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	overviewCmd.Flags().StringVarP(&overviewWorkspace, "workspace", "w", "", "workspace name")
	overviewCmd.Flags().StringVar(&overviewMonth, "month", "", "month to summarize, YYYY-MM (default: latest in dataset)")
}
