package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/cohort"
	"github.com/medward/refdash-cli/internal/ingest"
	"github.com/medward/refdash-cli/internal/referral"
	"github.com/medward/refdash-cli/internal/report"
)

var (
	cohortsWorkspace string
	cohortsRoster    string
	cohortsMonth     string
	cohortsBase      string
	cohortsCurrent   string
)

var cohortsCmd = &cobra.Command{
	Use:   "cohorts",
	Short: "Classify active physicians by roster category and summarize each cohort",
	Long: `Cohorts reads a roster file assigning physicians to categories, classifies
the physicians active in the dataset, and reports per-category activity for
one month. With --base and --current it also computes category-level deltas
between the two months. Physicians absent from the roster appear in no
category; every roster category is reported even when no member was active.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		rosterPath := cohortsRoster
		if rosterPath == "" {
			rosterPath = c.RosterPath
		}
		if rosterPath == "" {
			return fmt.Errorf("--roster is required (or set roster_path in config)")
		}
		t, err := ingest.ReadFile(rosterPath, ingest.Options{})
		if err != nil {
			return err
		}
		roster, err := cohort.LoadRoster(t.Name, t.Header, t.Rows, c.RosterNameColumns, c.RosterResponsibleColumns)
		if err != nil {
			return err
		}

		_, store, err := openStore(cohortsWorkspace)
		if err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}

		var period referral.Period
		if cohortsMonth != "" {
			period, err = referral.ParsePeriod(cohortsMonth)
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
		var active []string
		seen := make(map[string]struct{})
		for _, rec := range view.Records() {
			if _, dup := seen[rec.Physician]; dup {
				continue
			}
			seen[rec.Physician] = struct{}{}
			active = append(active, rec.Physician)
		}

		out := report.Cohorts{
			Period:         period.String(),
			Classification: roster.Classify(active),
			Summaries:      cohort.CategoryMetrics(store, roster, period, workingDaysOnly()),
		}

		if cohortsBase != "" || cohortsCurrent != "" {
			if cohortsBase == "" || cohortsCurrent == "" {
				return fmt.Errorf("--base and --current must be given together")
			}
			base, err := referral.ParsePeriod(cohortsBase)
			if err != nil {
				return fmt.Errorf("invalid --base: %w", err)
			}
			current, err := referral.ParsePeriod(cohortsCurrent)
			if err != nil {
				return fmt.Errorf("invalid --current: %w", err)
			}
			out.Base = base.String()
			out.Current = current.String()
			out.Deltas = cohort.CategoryDeltas(store, roster, base, current, workingDaysOnly())
		}
		return report.RenderCohorts(os.Stdout, format, out)
	},
}

func init() {
	rootCmd.AddCommand(cohortsCmd)
	cohortsCmd.Flags().StringVarP(&cohortsWorkspace, "workspace", "w", "", "workspace name")
	cohortsCmd.Flags().StringVar(&cohortsRoster, "roster", "", "roster file (CSV/TSV/XLSX) assigning physicians to categories")
	cohortsCmd.Flags().StringVar(&cohortsMonth, "month", "", "month to summarize, YYYY-MM (default: latest in dataset)")
	cohortsCmd.Flags().StringVar(&cohortsBase, "base", "", "base month for category deltas, YYYY-MM")
	cohortsCmd.Flags().StringVar(&cohortsCurrent, "current", "", "current month for category deltas, YYYY-MM")
}
