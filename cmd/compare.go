package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/compare"
	"github.com/medward/refdash-cli/internal/referral"
	"github.com/medward/refdash-cli/internal/report"
)

var (
	compareWorkspace string
	compareBase      string
	compareCurrent   string
	compareBy        string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two months: summary metrics plus per-entity deltas",
	Long: `Compare computes period-over-period deltas between a base month and a
current month. Entities present in only one month count zero in the other,
and a percentage change over a zero base renders as n/a.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if compareBase == "" || compareCurrent == "" {
			return fmt.Errorf("--base and --current are required (YYYY-MM)")
		}
		base, err := referral.ParsePeriod(compareBase)
		if err != nil {
			return fmt.Errorf("invalid --base: %w", err)
		}
		current, err := referral.ParsePeriod(compareCurrent)
		if err != nil {
			return fmt.Errorf("invalid --current: %w", err)
		}
		field, ok := aggregate.ParseField(compareBy)
		if !ok || field == aggregate.FieldPeriod {
			return fmt.Errorf("unsupported --by dimension %q (use physician|procedure|payer)", compareBy)
		}

		_, store, err := openStore(compareWorkspace)
		if err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}

		scope := scopePredicates()
		baseView := store.Filter(append([]referral.Predicate{referral.InPeriod(base)}, scope...)...)
		currentView := store.Filter(append([]referral.Predicate{referral.InPeriod(current)}, scope...)...)

		entities := compare.Entities(baseView, currentView, field)
		n := topLimit()
		c := report.Comparison{
			Base:     base.String(),
			Current:  current.String(),
			By:       field.String(),
			Metrics:  compare.Summary(baseView, currentView),
			Entities: entities,
			Gainers:  compare.TopGainers(entities, n),
			Losers:   compare.TopLosers(entities, n),
		}
		return report.RenderComparison(os.Stdout, format, c)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&compareWorkspace, "workspace", "w", "", "workspace name")
	compareCmd.Flags().StringVar(&compareBase, "base", "", "base month, YYYY-MM")
	compareCmd.Flags().StringVar(&compareCurrent, "current", "", "current month, YYYY-MM")
	compareCmd.Flags().StringVar(&compareBy, "by", "physician", "entity dimension: physician|procedure|payer")
}
