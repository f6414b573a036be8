package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	cfgpkg "github.com/medward/refdash-cli/internal/config"
	"github.com/medward/refdash-cli/internal/referral"
	"github.com/medward/refdash-cli/internal/report"
	"github.com/medward/refdash-cli/internal/workspace"
)

var (
	// Global flags (wired to config/viper)
	cfgFile             string
	flagFormat          string
	flagTopN            int
	flagIncludeWeekends bool

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "refdash",
	Short: "refdash: referral analytics over spreadsheet-shaped procedure logs",
	Long: `refdash ingests tabular medical-referral records (date, procedure,
physician, payer) into named workspaces and answers queries over them:
monthly overviews, two-period comparisons, top-N rankings, per-physician
history, and roster-based cohort analysis.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.refdash/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "", "output format: table|markdown|json (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTopN, "top", 0, "rows in top-N rankings (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagIncludeWeekends, "include-weekends", false, "include Saturday/Sunday records (aggregates are working-day scoped by default)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("format") && flagFormat != "" {
		cfg.Format = flagFormat
	}
	if f.Changed("top") && flagTopN > 0 {
		cfg.TopN = flagTopN
	}
	if f.Changed("include-weekends") {
		cfg.IncludeWeekends = flagIncludeWeekends
	}
}

// requireConfig guards commands that need column alias lists.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration unavailable; see warning above")
	}
	return cfg, nil
}

func defaultWorkspacesDir() (string, error) {
	if cfg != nil && cfg.WorkspacesDir != "" {
		return cfg.WorkspacesDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".refdash", "workspaces"), nil
}

// resolveWorkspaceDirByName maps a workspace name to its directory under the
// configured workspaces dir.
func resolveWorkspaceDirByName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("--workspace is required")
	}
	root, err := defaultWorkspacesDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// openStore loads a workspace and rebuilds its immutable store snapshot.
func openStore(name string) (*workspace.Workspace, *referral.Store, error) {
	dir, err := resolveWorkspaceDirByName(name)
	if err != nil {
		return nil, nil, err
	}
	w, err := workspace.Load(dir)
	if err != nil {
		return nil, nil, err
	}
	store, err := w.ReadStore()
	if err != nil {
		return nil, nil, err
	}
	return w, store, nil
}

func outputFormat() (report.Format, error) {
	name := flagFormat
	if name == "" && cfg != nil {
		name = cfg.Format
	}
	return report.ParseFormat(name)
}

func topLimit() int {
	if flagTopN > 0 {
		return flagTopN
	}
	if cfg != nil && cfg.TopN > 0 {
		return cfg.TopN
	}
	return 10
}

func workingDaysOnly() bool {
	if rootCmd.PersistentFlags().Changed("include-weekends") {
		return !flagIncludeWeekends
	}
	if cfg != nil {
		return !cfg.IncludeWeekends
	}
	return true
}

// scopePredicates returns the predicates every aggregate query applies by
// default (working-day filtering unless weekends were requested).
func scopePredicates() []referral.Predicate {
	if workingDaysOnly() {
		return []referral.Predicate{referral.WorkingDaysOnly()}
	}
	return nil
}

// latestPeriod picks the most recent month when the user did not name one.
func latestPeriod(store *referral.Store) (referral.Period, error) {
	periods := store.Periods()
	if len(periods) == 0 {
		return referral.Period{}, fmt.Errorf("workspace has no records; run 'refdash ingest' first")
	}
	return periods[len(periods)-1], nil
}
