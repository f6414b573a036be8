package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/medward/refdash-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set refdash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("workspaces_dir: %s\n", cfg.WorkspacesDir)
		fmt.Printf("date_columns: %s\n", strings.Join(cfg.DateColumns, ", "))
		fmt.Printf("procedure_columns: %s\n", strings.Join(cfg.ProcedureColumns, ", "))
		fmt.Printf("physician_columns: %s\n", strings.Join(cfg.PhysicianColumns, ", "))
		fmt.Printf("payer_columns: %s\n", strings.Join(cfg.PayerColumns, ", "))
		fmt.Printf("roster_name_columns: %s\n", strings.Join(cfg.RosterNameColumns, ", "))
		fmt.Printf("roster_responsible_columns: %s\n", strings.Join(cfg.RosterResponsibleColumns, ", "))
		if cfg.RosterPath != "" {
			fmt.Printf("roster_path: %s\n", cfg.RosterPath)
		}
		fmt.Printf("top_n: %d\n", cfg.TopN)
		fmt.Printf("include_weekends: %t\n", cfg.IncludeWeekends)
		fmt.Printf("format: %s\n", cfg.Format)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set updates one configuration key and saves the file. Column alias
lists take a comma-separated value, matched against headers in order.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Apply the key to a freshly loaded config: the in-memory cfg carries
		// per-invocation flag overrides that must not be persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "workspaces_dir":
			c.WorkspacesDir = val
		case "date_columns":
			c.DateColumns = splitAliases(val)
		case "procedure_columns":
			c.ProcedureColumns = splitAliases(val)
		case "physician_columns":
			c.PhysicianColumns = splitAliases(val)
		case "payer_columns":
			c.PayerColumns = splitAliases(val)
		case "roster_name_columns":
			c.RosterNameColumns = splitAliases(val)
		case "roster_responsible_columns":
			c.RosterResponsibleColumns = splitAliases(val)
		case "roster_path":
			c.RosterPath = val
		case "top_n":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_n: %v", val)
			}
			c.TopN = i
		case "include_weekends":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for include_weekends: %v", val)
			}
			c.IncludeWeekends = b
		case "format":
			switch val {
			case "table", "markdown", "md", "json":
				c.Format = val
			default:
				return fmt.Errorf("invalid format: %s (use table, markdown, or json)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func splitAliases(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
