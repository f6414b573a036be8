package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/medward/refdash-cli/internal/referral"
)

// Global configuration structure.
type Global struct {
	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`

	// Column alias lists for the referral feed, matched case-insensitively
	// in order; the first header hit wins.
	DateColumns      []string `mapstructure:"date_columns" yaml:"date_columns"`
	ProcedureColumns []string `mapstructure:"procedure_columns" yaml:"procedure_columns"`
	PhysicianColumns []string `mapstructure:"physician_columns" yaml:"physician_columns"`
	PayerColumns     []string `mapstructure:"payer_columns" yaml:"payer_columns"`

	// Roster feed aliases. The responsible-person list is the enumerated set
	// the upstream roster files are known to use.
	RosterNameColumns        []string `mapstructure:"roster_name_columns" yaml:"roster_name_columns"`
	RosterResponsibleColumns []string `mapstructure:"roster_responsible_columns" yaml:"roster_responsible_columns"`
	RosterPath               string   `mapstructure:"roster_path" yaml:"roster_path"`

	// Query defaults.
	TopN            int    `mapstructure:"top_n" yaml:"top_n"`
	IncludeWeekends bool   `mapstructure:"include_weekends" yaml:"include_weekends"`
	Format          string `mapstructure:"format" yaml:"format"`
}

// Mapping returns the referral column mapping configured here.
func (c *Global) Mapping() referral.Mapping {
	return referral.Mapping{
		Date:      c.DateColumns,
		Procedure: c.ProcedureColumns,
		Physician: c.PhysicianColumns,
		Payer:     c.PayerColumns,
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.refdash/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".refdash")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("REFDASH")
	v.AutomaticEnv()

	v.SetDefault("date_columns", []string{"TRANSFORMED DATE", "DATE", "FECHA"})
	v.SetDefault("procedure_columns", []string{"PROCEDURE", "STUDY", "ESTUDIO"})
	v.SetDefault("physician_columns", []string{"PHYSICIAN", "DOCTOR", "MEDICO", "REFERRING PHYSICIAN"})
	v.SetDefault("payer_columns", []string{"PAYER", "INSURANCE", "ASEGURADORA"})
	v.SetDefault("roster_name_columns", []string{"DOCTOR", "PHYSICIAN", "NOMBRE", "NAME"})
	v.SetDefault("roster_responsible_columns", []string{"RESPONSABLE", "Responsable", "RESPONSIBLE", "Responsible"})
	v.SetDefault("top_n", 10)
	v.SetDefault("include_weekends", false)
	v.SetDefault("format", "table")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".refdash")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve workspaces_dir default: ~/.refdash/workspaces
	if c.WorkspacesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.WorkspacesDir = filepath.Join(home, ".refdash", "workspaces")
	}
	return &c, nil
}
