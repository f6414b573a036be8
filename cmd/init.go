package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/utils"
	"github.com/medward/refdash-cli/internal/workspace"
)

var initDescription string

var initCmd = &cobra.Command{
	Use:   "init <workspace-name>",
	Short: "Initialize a new referral workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		root, err := defaultWorkspacesDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, name)
		// Refuse to overwrite an existing workspace.
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			metaFile := filepath.Join(dir, "dataset.json")
			if _, err := os.Stat(metaFile); err == nil {
				return fmt.Errorf("workspace already exists at %s", dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("inspect workspace directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize workspace", dir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat workspace directory: %w", err)
		}
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		w := workspace.New(name, initDescription, dir)
		if err := w.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Initialized workspace %s at %s\n", name, dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initDescription, "desc", "", "workspace description")
}
