package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/workspace"
)

var (
	listWorkspaces bool
	listSources    bool
	listWsName     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces or the sources ingested into one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listWorkspaces == listSources { // either both true or both false
			return fmt.Errorf("specify exactly one of --workspaces or --sources")
		}
		if listWorkspaces {
			return listAllWorkspaces()
		}
		// list sources
		if listWsName == "" {
			return fmt.Errorf("--workspace is required when using --sources")
		}
		dir, err := resolveWorkspaceDirByName(listWsName)
		if err != nil {
			return err
		}
		w, err := workspace.Load(dir)
		if err != nil {
			return err
		}
		if len(w.Sources) == 0 {
			fmt.Println("(no sources)")
			return nil
		}
		ids := make([]string, 0, len(w.Sources))
		for id := range w.Sources {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return w.Sources[ids[i]].AddedAt.Before(w.Sources[ids[j]].AddedAt)
		})
		for _, id := range ids {
			s := w.Sources[id]
			fmt.Printf("- %s: %s (%d rows, added %s)\n", s.ID, s.Name, s.Rows, s.AddedAt.Format("2006-01-02"))
		}
		return nil
	},
}

func listAllWorkspaces() error {
	root, err := defaultWorkspacesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("(no workspaces)")
			return nil
		}
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		meta := filepath.Join(root, e.Name(), "dataset.json")
		if _, err := os.Stat(meta); err == nil {
			fmt.Printf("- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Println("(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listSources, "sources", false, "list sources ingested into a workspace")
	listCmd.Flags().StringVarP(&listWsName, "workspace", "w", "", "workspace name for --sources")
}
