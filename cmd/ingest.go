package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/medward/refdash-cli/internal/ingest"
	"github.com/medward/refdash-cli/internal/referral"
)

var (
	ingWorkspace  string
	ingDelimiter  string
	ingSheetName  string
	ingSheetIndex int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Validate a referral file and merge it into a workspace",
	Long: `Ingest reads a CSV/TSV/XLSX referral file, validates every row
(all violations are reported together and nothing is loaded on failure),
merges the rows into the workspace dataset with exact-duplicate removal,
and rewrites the canonical date-sorted records file atomically.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if ingWorkspace == "" {
			return fmt.Errorf("--workspace is required")
		}
		opt := ingest.Options{SheetName: ingSheetName, SheetIndex: ingSheetIndex}
		switch ingDelimiter {
		case "":
		case ",":
			opt.Delimiter = ','
		case ";":
			opt.Delimiter = ';'
		case "\t", "tab":
			opt.Delimiter = '\t'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", ingDelimiter)
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		t, err := ingest.ReadFile(path, opt)
		if err != nil {
			return err
		}
		incoming, err := referral.Load(t.Name, t.Header, t.Rows, c.Mapping())
		if err != nil {
			return err
		}

		w, existing, err := openStore(ingWorkspace)
		if err != nil {
			return err
		}
		merged, stats := referral.Merge(existing, incoming)
		if err := w.WriteRecords(merged); err != nil {
			return err
		}
		w.AddSource(path, incoming.Len(), stats)
		if err := w.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Ingested %s into %s: %d added, %d duplicates removed, %d total\n",
			t.Name, ingWorkspace, stats.Added, stats.DuplicatesRemoved, stats.Total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVarP(&ingWorkspace, "workspace", "w", "", "workspace name")
	ingestCmd.Flags().StringVar(&ingDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	ingestCmd.Flags().StringVar(&ingSheetName, "sheet-name", "", "XLSX: sheet name to read")
	ingestCmd.Flags().IntVar(&ingSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
