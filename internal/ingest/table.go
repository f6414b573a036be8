// Package ingest reads tabular referral and roster files into raw string
// tables. Validation and typing happen downstream; this layer only deals with
// file formats.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a raw tabular file: a header row and data rows of strings.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Options controls file reading.
type Options struct {
	// Delimiter for CSV. If 0, inferred from the extension (',' or '\t').
	Delimiter rune
	// SheetName selects an XLSX sheet by name; takes precedence over index.
	SheetName string
	// SheetIndex is the 1-based XLSX sheet index; 0 means the first sheet.
	SheetIndex int
}

// ReadFile reads a .csv, .tsv, or .xlsx file into a Table.
func ReadFile(path string, opt Options) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return readCSV(path, opt)
	case ".xlsx":
		return readXLSX(path, opt)
	default:
		return nil, fmt.Errorf("unsupported file format %q (want .csv, .tsv, or .xlsx)", filepath.Ext(path))
	}
}
