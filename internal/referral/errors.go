package referral

import (
	"fmt"
	"strings"
)

// Violation is one rejected row or missing column found during ingestion.
// Row is the 1-based data row number; 0 means the violation applies to the
// table as a whole (e.g. a required column is absent).
type Violation struct {
	Row     int
	Column  string
	Message string
}

func (v Violation) String() string {
	if v.Row == 0 {
		return fmt.Sprintf("column %s: %s", v.Column, v.Message)
	}
	return fmt.Sprintf("row %d, column %s: %s", v.Row, v.Column, v.Message)
}

// ValidationError reports every violation found in an ingestion attempt.
// Ingestion is all-or-nothing: when this error is returned no store was built.
type ValidationError struct {
	Source     string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d validation violation(s) in %s:", len(e.Violations), e.Source)
	for _, v := range e.Violations {
		b.WriteString("\n  - ")
		b.WriteString(v.String())
	}
	return b.String()
}

// ConfigurationError indicates an input file was readable but no configured
// column alias matched, so the operation cannot proceed at all.
type ConfigurationError struct {
	Source  string
	Column  string
	Aliases []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: no column for %s matched any configured alias (%s)",
		e.Source, e.Column, strings.Join(e.Aliases, ", "))
}
