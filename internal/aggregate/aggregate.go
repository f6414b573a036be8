// Package aggregate computes grouped counts and rankings over referral views.
// Every function is a pure projection of the view it is given; results are
// recomputed per call and never cached.
package aggregate

import (
	"sort"

	"github.com/medward/refdash-cli/internal/referral"
)

// Field is a grouping dimension of the referral data set.
type Field int

const (
	FieldPeriod Field = iota
	FieldProcedure
	FieldPhysician
	FieldPayer
)

func (f Field) String() string {
	switch f {
	case FieldPeriod:
		return "period"
	case FieldProcedure:
		return "procedure"
	case FieldPhysician:
		return "physician"
	case FieldPayer:
		return "payer"
	}
	return "unknown"
}

// ParseField maps a user-supplied dimension name to a Field.
func ParseField(s string) (Field, bool) {
	switch s {
	case "period":
		return FieldPeriod, true
	case "procedure":
		return FieldProcedure, true
	case "physician":
		return FieldPhysician, true
	case "payer":
		return FieldPayer, true
	}
	return 0, false
}

// Key is a composite group key. Only the components named by the CountBy
// fields are populated.
type Key struct {
	Period    referral.Period
	Procedure string
	Physician string
	Payer     string
}

// Label returns the value of a single component, used when ranking by one
// dimension.
func (k Key) Label(f Field) string {
	switch f {
	case FieldPeriod:
		return k.Period.String()
	case FieldProcedure:
		return k.Procedure
	case FieldPhysician:
		return k.Physician
	case FieldPayer:
		return k.Payer
	}
	return ""
}

// Row is one aggregate result: a group key and its record count.
type Row struct {
	Key   Key
	Count int
}

// CountBy groups the view by the given fields and counts records per group.
// The result is an unordered set: content is deterministic for a given view
// and field list, but callers impose their own ordering (TopN sorts by count,
// reports sort by label). An empty view yields an empty slice.
func CountBy(v *referral.View, fields ...Field) []Row {
	counts := make(map[Key]int)
	for _, r := range v.Records() {
		var k Key
		for _, f := range fields {
			switch f {
			case FieldPeriod:
				k.Period = r.Period()
			case FieldProcedure:
				k.Procedure = r.Procedure
			case FieldPhysician:
				k.Physician = r.Physician
			case FieldPayer:
				k.Payer = r.Payer
			}
		}
		counts[k]++
	}
	out := make([]Row, 0, len(counts))
	for k, c := range counts {
		out = append(out, Row{Key: k, Count: c})
	}
	return out
}

// TopN ranks single-field groups by count descending and returns the first n.
// Equal counts are broken by group label ascending, so rankings are stable
// across runs. n <= 0 yields an empty slice.
func TopN(v *referral.View, field Field, n int) []Row {
	if n <= 0 {
		return nil
	}
	rows := CountBy(v, field)
	SortByCount(rows, field)
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// SortByCount orders rows by count descending with label-ascending tie-break.
func SortByCount(rows []Row, field Field) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Key.Label(field) < rows[j].Key.Label(field)
	})
}

// Distinct counts the distinct values of one field in the view.
func Distinct(v *referral.View, field Field) int {
	seen := make(map[string]struct{})
	for _, r := range v.Records() {
		var label string
		switch field {
		case FieldPeriod:
			label = r.Period().String()
		case FieldProcedure:
			label = r.Procedure
		case FieldPhysician:
			label = r.Physician
		case FieldPayer:
			label = r.Payer
		}
		seen[label] = struct{}{}
	}
	return len(seen)
}
