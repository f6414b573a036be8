package referral

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Mapping names the columns a referral table must provide. Each logical
// column carries an ordered alias list; the first header matching an alias
// (case-insensitive, trimmed) wins.
type Mapping struct {
	Date      []string
	Procedure []string
	Physician []string
	Payer     []string
}

// dateLayouts accepted for the date column. The upstream feed is day-first.
var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02"}

// ResolveColumn returns the index of the first header matching an alias, or
// -1 when none matches.
func ResolveColumn(header []string, aliases []string) int {
	for _, a := range aliases {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(a)) {
				return i
			}
		}
	}
	return -1
}

// Store is the immutable set of referral records, sorted by date ascending.
// It is built once per ingestion and never mutated; all queries run against
// read-only views of a store snapshot.
type Store struct {
	records []Record
}

// Load validates raw rows against the mapping and builds a store.
// It collects every violation (missing columns, unparseable dates, blank
// required fields) and returns them together in a *ValidationError; on error
// no store is returned.
func Load(source string, header []string, rows [][]string, m Mapping) (*Store, error) {
	type column struct {
		name    string
		aliases []string
		idx     int
	}
	cols := []column{
		{name: "date", aliases: m.Date},
		{name: "procedure", aliases: m.Procedure},
		{name: "physician", aliases: m.Physician},
		{name: "payer", aliases: m.Payer},
	}
	var violations []Violation
	for i := range cols {
		cols[i].idx = ResolveColumn(header, cols[i].aliases)
		if cols[i].idx < 0 {
			violations = append(violations, Violation{
				Column:  cols[i].name,
				Message: fmt.Sprintf("required column missing; tried aliases %s", strings.Join(cols[i].aliases, ", ")),
			})
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Source: source, Violations: violations}
	}

	records := make([]Record, 0, len(rows))
	for n, row := range rows {
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		var rec Record
		ok := true
		raw := cell(cols[0].idx)
		if raw == "" {
			violations = append(violations, Violation{Row: n + 1, Column: "date", Message: "value is empty"})
			ok = false
		} else if d, err := parseDate(raw); err != nil {
			violations = append(violations, Violation{Row: n + 1, Column: "date", Message: err.Error()})
			ok = false
		} else {
			rec.Date = d
		}
		for i, dst := range []*string{&rec.Procedure, &rec.Physician, &rec.Payer} {
			c := cols[i+1]
			v := cell(c.idx)
			if v == "" {
				violations = append(violations, Violation{Row: n + 1, Column: c.name, Message: "value is empty"})
				ok = false
				continue
			}
			*dst = v
		}
		if ok {
			records = append(records, rec)
		}
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Source: source, Violations: violations}
	}
	sortRecords(records)
	return &Store{records: records}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	// XLSX date cells surface as day serials counted from 1899-12-30.
	// Accept serials covering 1954-2064; anything else is not a date.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 20000 && f < 60000 {
		return time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(f)), nil
	}
	return time.Time{}, fmt.Errorf("cannot parse date %q", s)
}

// FromRecords builds a store directly from already-validated records.
func FromRecords(records []Record) *Store {
	cp := make([]Record, len(records))
	copy(cp, records)
	sortRecords(cp)
	return &Store{records: cp}
}

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		if records[i].Physician != records[j].Physician {
			return records[i].Physician < records[j].Physician
		}
		if records[i].Procedure != records[j].Procedure {
			return records[i].Procedure < records[j].Procedure
		}
		return records[i].Payer < records[j].Payer
	})
}

// Len returns the number of records in the store.
func (s *Store) Len() int { return len(s.records) }

// Records returns the store's rows in date order. The slice is shared;
// callers must not mutate it.
func (s *Store) Records() []Record { return s.records }

// Periods returns the distinct periods present, in chronological order.
func (s *Store) Periods() []Period {
	return s.All().Periods()
}

// MergeStats summarizes a merge for user-facing reporting.
type MergeStats struct {
	Added             int
	DuplicatesRemoved int
	Total             int
}

// Merge concatenates two stores, removes exact-duplicate rows, and returns a
// new date-sorted store. The merge is commutative on content:
// DuplicatesRemoved is always len(a) + len(b) - Total.
func Merge(a, b *Store) (*Store, MergeStats) {
	seen := make(map[string]struct{}, a.Len()+b.Len())
	merged := make([]Record, 0, a.Len()+b.Len())
	for _, r := range a.records {
		if _, dup := seen[r.key()]; dup {
			continue
		}
		seen[r.key()] = struct{}{}
		merged = append(merged, r)
	}
	baseUnique := len(merged)
	for _, r := range b.records {
		if _, dup := seen[r.key()]; dup {
			continue
		}
		seen[r.key()] = struct{}{}
		merged = append(merged, r)
	}
	sortRecords(merged)
	return &Store{records: merged}, MergeStats{
		Added:             len(merged) - baseUnique,
		DuplicatesRemoved: a.Len() + b.Len() - len(merged),
		Total:             len(merged),
	}
}
