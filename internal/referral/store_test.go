package referral

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var testMapping = Mapping{
	Date:      []string{"DATE", "FECHA"},
	Procedure: []string{"PROCEDURE", "ESTUDIO"},
	Physician: []string{"PHYSICIAN", "MEDICO"},
	Payer:     []string{"PAYER", "ASEGURADORA"},
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveColumnCaseInsensitive(t *testing.T) {
	header := []string{" Fecha ", "Estudio", "MEDICO", "Aseguradora"}
	if got := ResolveColumn(header, []string{"DATE", "FECHA"}); got != 0 {
		t.Fatalf("expected column 0, got %d", got)
	}
	if got := ResolveColumn(header, []string{"PAYER", "ASEGURADORA"}); got != 3 {
		t.Fatalf("expected column 3, got %d", got)
	}
	if got := ResolveColumn(header, []string{"MISSING"}); got != -1 {
		t.Fatalf("expected -1 for no match, got %d", got)
	}
}

func TestResolveColumnFirstAliasWins(t *testing.T) {
	header := []string{"FECHA", "DATE"}
	// "DATE" is listed first in the alias list, so it wins even though
	// "FECHA" appears earlier in the header.
	if got := ResolveColumn(header, []string{"DATE", "FECHA"}); got != 1 {
		t.Fatalf("expected alias order to win (column 1), got %d", got)
	}
}

func TestLoadValid(t *testing.T) {
	header := []string{"DATE", "PROCEDURE", "PHYSICIAN", "PAYER"}
	rows := [][]string{
		{"15/01/2024", "MRI", "Dr. B", "Acme Health"},
		{"03/01/2024", "XRAY", "Dr. A", "Acme Health"},
	}
	s, err := Load("feed.csv", header, rows, testMapping)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", s.Len())
	}
	// Store is date-sorted regardless of input order.
	if got := s.Records()[0].Physician; got != "Dr. A" {
		t.Fatalf("expected earliest record first, got %q", got)
	}
	if got := s.Records()[0].Date; !got.Equal(day(2024, time.January, 3)) {
		t.Fatalf("unexpected parsed date: %v", got)
	}
}

func TestLoadCollectsAllViolations(t *testing.T) {
	header := []string{"DATE", "PROCEDURE", "PHYSICIAN", "PAYER"}
	rows := [][]string{
		{"not-a-date", "MRI", "Dr. A", "Acme"},
		{"15/01/2024", "", "Dr. B", "Acme"},
		{"16/01/2024", "CT", "", ""},
	}
	_, err := Load("feed.csv", header, rows, testMapping)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(ve.Violations) != 4 {
		t.Fatalf("expected 4 violations (bad date, blank procedure, blank physician, blank payer), got %d: %v", len(ve.Violations), ve)
	}
	if ve.Violations[0].Row != 1 || ve.Violations[0].Column != "date" {
		t.Fatalf("unexpected first violation: %+v", ve.Violations[0])
	}
	if !strings.Contains(ve.Error(), "row 2, column procedure") {
		t.Fatalf("error message missing row detail: %s", ve.Error())
	}
}

func TestLoadMissingColumnsShortCircuit(t *testing.T) {
	header := []string{"DATE", "PHYSICIAN"}
	rows := [][]string{{"bad-date", "Dr. A"}}
	_, err := Load("feed.csv", header, rows, testMapping)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	// Only the table-level column violations are reported; row scanning is
	// pointless without a full mapping.
	if len(ve.Violations) != 2 {
		t.Fatalf("expected 2 missing-column violations, got %d", len(ve.Violations))
	}
	for _, v := range ve.Violations {
		if v.Row != 0 {
			t.Fatalf("missing-column violation should be table-level, got row %d", v.Row)
		}
	}
}

func TestParseDateLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"15/01/2024", day(2024, time.January, 15)},
		{"3/1/2024", day(2024, time.January, 3)},
		{"2024-01-15", day(2024, time.January, 15)},
		// Excel day serial for 2024-01-15.
		{"45306", day(2024, time.January, 15)},
	}
	for _, c := range cases {
		got, err := parseDate(c.in)
		if err != nil {
			t.Fatalf("parseDate(%q) failed: %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Fatalf("parseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "13/13/2024", "99", "999999", "Jan 5 2024"} {
		if _, err := parseDate(bad); err == nil {
			t.Fatalf("parseDate(%q) should fail", bad)
		}
	}
}

func TestMergeDeduplicates(t *testing.T) {
	a := FromRecords([]Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 4), Procedure: "CT", Physician: "Dr. B", Payer: "Acme"},
	})
	b := FromRecords([]Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"}, // duplicate
		{Date: day(2024, time.February, 1), Procedure: "XRAY", Physician: "Dr. A", Payer: "Beta"},
	})
	merged, stats := Merge(a, b)
	if merged.Len() != 3 {
		t.Fatalf("expected 3 merged records, got %d", merged.Len())
	}
	if stats.Added != 1 || stats.DuplicatesRemoved != 1 || stats.Total != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	// DuplicatesRemoved always satisfies |A| + |B| - Total.
	if stats.DuplicatesRemoved != a.Len()+b.Len()-stats.Total {
		t.Fatalf("stats identity broken: %+v", stats)
	}
}

func TestMergeCommutativeOnContent(t *testing.T) {
	a := FromRecords([]Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
	})
	b := FromRecords([]Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 5), Procedure: "CT", Physician: "Dr. B", Payer: "Acme"},
	})
	ab, _ := Merge(a, b)
	ba, _ := Merge(b, a)
	if ab.Len() != ba.Len() {
		t.Fatalf("merge not commutative: %d vs %d", ab.Len(), ba.Len())
	}
	for i := range ab.Records() {
		if ab.Records()[i] != ba.Records()[i] {
			t.Fatalf("merge content differs at %d: %+v vs %+v", i, ab.Records()[i], ba.Records()[i])
		}
	}
}

func TestPeriodParseAndOrder(t *testing.T) {
	p, err := ParsePeriod("2024-02")
	if err != nil {
		t.Fatalf("ParsePeriod failed: %v", err)
	}
	if p.String() != "2024-02" {
		t.Fatalf("round trip failed: %s", p.String())
	}
	q, _ := ParsePeriod("2024-03")
	if !p.Before(q) || q.Before(p) {
		t.Fatal("period ordering broken")
	}
	if _, err := ParsePeriod("2024-13"); err == nil {
		t.Fatal("expected error for month 13")
	}
	if _, err := ParsePeriod("Feb 2024"); err == nil {
		t.Fatal("expected error for non-canonical form")
	}
}
