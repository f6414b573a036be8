package cohort

import (
	"errors"
	"testing"
	"time"

	"github.com/medward/refdash-cli/internal/referral"
)

var (
	nameAliases = []string{"DOCTOR", "PHYSICIAN", "NOMBRE"}
	respAliases = []string{"RESPONSABLE", "RESPONSIBLE"}
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRoster(t *testing.T) *Roster {
	t.Helper()
	header := []string{"DOCTOR", "RESPONSABLE"}
	rows := [][]string{
		{"Dr. A", "ALEX"},
		{"Dr. B", "LUIS"},
		{"Dr. D", "ALEX"},
		{"Dr. E", "GERARDO"},
	}
	r, err := LoadRoster("roster.csv", header, rows, nameAliases, respAliases)
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}
	return r
}

func TestLoadRosterDiscoverCategories(t *testing.T) {
	r := testRoster(t)
	got := r.Categories()
	want := []string{"ALEX", "GERARDO", "LUIS"}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("categories = %v, want %v", got, want)
		}
	}
	if r.Size("ALEX") != 2 || r.Size("LUIS") != 1 {
		t.Fatalf("unexpected roster sizes: ALEX=%d LUIS=%d", r.Size("ALEX"), r.Size("LUIS"))
	}
}

func TestLoadRosterFirstAssignmentWins(t *testing.T) {
	header := []string{"DOCTOR", "RESPONSABLE"}
	rows := [][]string{
		{"Dr. A", "ALEX"},
		{"Dr. A", "LUIS"},
		{"", "LUIS"},
		{"Dr. B", ""},
	}
	r, err := LoadRoster("roster.csv", header, rows, nameAliases, respAliases)
	if err != nil {
		t.Fatalf("LoadRoster failed: %v", err)
	}
	if c, ok := r.Category("Dr. A"); !ok || c != "ALEX" {
		t.Fatalf("expected first assignment kept, got %q", c)
	}
	if _, ok := r.Category("Dr. B"); ok {
		t.Fatal("blank category row should be skipped")
	}
}

func TestLoadRosterConfigurationError(t *testing.T) {
	header := []string{"NAME OF DOCTOR", "TEAM"}
	_, err := LoadRoster("roster.csv", header, nil, nameAliases, respAliases)
	var ce *referral.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *referral.ConfigurationError, got %T", err)
	}
	if ce.Column != "physician name" {
		t.Fatalf("unexpected column in error: %q", ce.Column)
	}
}

func TestClassify(t *testing.T) {
	r := testRoster(t)
	// Dr. C is active but not rostered; Dr. A appears twice in the input.
	got := r.Classify([]string{"Dr. A", "Dr. C", "Dr. A", "Dr. B"})
	if len(got) != 3 {
		t.Fatalf("every roster category must be present, got %v", got)
	}
	if len(got["ALEX"]) != 1 || got["ALEX"][0] != "Dr. A" {
		t.Fatalf("unexpected ALEX members: %v", got["ALEX"])
	}
	if len(got["LUIS"]) != 1 || got["LUIS"][0] != "Dr. B" {
		t.Fatalf("unexpected LUIS members: %v", got["LUIS"])
	}
	if len(got["GERARDO"]) != 0 {
		t.Fatalf("GERARDO should be empty, got %v", got["GERARDO"])
	}
	for _, members := range got {
		for _, m := range members {
			if m == "Dr. C" {
				t.Fatal("non-rostered physician classified")
			}
		}
	}
}

func TestCategoryMetricsAveragesOverRosterSize(t *testing.T) {
	r := testRoster(t)
	store := referral.FromRecords([]referral.Record{
		// Dr. A (ALEX) does 3 procedures; Dr. D (ALEX) is inactive.
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 4), Procedure: "CT", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 5), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 8), Procedure: "MRI", Physician: "Dr. B", Payer: "Beta"},
		// Outside the period.
		{Date: day(2024, time.February, 1), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
	})
	jan, _ := referral.ParsePeriod("2024-01")
	summaries := CategoryMetrics(store, r, jan, true)
	if len(summaries) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(summaries))
	}
	byCat := make(map[string]CategorySummary, len(summaries))
	for _, s := range summaries {
		byCat[s.Category] = s
	}
	alex := byCat["ALEX"]
	if alex.Procedures != 3 || alex.ActivePhysicians != 1 || alex.RosterSize != 2 {
		t.Fatalf("unexpected ALEX summary: %+v", alex)
	}
	// Inactive rostered members dilute the average: 3 procedures / 2 rostered.
	if alex.AvgPerPhysician != 1.5 {
		t.Fatalf("expected avg 1.5, got %v", alex.AvgPerPhysician)
	}
	gerardo := byCat["GERARDO"]
	if gerardo.Procedures != 0 || gerardo.ActivePhysicians != 0 || gerardo.AvgPerPhysician != 0 {
		t.Fatalf("unexpected GERARDO summary: %+v", gerardo)
	}
}

func TestCategoryMetricsWorkingDayScope(t *testing.T) {
	r := testRoster(t)
	store := referral.FromRecords([]referral.Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"}, // Wed
		{Date: day(2024, time.January, 6), Procedure: "CT", Physician: "Dr. A", Payer: "Acme"},  // Sat
	})
	jan, _ := referral.ParsePeriod("2024-01")
	withWeekends := CategoryMetrics(store, r, jan, false)
	weekdaysOnly := CategoryMetrics(store, r, jan, true)
	find := func(ss []CategorySummary) int {
		for _, s := range ss {
			if s.Category == "ALEX" {
				return s.Procedures
			}
		}
		return -1
	}
	if find(withWeekends) != 2 || find(weekdaysOnly) != 1 {
		t.Fatalf("working-day scoping broken: %d vs %d", find(withWeekends), find(weekdaysOnly))
	}
}

func TestCategoryDeltas(t *testing.T) {
	r := testRoster(t)
	store := referral.FromRecords([]referral.Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 4), Procedure: "CT", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.February, 5), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.February, 6), Procedure: "MRI", Physician: "Dr. B", Payer: "Beta"},
	})
	jan, _ := referral.ParsePeriod("2024-01")
	feb, _ := referral.ParsePeriod("2024-02")
	rows := CategoryDeltas(store, r, jan, feb, true)
	if len(rows) != 3 {
		t.Fatalf("expected one delta row per category, got %d", len(rows))
	}
	// Sorted by category ascending.
	if rows[0].Entity != "ALEX" || rows[1].Entity != "GERARDO" || rows[2].Entity != "LUIS" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	alex := rows[0]
	if alex.Base != 2 || alex.Current != 1 || alex.Delta != -1 {
		t.Fatalf("unexpected ALEX delta: %+v", alex)
	}
	luis := rows[2]
	if luis.Base != 0 || luis.Current != 1 || luis.Percent.Valid() {
		t.Fatalf("zero-base category must have n/a percent: %+v", luis)
	}
}
