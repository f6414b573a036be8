package referral

import (
	"testing"
	"time"
)

func testStore() *Store {
	return FromRecords([]Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},   // Wed
		{Date: day(2024, time.January, 6), Procedure: "CT", Physician: "Dr. A", Payer: "Acme"},    // Sat
		{Date: day(2024, time.January, 10), Procedure: "MRI", Physician: "Dr. B", Payer: "Beta"},  // Wed
		{Date: day(2024, time.February, 5), Procedure: "XRAY", Physician: "Dr. A", Payer: "Acme"}, // Mon
	})
}

func TestFilterComposesWithAnd(t *testing.T) {
	s := testStore()
	jan, _ := ParsePeriod("2024-01")
	v := s.Filter(InPeriod(jan), ByPhysician("Dr. A"))
	if v.Len() != 2 {
		t.Fatalf("expected 2 records for Dr. A in January, got %d", v.Len())
	}
	// Narrowing an existing view applies the same AND semantics.
	v2 := v.Filter(ByProcedure("MRI"))
	if v2.Len() != 1 {
		t.Fatalf("expected 1 MRI record, got %d", v2.Len())
	}
}

func TestWorkingDaysOnlyExcludesWeekends(t *testing.T) {
	s := testStore()
	v := s.Filter(WorkingDaysOnly())
	if v.Len() != 3 {
		t.Fatalf("expected the Saturday record excluded, got %d records", v.Len())
	}
	for _, r := range v.Records() {
		if !r.WorkingDay() {
			t.Fatalf("weekend record leaked through: %v", r.Date)
		}
	}
}

func TestEmptyViewIsValid(t *testing.T) {
	s := testStore()
	v := s.Filter(ByPhysician("Dr. Nobody"))
	if v.Len() != 0 {
		t.Fatalf("expected empty view, got %d", v.Len())
	}
	if got := v.Periods(); len(got) != 0 {
		t.Fatalf("empty view should have no periods, got %v", got)
	}
}

func TestPeriodsChronological(t *testing.T) {
	s := FromRecords([]Record{
		{Date: day(2024, time.March, 1), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2023, time.December, 1), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.March, 15), Procedure: "CT", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 1), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
	})
	got := s.Periods()
	want := []string{"2023-12", "2024-01", "2024-03"}
	if len(got) != len(want) {
		t.Fatalf("expected %d periods, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.String() != want[i] {
			t.Fatalf("period %d = %s, want %s", i, p.String(), want[i])
		}
	}
}

func TestByAnyPhysician(t *testing.T) {
	s := testStore()
	v := s.Filter(ByAnyPhysician([]string{"Dr. A", "Dr. C"}))
	if v.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", v.Len())
	}
	if s.Filter(ByAnyPhysician(nil)).Len() != 0 {
		t.Fatal("empty name set should match nothing")
	}
}
