package compare

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/referral"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPercentChange(t *testing.T) {
	if p := PercentChange(0, 5); p.Valid() {
		t.Fatalf("zero base must be n/a, got %s", p)
	}
	if p := PercentChange(4, 4); !p.Valid() || p.Value() != 0 {
		t.Fatalf("no change should be valid zero, got %s", p)
	}
	if p := PercentChange(2, 1); !p.Valid() || p.Value() != -50 {
		t.Fatalf("expected -50%%, got %s", p)
	}
	if got := PercentChange(2, 3).String(); got != "+50.00%" {
		t.Fatalf("unexpected rendering: %q", got)
	}
	if got := NotApplicable().String(); got != "n/a" {
		t.Fatalf("unexpected n/a rendering: %q", got)
	}
}

func TestPercentJSONNullWhenInvalid(t *testing.T) {
	row := newDeltaRow("X", 0, 3)
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["percent_delta"] != nil {
		t.Fatalf("expected null percent_delta, got %v", decoded["percent_delta"])
	}
}

func TestEntitiesZeroFill(t *testing.T) {
	base := referral.FromRecords([]referral.Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 4), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 5), Procedure: "CT", Physician: "Dr. B", Payer: "Acme"},
	}).All()
	current := referral.FromRecords([]referral.Record{
		{Date: day(2024, time.February, 5), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.February, 6), Procedure: "CT", Physician: "Dr. C", Payer: "Acme"},
	}).All()

	rows := Entities(base, current, aggregate.FieldPhysician)
	if len(rows) != 3 {
		t.Fatalf("expected full outer join over 3 physicians, got %d", len(rows))
	}
	// Sorted by entity ascending.
	if rows[0].Entity != "Dr. A" || rows[1].Entity != "Dr. B" || rows[2].Entity != "Dr. C" {
		t.Fatalf("unexpected order: %+v", rows)
	}
	a := rows[0]
	if a.Base != 2 || a.Current != 1 || a.Delta != -1 {
		t.Fatalf("unexpected Dr. A delta: %+v", a)
	}
	if !a.Percent.Valid() || a.Percent.Value() != -50 {
		t.Fatalf("expected -50%% for Dr. A, got %s", a.Percent)
	}
	b := rows[1]
	if b.Base != 1 || b.Current != 0 || b.Delta != -1 || !b.Percent.Valid() || b.Percent.Value() != -100 {
		t.Fatalf("unexpected Dr. B delta: %+v", b)
	}
	c := rows[2]
	if c.Base != 0 || c.Current != 1 || c.Delta != 1 || c.Percent.Valid() {
		t.Fatalf("new entity must have n/a percent: %+v", c)
	}
}

func TestTopGainersAndLosers(t *testing.T) {
	rows := []DeltaRow{
		newDeltaRow("A", 1, 5), // +4
		newDeltaRow("B", 5, 1), // -4
		newDeltaRow("C", 2, 2), // 0
		newDeltaRow("D", 0, 4), // +4, ties with A
	}
	gainers := TopGainers(rows, 2)
	if gainers[0].Entity != "A" || gainers[1].Entity != "D" {
		t.Fatalf("unexpected gainers: %+v", gainers)
	}
	losers := TopLosers(rows, 1)
	if len(losers) != 1 || losers[0].Entity != "B" {
		t.Fatalf("unexpected losers: %+v", losers)
	}
	// Input order must be preserved (ranking works on a copy).
	if rows[0].Entity != "A" || rows[3].Entity != "D" {
		t.Fatalf("input mutated: %+v", rows)
	}
	if got := TopGainers(rows, 0); got != nil {
		t.Fatalf("n=0 should yield nil, got %v", got)
	}
}

func TestSummaryMetrics(t *testing.T) {
	base := referral.FromRecords([]referral.Record{
		{Date: day(2024, time.January, 3), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
		{Date: day(2024, time.January, 4), Procedure: "CT", Physician: "Dr. B", Payer: "Beta"},
	}).All()
	current := referral.FromRecords([]referral.Record{
		{Date: day(2024, time.February, 5), Procedure: "MRI", Physician: "Dr. A", Payer: "Acme"},
	}).All()

	metrics := Summary(base, current)
	if len(metrics) != 4 {
		t.Fatalf("expected 4 summary metrics, got %d", len(metrics))
	}
	byName := make(map[string]MetricDelta, len(metrics))
	for _, m := range metrics {
		byName[m.Metric] = m
	}
	total := byName["total procedures"]
	if total.Base != 2 || total.Current != 1 || total.Delta != -1 {
		t.Fatalf("unexpected total metric: %+v", total)
	}
	phys := byName["distinct physicians"]
	if phys.Base != 2 || phys.Current != 1 {
		t.Fatalf("unexpected physicians metric: %+v", phys)
	}
}
