// Package compare computes period-over-period and cohort-over-cohort deltas.
// The first view supplied to any comparison is the "base" side and the second
// the "current" side; delta signs follow that order regardless of chronology.
package compare

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/medward/refdash-cli/internal/aggregate"
	"github.com/medward/refdash-cli/internal/referral"
)

// Percent is a percentage change that may be not-applicable. A zero base
// count has no defined percentage change; that case is carried explicitly
// rather than as a sentinel number so downstream rendering can never mistake
// it for a real value.
type Percent struct {
	value float64
	valid bool
}

// PercentOf wraps a computed percentage.
func PercentOf(v float64) Percent { return Percent{value: v, valid: true} }

// NotApplicable is the Percent for an undefined change.
func NotApplicable() Percent { return Percent{} }

// Valid reports whether the percentage is defined.
func (p Percent) Valid() bool { return p.valid }

// Value returns the percentage; only meaningful when Valid.
func (p Percent) Value() float64 { return p.value }

func (p Percent) String() string {
	if !p.valid {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", p.value)
}

// MarshalJSON emits the percentage as a number, or null when not applicable.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.value)
}

// PercentChange computes (current-base)/base*100, or NotApplicable exactly
// when base is zero. Pure; usable for any two scalar counts.
func PercentChange(base, current int) Percent {
	if base == 0 {
		return NotApplicable()
	}
	return PercentOf(float64(current-base) / float64(base) * 100)
}

// DeltaRow pairs one entity's base and current counts with the derived
// differences.
type DeltaRow struct {
	Entity  string  `json:"entity"`
	Base    int     `json:"base_count"`
	Current int     `json:"current_count"`
	Delta   int     `json:"absolute_delta"`
	Percent Percent `json:"percent_delta"`
}

// Entities full-outer-joins the two views on the given field's values and
// returns one DeltaRow per entity present in at least one side. An entity
// missing from a side counts zero there, never an absent value. Rows are
// sorted by entity ascending.
func Entities(base, current *referral.View, field aggregate.Field) []DeltaRow {
	baseCounts := make(map[string]int)
	for _, row := range aggregate.CountBy(base, field) {
		baseCounts[row.Key.Label(field)] = row.Count
	}
	currentCounts := make(map[string]int)
	for _, row := range aggregate.CountBy(current, field) {
		currentCounts[row.Key.Label(field)] = row.Count
	}
	return FromCounts(baseCounts, currentCounts)
}

// FromCounts joins two already-aggregated count maps into delta rows with the
// same zero-fill and ordering policy as Entities.
func FromCounts(baseCounts, currentCounts map[string]int) []DeltaRow {
	entities := make(map[string]struct{}, len(baseCounts)+len(currentCounts))
	for e := range baseCounts {
		entities[e] = struct{}{}
	}
	for e := range currentCounts {
		entities[e] = struct{}{}
	}
	out := make([]DeltaRow, 0, len(entities))
	for e := range entities {
		out = append(out, newDeltaRow(e, baseCounts[e], currentCounts[e]))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entity < out[j].Entity })
	return out
}

func newDeltaRow(entity string, base, current int) DeltaRow {
	return DeltaRow{
		Entity:  entity,
		Base:    base,
		Current: current,
		Delta:   current - base,
		Percent: PercentChange(base, current),
	}
}

// TopGainers returns the n rows with the largest absolute delta, descending.
// Ties break by entity ascending, the same policy as aggregate.TopN.
func TopGainers(rows []DeltaRow, n int) []DeltaRow {
	return topByDelta(rows, n, func(a, b DeltaRow) bool { return a.Delta > b.Delta })
}

// TopLosers returns the n rows with the smallest delta, ascending.
func TopLosers(rows []DeltaRow, n int) []DeltaRow {
	return topByDelta(rows, n, func(a, b DeltaRow) bool { return a.Delta < b.Delta })
}

func topByDelta(rows []DeltaRow, n int, less func(a, b DeltaRow) bool) []DeltaRow {
	if n <= 0 {
		return nil
	}
	cp := make([]DeltaRow, len(rows))
	copy(cp, rows)
	sort.Slice(cp, func(i, j int) bool {
		if cp[i].Delta != cp[j].Delta {
			return less(cp[i], cp[j])
		}
		return cp[i].Entity < cp[j].Entity
	})
	if len(cp) > n {
		cp = cp[:n]
	}
	return cp
}

// MetricDelta is a DeltaRow for one named scalar summary metric.
type MetricDelta struct {
	Metric string `json:"metric"`
	DeltaRow
}

// Summary compares a fixed set of scalar metrics across the two views:
// total record count and distinct physicians, payers, and procedures.
func Summary(base, current *referral.View) []MetricDelta {
	metric := func(name string, b, c int) MetricDelta {
		return MetricDelta{Metric: name, DeltaRow: newDeltaRow(name, b, c)}
	}
	return []MetricDelta{
		metric("total procedures", base.Len(), current.Len()),
		metric("distinct physicians",
			aggregate.Distinct(base, aggregate.FieldPhysician),
			aggregate.Distinct(current, aggregate.FieldPhysician)),
		metric("distinct payers",
			aggregate.Distinct(base, aggregate.FieldPayer),
			aggregate.Distinct(current, aggregate.FieldPayer)),
		metric("distinct procedures",
			aggregate.Distinct(base, aggregate.FieldProcedure),
			aggregate.Distinct(current, aggregate.FieldProcedure)),
	}
}
