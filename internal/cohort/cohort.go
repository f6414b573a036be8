// Package cohort partitions the physician dimension by an external roster
// that assigns each physician to at most one named category.
package cohort

import (
	"sort"
	"strings"

	"github.com/medward/refdash-cli/internal/compare"
	"github.com/medward/refdash-cli/internal/referral"
)

// Roster is the physician-to-category assignment table. The category set is
// discovered from the roster data itself, not from a fixed list. Assignments
// are many-to-one: a physician listed more than once keeps its first category.
type Roster struct {
	assignments map[string]string
	categories  []string
}

// LoadRoster resolves the physician-name and responsible-person columns from
// the alias lists (first match wins) and builds the roster. A missing column
// fails the whole load with a *referral.ConfigurationError; there is no
// partial classification.
func LoadRoster(source string, header []string, rows [][]string, nameAliases, responsibleAliases []string) (*Roster, error) {
	nameIdx := referral.ResolveColumn(header, nameAliases)
	if nameIdx < 0 {
		return nil, &referral.ConfigurationError{Source: source, Column: "physician name", Aliases: nameAliases}
	}
	respIdx := referral.ResolveColumn(header, responsibleAliases)
	if respIdx < 0 {
		return nil, &referral.ConfigurationError{Source: source, Column: "responsible person", Aliases: responsibleAliases}
	}
	r := &Roster{assignments: make(map[string]string)}
	seen := make(map[string]struct{})
	for _, row := range rows {
		if nameIdx >= len(row) || respIdx >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameIdx])
		category := strings.TrimSpace(row[respIdx])
		if name == "" || category == "" {
			continue
		}
		if _, dup := r.assignments[name]; dup {
			continue
		}
		r.assignments[name] = category
		if _, ok := seen[category]; !ok {
			seen[category] = struct{}{}
			r.categories = append(r.categories, category)
		}
	}
	sort.Strings(r.categories)
	return r, nil
}

// Categories returns the discovered category labels, sorted.
func (r *Roster) Categories() []string { return r.categories }

// Category returns the category a physician is assigned to, if any.
func (r *Roster) Category(physician string) (string, bool) {
	c, ok := r.assignments[physician]
	return c, ok
}

// Size returns the roster-declared cohort size for a category.
func (r *Roster) Size(category string) int {
	n := 0
	for _, c := range r.assignments {
		if c == category {
			n++
		}
	}
	return n
}

// Members returns the rostered physicians of a category, sorted.
func (r *Roster) Members(category string) []string {
	var out []string
	for p, c := range r.assignments {
		if c == category {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Classify maps each category to the subset of the given physicians assigned
// to it. Every roster category appears in the result, possibly empty;
// physicians absent from the roster appear in no category.
func (r *Roster) Classify(physicians []string) map[string][]string {
	out := make(map[string][]string, len(r.categories))
	for _, c := range r.categories {
		out[c] = []string{}
	}
	seen := make(map[string]struct{}, len(physicians))
	for _, p := range physicians {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if c, ok := r.assignments[p]; ok {
			out[c] = append(out[c], p)
		}
	}
	for _, members := range out {
		sort.Strings(members)
	}
	return out
}

// CategorySummary is the per-category activity summary for one period.
// AvgPerPhysician divides by the roster-declared cohort size, not the active
// count: the figure reports how productive the whole team is, so inactive
// members dilute it.
type CategorySummary struct {
	Category         string  `json:"category"`
	RosterSize       int     `json:"roster_size"`
	Procedures       int     `json:"procedures"`
	ActivePhysicians int     `json:"active_physicians"`
	AvgPerPhysician  float64 `json:"avg_per_physician"`
}

// CategoryMetrics restricts the store to each category's rostered physicians
// within the period and summarizes activity per category, sorted by label.
func CategoryMetrics(store *referral.Store, roster *Roster, period referral.Period, workingDaysOnly bool) []CategorySummary {
	out := make([]CategorySummary, 0, len(roster.categories))
	for _, category := range roster.categories {
		members := roster.Members(category)
		v := categoryView(store, members, period, workingDaysOnly)
		active := make(map[string]struct{})
		for _, rec := range v.Records() {
			active[rec.Physician] = struct{}{}
		}
		s := CategorySummary{
			Category:         category,
			RosterSize:       len(members),
			Procedures:       v.Len(),
			ActivePhysicians: len(active),
		}
		if s.RosterSize > 0 {
			s.AvgPerPhysician = float64(s.Procedures) / float64(s.RosterSize)
		}
		out = append(out, s)
	}
	return out
}

// CategoryDeltas compares per-category procedure counts between two periods,
// one delta row per category with the usual zero-fill policy.
func CategoryDeltas(store *referral.Store, roster *Roster, base, current referral.Period, workingDaysOnly bool) []compare.DeltaRow {
	baseCounts := make(map[string]int, len(roster.categories))
	currentCounts := make(map[string]int, len(roster.categories))
	for _, category := range roster.categories {
		members := roster.Members(category)
		baseCounts[category] = categoryView(store, members, base, workingDaysOnly).Len()
		currentCounts[category] = categoryView(store, members, current, workingDaysOnly).Len()
	}
	return compare.FromCounts(baseCounts, currentCounts)
}

func categoryView(store *referral.Store, members []string, period referral.Period, workingDaysOnly bool) *referral.View {
	preds := []referral.Predicate{referral.ByAnyPhysician(members)}
	if !period.IsZero() {
		preds = append(preds, referral.InPeriod(period))
	}
	if workingDaysOnly {
		preds = append(preds, referral.WorkingDaysOnly())
	}
	return store.Filter(preds...)
}
