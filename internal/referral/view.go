package referral

import "sort"

// Predicate selects records for a view.
type Predicate func(Record) bool

// InPeriod keeps records whose date falls in the given month.
func InPeriod(p Period) Predicate {
	return func(r Record) bool { return r.Period() == p }
}

// ByPhysician keeps records attributed to the named physician.
func ByPhysician(name string) Predicate {
	return func(r Record) bool { return r.Physician == name }
}

// ByProcedure keeps records for the named procedure category.
func ByProcedure(name string) Predicate {
	return func(r Record) bool { return r.Procedure == name }
}

// ByPayer keeps records billed to the named payer.
func ByPayer(name string) Predicate {
	return func(r Record) bool { return r.Payer == name }
}

// ByAnyPhysician keeps records attributed to any of the given physicians.
func ByAnyPhysician(names []string) Predicate {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(r Record) bool {
		_, ok := set[r.Physician]
		return ok
	}
}

// WorkingDaysOnly keeps Monday-Friday records.
func WorkingDaysOnly() Predicate {
	return func(r Record) bool { return r.WorkingDay() }
}

// View is a read-only projection of a store. Filtering never copies the
// underlying store and never mutates it; an empty view is a valid result,
// not an error.
type View struct {
	records []Record
}

// All returns a view over every record in the store.
func (s *Store) All() *View {
	return &View{records: s.records}
}

// Filter returns a view of the records matching every predicate.
func (s *Store) Filter(preds ...Predicate) *View {
	return s.All().Filter(preds...)
}

// Filter narrows a view further. Predicates compose with AND semantics.
func (v *View) Filter(preds ...Predicate) *View {
	if len(preds) == 0 {
		return v
	}
	out := make([]Record, 0, len(v.records))
outer:
	for _, r := range v.records {
		for _, p := range preds {
			if !p(r) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return &View{records: out}
}

// Len returns the number of records visible through the view.
func (v *View) Len() int { return len(v.records) }

// Records returns the view's rows. The slice is shared; callers must not
// mutate it.
func (v *View) Records() []Record { return v.records }

// Periods returns the distinct periods visible through the view, in
// chronological order.
func (v *View) Periods() []Period {
	seen := make(map[Period]struct{})
	var out []Period
	for _, r := range v.records {
		p := r.Period()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
