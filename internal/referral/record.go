package referral

import (
	"fmt"
	"time"
)

// Record is one referral event: a procedure performed on a date, attributed
// to a referring physician and a payer.
type Record struct {
	Date      time.Time
	Procedure string
	Physician string
	Payer     string
}

// Period returns the calendar month the record falls in.
func (r Record) Period() Period {
	return PeriodOf(r.Date)
}

// WorkingDay reports whether the record's date is a Monday-Friday.
func (r Record) WorkingDay() bool {
	wd := r.Date.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// key identifies an exact-duplicate row for merge de-duplication.
func (r Record) key() string {
	return r.Date.Format("2006-01-02") + "\x00" + r.Procedure + "\x00" + r.Physician + "\x00" + r.Payer
}

// Period is a calendar month, the time-bucket key for all monthly aggregates.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf truncates a date to year-month granularity.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses the canonical "2006-01" form.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q (want YYYY-MM): %w", s, err)
	}
	return PeriodOf(t), nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Before reports whether p is chronologically earlier than q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}
