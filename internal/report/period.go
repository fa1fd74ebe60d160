package report

import (
	"fmt"
	"time"
)

// MinYear is the earliest year a salary report can cover.
const MinYear = 2000

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange strips time of day from both bounds and rejects start > end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: calendarDate(start), End: calendarDate(end)}
	if r.Start.After(r.End) {
		return DateRange{}, fmt.Errorf("%w: start date %s is after end date %s",
			ErrInvalidRange, r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	return r, nil
}

// Contains reports whether t's calendar date lies within the range.
func (r DateRange) Contains(t time.Time) bool {
	d := calendarDate(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// SalaryPeriod is one calendar month.
type SalaryPeriod struct {
	Month time.Month
	Year  int
}

// NewSalaryPeriod validates month in [1,12] and year in [MinYear, now.Year()].
func NewSalaryPeriod(month, year int, now time.Time) (SalaryPeriod, error) {
	if month < 1 || month > 12 {
		return SalaryPeriod{}, fmt.Errorf("%w (got %d)", ErrInvalidMonth, month)
	}
	if year < MinYear || year > now.Year() {
		return SalaryPeriod{}, fmt.Errorf("%w: must be between %d and %d (got %d)",
			ErrInvalidYear, MinYear, now.Year(), year)
	}
	return SalaryPeriod{Month: time.Month(month), Year: year}, nil
}

func (p SalaryPeriod) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// calendarDate keeps the date as seen in t's own location and drops the clock.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
