package core

import (
	"fmt"
	"time"
)

// DefaultRangeDays is the span used when no better default is known.
const DefaultRangeDays = 30

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start Date
	End   Date
}

// Validate requires both bounds and start <= end.
func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrIncompleteRange
	}
	if r.Start.After(r.End.Time) {
		return fmt.Errorf("%w: %s > %s", ErrInvertedRange, r.Start, r.End)
	}
	return nil
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

func (r DateRange) Equal(o DateRange) bool {
	return r.Start.Equal(o.Start.Time) && r.End.Equal(o.End.Time)
}

func (r DateRange) String() string {
	return r.Start.String() + ".." + r.End.String()
}

// NewDateRange parses two YYYY-MM-DD strings into a validated range.
func NewDateRange(start, end string) (DateRange, error) {
	s, err := ParseDate(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start: %w", err)
	}
	e, err := ParseDate(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end: %w", err)
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// LastDays spans from days before now up to now.
func LastDays(now time.Time, days int) DateRange {
	end := DateOf(now)
	return DateRange{Start: end.AddDays(-days), End: end}
}

// PastYear spans the year ending today.
func PastYear(now time.Time) DateRange {
	end := DateOf(now)
	return DateRange{Start: Date{Time: end.AddDate(-1, 0, 0)}, End: end}
}

// MonthToDate spans from the first of the current month up to today.
func MonthToDate(now time.Time) DateRange {
	end := DateOf(now)
	return DateRange{Start: NewDate(end.Year(), int(end.Month()), 1), End: end}
}

// DefaultRange picks the initial filter range. Without meta it is the last
// DefaultRangeDays days; valid meta bounds replace the start and end. The
// start is clamped so it never passes the end.
func DefaultRange(now time.Time, meta Meta) DateRange {
	r := LastDays(now, DefaultRangeDays)
	if d, err := ParseDate(meta.OldestDate); err == nil {
		r.Start = d
	}
	if d, err := ParseDate(meta.NewestDate); err == nil {
		r.End = d
	}
	if r.Start.After(r.End.Time) {
		r.Start = r.End
	}
	return r
}
