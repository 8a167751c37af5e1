// Package booking holds the date-range rules that decide whether two painting
// assignments collide.
package booking

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for persistence and transport.
const DateLayout = "2006-01-02"

// ErrInvertedPeriod is returned when a period ends before it starts.
var ErrInvertedPeriod = errors.New("booking: period ends before it starts")

// Period is a closed range of calendar days. Both bounds are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod normalises both bounds to calendar days and rejects inverted ranges.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: Day(start), End: Day(end)}
	if p.End.Before(p.Start) {
		return Period{}, fmt.Errorf("%w: %s > %s", ErrInvertedPeriod, p.Start.Format(DateLayout), p.End.Format(DateLayout))
	}
	return p, nil
}

// MustPeriod is NewPeriod for literals known to be valid. It panics otherwise.
func MustPeriod(start, end time.Time) Period {
	p, err := NewPeriod(start, end)
	if err != nil {
		panic(err)
	}
	return p
}

// ParsePeriod parses two YYYY-MM-DD dates into a period.
func ParsePeriod(start, end string) (Period, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Period{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Period{}, err
	}
	return NewPeriod(s, e)
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("booking: invalid date %q: %w", value, err)
	}
	return t, nil
}

// Day truncates t to its calendar day, keeping the wall-clock date of t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether p and other share at least one day.
// Ranges that only touch at a boundary day overlap.
func (p Period) Overlaps(other Period) bool {
	return !(p.End.Before(other.Start) || other.End.Before(p.Start))
}

// Contains reports whether the day of t falls inside p.
func (p Period) Contains(t time.Time) bool {
	day := Day(t)
	return !day.Before(p.Start) && !day.After(p.End)
}

// Days returns the number of calendar days covered by p.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Equal reports whether both bounds match.
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

func (p Period) String() string {
	return p.Start.Format(DateLayout) + ".." + p.End.Format(DateLayout)
}
