package aggregate

import (
	"fmt"
	"strings"
	"time"

	"github.com/ukydev/fleet-insights/internal/fleet"
)

// Range is an inclusive date window. Either bound may be absent.
type Range struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// NewRange builds a range from optional bounds.
func NewRange(start, end *time.Time) Range {
	return Range{Start: start, End: end}
}

// Open reports whether at least one bound is missing. Open ranges do not filter.
func (r Range) Open() bool {
	return r.Start == nil || r.End == nil
}

// Validate returns ErrInvalidRange when End precedes Start.
func (r Range) Validate() error {
	if r.Open() || !r.End.Before(*r.Start) {
		return nil
	}
	return fmt.Errorf("%w: %s is before %s", fleet.ErrInvalidRange,
		r.End.Format(time.DateOnly), r.Start.Format(time.DateOnly))
}

// Contains reports whether t falls inside the range, bounds included.
func (r Range) Contains(t time.Time) bool {
	if r.Open() {
		return true
	}
	return !t.Before(*r.Start) && !t.After(*r.End)
}

// FilterByDateRange keeps the records whose date falls inside r. An open
// range returns records as given; an inverted range returns nothing.
func FilterByDateRange[T any](records []T, r Range, dateFn func(T) time.Time) []T {
	if r.Open() {
		return records
	}
	out := make([]T, 0, len(records))
	if r.Validate() != nil {
		return out
	}
	for _, rec := range records {
		if r.Contains(dateFn(rec)) {
			out = append(out, rec)
		}
	}
	return out
}

// MonthKey is a calendar month, independent of locale.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month of t in t's own location.
func MonthOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String renders the key as YYYY-MON, e.g. 2024-JAN.
func (m MonthKey) String() string {
	return fmt.Sprintf("%04d-%s", m.Year, strings.ToUpper(m.Month.String()[:3]))
}

// MarshalText lets month keys serve as JSON object keys and values.
func (m MonthKey) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
