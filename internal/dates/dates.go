package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates. Zero-padded ISO dates sort
// lexicographically in chronological order, so Date values compare with <.
const Layout = "2006-01-02"

// Date is a calendar day with no time-of-day component, encoded as
// "YYYY-MM-DD".
type Date string

// Parse validates s against the ISO layout and returns it as a Date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	// Reject non-canonical encodings like "2025-1-2" that time.Parse accepts
	// after normalization.
	if t.Format(Layout) != s {
		return "", fmt.Errorf("invalid date %q: not in %s form", s, Layout)
	}
	return Date(s), nil
}

// FromTime converts a timestamp to the calendar day it falls on.
func FromTime(t time.Time) Date {
	return Date(t.Format(Layout))
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d < o }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d > o }

// Range is a closed calendar interval [Start, End].
type Range struct {
	Start Date
	End   Date
}

// NewRange parses both endpoints and rejects inverted intervals. Same-day
// ranges are valid.
func NewRange(start, end string) (Range, error) {
	s, err := Parse(start)
	if err != nil {
		return Range{}, err
	}
	e, err := Parse(end)
	if err != nil {
		return Range{}, err
	}
	if e.Before(s) {
		return Range{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return Range{Start: s, End: e}, nil
}

// Overlaps reports whether the two closed intervals share at least one day.
// A booking ending on day D overlaps another starting on day D.
func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

// Contains reports whether d falls within the closed interval.
func (r Range) Contains(d Date) bool {
	return r.Start <= d && d <= r.End
}
