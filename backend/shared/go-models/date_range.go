package models

import (
	"errors"
	"time"
)

var ErrInvalidDateRange = errors.New("check-out must be after check-in")

// DateRange is the half-open interval [Start, End). A nil End extends to
// infinity, which is how open-ended PG leases and bookings are stored.
type DateRange struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// NewDateRange rejects ranges whose end is not strictly after the start.
func NewDateRange(start time.Time, end *time.Time) (DateRange, error) {
	if end != nil && !end.After(start) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps reports whether r = [A,B) and o = [C,D) intersect, i.e.
// C < B && D > A. Ranges that only touch do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	startsBeforeEnd := r.End == nil || o.Start.Before(*r.End)
	endsAfterStart := o.End == nil || o.End.After(r.Start)
	return startsBeforeEnd && endsAfterStart
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && (r.End == nil || t.Before(*r.End))
}

func (r DateRange) OpenEnded() bool { return r.End == nil }
