package booking

import (
	"context"
	"time"
)

// ConflictChecker decides whether a requested interval collides with an
// existing Scheduled booking on a venue.  It is a pure read-side
// component with no side effects.
type ConflictChecker struct {
	events EventStore
}

// NewConflictChecker returns a checker backed by the given event store.
func NewConflictChecker(events EventStore) *ConflictChecker {
	return &ConflictChecker{events: events}
}

// HasConflict reports whether a Scheduled event on venueID overlaps
// [start, end).  Overlap uses half-open semantics: an event ending
// exactly at start, or starting exactly at end, does not conflict.
// Ended events never conflict even when their stored interval would
// overlap; they have already vacated the venue.
//
// Zero-length requests (start == end) can never conflict and must be
// rejected as invalid input before reaching this check.
func (c *ConflictChecker) HasConflict(ctx context.Context, venueID uint64, start, end time.Time) (bool, error) {
	overlaps, err := c.events.FindOverlapping(ctx, venueID, start, end)
	if err != nil {
		return false, err
	}
	return len(overlaps) > 0, nil
}
