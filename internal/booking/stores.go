package booking

import (
	"context"
	"time"

	"github.com/campusconnect/venue-booking/internal/model"
)

// VenueStore is the venue registry surface the booking core consumes.
// The repository package provides the MySQL implementation; tests use
// in-memory fakes.
type VenueStore interface {
	// GetByID returns the venue or repository.ErrVenueNotFound.
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
	// BestAvailable selects, among available venues with capacity >=
	// requiredCapacity, the one with the smallest capacity (tightest
	// fit).  Returns repository.ErrNoVenueAvailable when none qualifies.
	BestAvailable(ctx context.Context, requiredCapacity uint32) (*model.Venue, error)
	// ReleaseIfUnbooked flips a venue back to available unless another
	// Scheduled event (excluding excludeEventID) still references it.
	// Idempotent.
	ReleaseIfUnbooked(ctx context.Context, venueID, excludeEventID uint64) error
}

// EventStore is the event persistence surface consumed by the conflict
// checker, the sweeper and the reminder dispatcher.
type EventStore interface {
	// FindOverlapping returns Scheduled events at the venue whose
	// [starts_at, ends_at) interval overlaps [start, end).
	FindOverlapping(ctx context.Context, venueID uint64, start, end time.Time) ([]model.Event, error)
	// ListElapsedUnprocessed returns Scheduled, unprocessed events whose
	// end time lies strictly before now.
	ListElapsedUnprocessed(ctx context.Context, now time.Time) ([]model.Event, error)
	// ListScheduledOnDate returns Scheduled events on a calendar day
	// ("2006-01-02").
	ListScheduledOnDate(ctx context.Context, date string) ([]model.Event, error)
	// MarkEnded transitions an event to Ended with processed set.  It is
	// a no-op on an already-Ended event.
	MarkEnded(ctx context.Context, id uint64) error
}

// Booker commits a booking atomically: persist the Scheduled event and
// mark its venue unavailable, or do neither.  Implementations must
// re-check for overlapping Scheduled events on the target venue under
// whatever serialization they provide and return
// repository.ErrBookingConflict when the re-check fails, so two racing
// requests can never both commit.
type Booker interface {
	Book(ctx context.Context, e *model.Event) error
}
