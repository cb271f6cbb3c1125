package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/campusconnect/venue-booking/internal/model"
)

// BookingStore implements booking.Booker over MySQL.  It owns the one
// transaction in the scheduling path: lock the venue row, re-check for
// overlapping Scheduled events under that lock, insert the event and
// flip the venue unavailable.  Either all of it commits or none does,
// so a half-booked state (event without the venue flip, or vice versa)
// can never be observed, even if the caller disconnects mid-request.
type BookingStore struct {
	db     *sql.DB
	venues *VenueRepo
	events *EventRepo
}

// NewBookingStore composes the venue and event repositories into an
// atomic booking writer.
func NewBookingStore(db *sql.DB, venues *VenueRepo, events *EventRepo) *BookingStore {
	return &BookingStore{db: db, venues: venues, events: events}
}

// Book commits the event and the venue availability flip atomically.
// It returns ErrBookingConflict when an overlapping Scheduled event is
// found under the venue row lock.
func (s *BookingStore) Book(ctx context.Context, e *model.Event) (err error) {
	if e.VenueID == nil {
		return fmt.Errorf("book: event has no venue assigned")
	}
	venueID := *e.VenueID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	// Row lock on the venue serializes racing bookings across processes.
	if _, err = s.venues.GetByIDForUpdateTx(ctx, tx, venueID); err != nil {
		return err
	}

	overlaps, err := s.events.FindOverlappingTx(ctx, tx, venueID, e.StartsAt, e.EndsAt)
	if err != nil {
		return err
	}
	if len(overlaps) > 0 {
		err = ErrBookingConflict
		return err
	}

	if err = s.events.CreateTx(ctx, tx, e); err != nil {
		return err
	}
	err = s.venues.SetAvailabilityTx(ctx, tx, venueID, false)
	return err
}
