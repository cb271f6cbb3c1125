// Package repository contains data access logic for booking domain
// operations.  This file covers events: persistence of Scheduled
// bookings, overlap queries for the conflict checker, and the
// selection/transition queries used by the lifecycle sweeper.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/campusconnect/venue-booking/internal/model"
)

// dateFmt is the wire and storage format for calendar days.
const dateFmt = "2006-01-02"

// EventRepo manages persistence for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning the event and venue repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventCols = `id, creator_id, title, description, required_capacity, venue_id,
                   event_date, starts_at, ends_at, status, processed, created_at, updated_at`

func scanEvent(scan func(dest ...any) error) (*model.Event, error) {
	var (
		e         model.Event
		desc      sql.NullString
		venueID   sql.NullInt64
		eventDate time.Time
	)
	err := scan(
		&e.ID, &e.CreatorID, &e.Title, &desc, &e.RequiredCapacity, &venueID,
		&eventDate, &e.StartsAt, &e.EndsAt, &e.Status, &e.Processed, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d := desc.String
		e.Description = &d
	}
	if venueID.Valid {
		vid := uint64(venueID.Int64)
		e.VenueID = &vid
	}
	e.EventDate = eventDate.UTC().Format(dateFmt)
	return &e, nil
}

// CreateTx inserts a new Scheduled event using the provided transaction.
// The caller must commit or roll back.  On success the generated ID and
// DB-default fields (status, processed, timestamps) are populated on the
// given Event.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO events
               (creator_id, title, description, required_capacity, venue_id, event_date, starts_at, ends_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		e.CreatorID, e.Title, e.Description, e.RequiredCapacity, e.VenueID,
		e.EventDate, e.StartsAt.UTC(), e.EndsAt.UTC(),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	// Query the inserted row to populate defaults assigned by the DB.
	const sel = `SELECT ` + eventCols + ` FROM events WHERE id = ?`
	fresh, err := scanEvent(tx.QueryRowContext(ctx, sel, e.ID).Scan)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

// GetByID retrieves an event by its ID.  It returns ErrEventNotFound if
// there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = ?`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// FindOverlappingTx finds Scheduled events at the given venue whose
// interval overlaps [start, end) using half-open semantics: an event
// ending exactly when another starts does not overlap.  Ended events
// have vacated their venue and are never returned.  The query runs in
// the caller's transaction so it observes rows consistently with the
// venue row lock taken by the scheduler.
func (r *EventRepo) FindOverlappingTx(ctx context.Context, tx *sql.Tx, venueID uint64, start, end time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events
               WHERE venue_id = ? AND status = 'Scheduled'
                 AND NOT (ends_at <= ? OR starts_at >= ?)`
	return r.queryEvents(ctx, tx, q, venueID, start.UTC(), end.UTC())
}

// FindOverlapping is the non-transactional variant of FindOverlappingTx,
// used for read-only conflict probes outside a booking attempt.
func (r *EventRepo) FindOverlapping(ctx context.Context, venueID uint64, start, end time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events
               WHERE venue_id = ? AND status = 'Scheduled'
                 AND NOT (ends_at <= ? OR starts_at >= ?)`
	return r.queryEvents(ctx, r.db, q, venueID, start.UTC(), end.UTC())
}

// ListBookings returns the start/end pairs of Scheduled events at a venue
// on a calendar day, ordered by start time.  Clients use this to render
// busy slots before submitting a booking.
func (r *EventRepo) ListBookings(ctx context.Context, venueID uint64, date string) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events
               WHERE venue_id = ? AND status = 'Scheduled' AND event_date = ?
               ORDER BY starts_at ASC`
	return r.queryEvents(ctx, r.db, q, venueID, date)
}

// ListElapsedUnprocessed selects the events the sweeper must reconcile:
// still Scheduled, not yet processed, and ended strictly before now.
// Events already marked processed are excluded, which is what makes a
// repeated sweep idempotent.
func (r *EventRepo) ListElapsedUnprocessed(ctx context.Context, now time.Time) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events
               WHERE status = 'Scheduled' AND processed = 0 AND ends_at < ?
               ORDER BY ends_at ASC`
	return r.queryEvents(ctx, r.db, q, now.UTC())
}

// ListScheduledOnDate returns all Scheduled events taking place on the
// given calendar day.  The reminder dispatcher uses this to fan out
// day-of notifications.
func (r *EventRepo) ListScheduledOnDate(ctx context.Context, date string) ([]model.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events
               WHERE status = 'Scheduled' AND event_date = ?
               ORDER BY starts_at ASC`
	return r.queryEvents(ctx, r.db, q, date)
}

// MarkEnded transitions an event to its terminal state: status Ended and
// processed set.  The WHERE clause keeps the transition one-way, so
// re-running it on an already-Ended event affects zero rows and is not
// an error.
func (r *EventRepo) MarkEnded(ctx context.Context, id uint64) error {
	const q = `UPDATE events SET status = 'Ended', processed = 1
               WHERE id = ? AND status = 'Scheduled'`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (r *EventRepo) queryEvents(ctx context.Context, qr querier, q string, args ...any) ([]model.Event, error) {
	rows, err := qr.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
