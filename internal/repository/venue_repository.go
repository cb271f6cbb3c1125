package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/campusconnect/venue-booking/internal/model"
)

// VenueRepo manages persistence for the venue catalog.  The available
// flag is the single shared mutable field contended between the event
// scheduler and the lifecycle sweeper, so all writes to it go through
// this repository where they can be serialized per venue row.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *VenueRepo) DB() *sql.DB { return r.db }

const venueCols = `id, name, capacity, available, created_at, updated_at`

func scanVenue(row *sql.Row) (*model.Venue, error) {
	var v model.Venue
	err := row.Scan(&v.ID, &v.Name, &v.Capacity, &v.Available, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// Create inserts a new venue into the catalog and assigns the generated
// ID back to the struct.  New venues are available by default.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const q = `INSERT INTO venues (name, capacity) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Name, v.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	// Query the inserted row to obtain DB defaults (available, timestamps).
	const sel = `SELECT ` + venueCols + ` FROM venues WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, v.ID).Scan(
		&v.ID, &v.Name, &v.Capacity, &v.Available, &v.CreatedAt, &v.UpdatedAt,
	)
}

// GetByID retrieves a venue by its ID.  It returns ErrVenueNotFound if
// there is no matching row.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueCols + ` FROM venues WHERE id = ?`
	return scanVenue(r.db.QueryRowContext(ctx, q, id))
}

// ListAvailable returns all venues whose available flag is set, ordered
// by capacity ascending so clients see the tightest fits first.  When
// no venues are available it returns an empty slice and nil error.
func (r *VenueRepo) ListAvailable(ctx context.Context) ([]model.Venue, error) {
	const q = `SELECT ` + venueCols + ` FROM venues WHERE available = 1 ORDER BY capacity ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]model.Venue, 0)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Capacity, &v.Available, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return venues, nil
}

// GetByIDForUpdateTx loads a venue within the caller's transaction while
// taking a row lock (SELECT ... FOR UPDATE).  The scheduler uses this to
// serialize the conflict check and the booking write against concurrent
// requests targeting the same venue.
func (r *VenueRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Venue, error) {
	const q = `SELECT ` + venueCols + ` FROM venues WHERE id = ? FOR UPDATE`
	return scanVenue(tx.QueryRowContext(ctx, q, id))
}

// BestAvailable selects the available venue with the smallest capacity
// that still satisfies the required capacity (tightest fit, so large
// venues are not wasted on small events).  ErrNoVenueAvailable is
// returned when no venue qualifies.
func (r *VenueRepo) BestAvailable(ctx context.Context, requiredCapacity uint32) (*model.Venue, error) {
	const q = `SELECT ` + venueCols + ` FROM venues
               WHERE available = 1 AND capacity >= ?
               ORDER BY capacity ASC, id ASC
               LIMIT 1`
	v, err := scanVenue(r.db.QueryRowContext(ctx, q, requiredCapacity))
	if errors.Is(err, ErrVenueNotFound) {
		return nil, ErrNoVenueAvailable
	}
	return v, err
}

// SetAvailabilityTx updates the available flag within the caller's
// transaction.  The update is idempotent: setting a flag to its current
// value affects zero rows and is not an error.
func (r *VenueRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, available bool) error {
	const q = `UPDATE venues SET available = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, available, id)
	return err
}

// ReleaseIfUnbooked flips a venue back to available, but only when no
// Scheduled event other than the one being reconciled still references
// it.  The sweeper calls this before marking an event Ended so that a
// venue held by another Scheduled booking stays unavailable.  The
// update is idempotent and safe to retry.
func (r *VenueRepo) ReleaseIfUnbooked(ctx context.Context, venueID, excludeEventID uint64) error {
	const q = `UPDATE venues v
               SET v.available = 1
               WHERE v.id = ?
                 AND NOT EXISTS (
                     SELECT 1 FROM events e
                     WHERE e.venue_id = v.id
                       AND e.status = 'Scheduled'
                       AND e.id <> ?
                 )`
	_, err := r.db.ExecContext(ctx, q, venueID, excludeEventID)
	return err
}
