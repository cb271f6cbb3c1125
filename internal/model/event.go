package model

import "time"

// Event lifecycle states.  An event is created Scheduled and is moved
// to Ended exactly once by the lifecycle sweeper after its end time
// has passed.  There are no other transitions.
const (
	EventStatusScheduled = "Scheduled"
	EventStatusEnded     = "Ended"
)

// Event is a time-boxed booking of a venue owned by a single user.
// While an event is Scheduled it holds its assigned venue: no other
// Scheduled event may occupy the same venue with an overlapping
// [StartsAt, EndsAt) interval.  Processed records whether the sweeper
// has reconciled the event; processed implies Ended.
//
// Fields:
//  ID               – primary key identifier.
//  CreatorID        – user who created the event.
//  Title            – event title.
//  Description      – optional free-form description.
//  RequiredCapacity – minimum venue capacity the event needs.
//  VenueID          – assigned venue (nil until allocation).
//  EventDate        – calendar day of the event ("2006-01-02", UTC).
//  StartsAt         – start timestamp (UTC).
//  EndsAt           – end timestamp (UTC); always after StartsAt.
//  Status           – Scheduled or Ended.
//  Processed        – true once the sweeper has reconciled the event.
type Event struct {
	ID               uint64    `json:"id"`                    // events.id
	CreatorID        uint64    `json:"creator_id"`            // events.creator_id
	Title            string    `json:"title"`                 // events.title
	Description      *string   `json:"description,omitempty"` // events.description (nullable)
	RequiredCapacity uint32    `json:"required_capacity"`     // events.required_capacity
	VenueID          *uint64   `json:"venue_id,omitempty"`    // events.venue_id (nullable)
	EventDate        string    `json:"event_date"`            // events.event_date
	StartsAt         time.Time `json:"starts_at"`             // events.starts_at
	EndsAt           time.Time `json:"ends_at"`               // events.ends_at
	Status           string    `json:"status"`                // events.status
	Processed        bool      `json:"processed"`             // events.processed
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
