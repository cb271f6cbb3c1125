package model

import "time"

// Venue represents a physical bookable location on campus with a
// finite capacity.  The Available flag is a derived cache of
// "no Scheduled event currently occupies this venue"; it is flipped
// only by the event scheduler (to false on allocation) and by the
// lifecycle sweeper (back to true once the last occupying event
// ends), never by direct user edits while a booking is active.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – venue name, unique within the catalog.
//  Capacity  – maximum number of attendees the venue can hold.
//  Available – whether the venue is free to be allocated.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Venue struct {
	ID        uint64    `json:"id"`        // venues.id
	Name      string    `json:"name"`      // venues.name
	Capacity  uint32    `json:"capacity"`  // venues.capacity
	Available bool      `json:"available"` // venues.available
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
