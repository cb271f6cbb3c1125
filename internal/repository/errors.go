// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// scheduler and handlers to distinguish between different failure
// scenarios without inspecting error strings.
package repository

import "errors"

// ErrVenueNotFound indicates that a venue was not located in the DB.
var ErrVenueNotFound = errors.New("venue not found")

// ErrEventNotFound indicates that an event was not located in the DB.
var ErrEventNotFound = errors.New("event not found")

// ErrNoVenueAvailable is returned by best-fit venue selection when no
// available venue satisfies the requested capacity.
var ErrNoVenueAvailable = errors.New("no venue available")

// ErrBookingConflict is returned by the booking commit when the
// overlap re-check under the venue row lock finds another Scheduled
// event.  It closes the race between two requests that both passed
// the read-side conflict check.
var ErrBookingConflict = errors.New("booking conflict")
