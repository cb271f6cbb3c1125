package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/campusconnect/venue-booking/internal/model"
	"github.com/campusconnect/venue-booking/internal/monitoring"
	"github.com/campusconnect/venue-booking/internal/repository"
)

const (
	dateFmt  = "2006-01-02"
	clockFmt = "15:04"
)

// Policy holds the scheduling policy knobs.  The zero value is not
// usable; construct via config.
type Policy struct {
	LeadTimeDays int // event date must be at least this many days ahead
	OpenHour     int // events may not start before this hour (24h clock)
	CloseHour    int // events must end by this hour (24h clock)
}

// Request carries a booking submission.  Times are clock strings
// ("15:04") projected onto Date ("2006-01-02"); events are single-day.
// VenueID selects an explicit venue; nil requests best-available
// (tightest-fit) selection.
type Request struct {
	CreatorID        uint64
	Title            string
	Description      string
	RequiredCapacity uint32
	Date             string
	StartTime        string
	EndTime          string
	VenueID          *uint64
}

// Scheduler is the only writer that creates Scheduled events and flips
// venue availability to false.  It validates a request against policy,
// resolves a venue, checks for conflicts and commits atomically through
// the Booker.  Operations on the same venue are serialized in-process;
// the Booker's commit-time re-check covers the store as well.
type Scheduler struct {
	venues  VenueStore
	checker *ConflictChecker
	booker  Booker
	locks   *venueLocks
	policy  Policy

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewScheduler wires a Scheduler from its stores and policy.
func NewScheduler(venues VenueStore, events EventStore, booker Booker, policy Policy) *Scheduler {
	return &Scheduler{
		venues:  venues,
		checker: NewConflictChecker(events),
		booker:  booker,
		locks:   newVenueLocks(),
		policy:  policy,
		now:     time.Now,
	}
}

// Schedule validates the request and, on success, persists a new event
// in state Scheduled with its venue marked unavailable.  Validation
// fails fast in policy order: lead time, business hours, interval
// sanity, venue resolution, conflict.  No partial state is ever left
// behind: the commit is atomic and every error before it happens
// before any mutation.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (*model.Event, error) {
	start, end, err := s.validate(req)
	if err != nil {
		return nil, s.reject(err)
	}

	venue, err := s.resolveVenue(ctx, req)
	if err != nil {
		return nil, s.reject(err)
	}

	// Serialize conflict check and commit per venue.
	mu := s.locks.lock(venue.ID)
	defer mu.Unlock()

	busy, checkErr := s.checker.HasConflict(ctx, venue.ID, start, end)
	if checkErr != nil {
		return nil, s.reject(storageError(checkErr))
	}
	if busy {
		return nil, s.reject(conflict("venue_double_booked", "venue is already booked for an overlapping time"))
	}

	event := &model.Event{
		CreatorID:        req.CreatorID,
		Title:            strings.TrimSpace(req.Title),
		RequiredCapacity: req.RequiredCapacity,
		VenueID:          &venue.ID,
		EventDate:        req.Date,
		StartsAt:         start,
		EndsAt:           end,
		Status:           model.EventStatusScheduled,
	}
	if d := strings.TrimSpace(req.Description); d != "" {
		event.Description = &d
	}

	if err := s.booker.Book(ctx, event); err != nil {
		if errors.Is(err, repository.ErrBookingConflict) {
			return nil, s.reject(conflict("venue_double_booked", "venue is already booked for an overlapping time"))
		}
		return nil, s.reject(storageError(err))
	}

	monitoring.ObserveSchedule("scheduled")
	return event, nil
}

// validate runs the pre-mutation checks and returns the absolute start
// and end timestamps on success.
func (s *Scheduler) validate(req Request) (time.Time, time.Time, *Error) {
	var zero time.Time

	if req.CreatorID == 0 {
		return zero, zero, invalidRequest("creator is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return zero, zero, invalidRequest("title is required")
	}
	if req.RequiredCapacity == 0 {
		return zero, zero, invalidRequest("required_capacity must be positive")
	}
	day, err := time.ParseInLocation(dateFmt, req.Date, time.UTC)
	if err != nil {
		return zero, zero, invalidRequest("date must be formatted as YYYY-MM-DD")
	}
	startClock, err := time.Parse(clockFmt, req.StartTime)
	if err != nil {
		return zero, zero, invalidRequest("start_time must be formatted as HH:MM")
	}
	endClock, err := time.Parse(clockFmt, req.EndTime)
	if err != nil {
		return zero, zero, invalidRequest("end_time must be formatted as HH:MM")
	}

	// Lead-time policy: the event date must be far enough ahead of the
	// submission date.  Comparison is at calendar-date granularity.
	today := s.now().UTC().Truncate(24 * time.Hour)
	if day.Before(today.AddDate(0, 0, s.policy.LeadTimeDays)) {
		return zero, zero, policyViolation("lead_time",
			fmt.Sprintf("events must be booked at least %d days in advance", s.policy.LeadTimeDays))
	}

	// Business-hours policy: both clock times, projected onto the event
	// date, must fall within the open interval.
	startMin := startClock.Hour()*60 + startClock.Minute()
	endMin := endClock.Hour()*60 + endClock.Minute()
	if startMin < s.policy.OpenHour*60 || endMin > s.policy.CloseHour*60 {
		return zero, zero, policyViolation("business_hours",
			fmt.Sprintf("events must run between %02d:00 and %02d:00", s.policy.OpenHour, s.policy.CloseHour))
	}

	// Interval sanity.  start == end is a degenerate zero-length request;
	// it could never conflict but is meaningless, so reject it here.
	if startMin >= endMin {
		return zero, zero, invalidRequest("start_time must be before end_time")
	}

	start := day.Add(time.Duration(startMin) * time.Minute)
	end := day.Add(time.Duration(endMin) * time.Minute)
	return start, end, nil
}

// resolveVenue returns the explicitly requested venue, or the
// tightest-fit available venue when none was specified.
func (s *Scheduler) resolveVenue(ctx context.Context, req Request) (*model.Venue, *Error) {
	if req.VenueID != nil {
		v, err := s.venues.GetByID(ctx, *req.VenueID)
		if err != nil {
			if errors.Is(err, repository.ErrVenueNotFound) {
				return nil, notFound("venue_not_found", "venue does not exist")
			}
			return nil, storageError(err)
		}
		return v, nil
	}
	v, err := s.venues.BestAvailable(ctx, req.RequiredCapacity)
	if err != nil {
		if errors.Is(err, repository.ErrNoVenueAvailable) {
			return nil, policyViolation("no_capacity", "no available venue satisfies the required capacity")
		}
		return nil, storageError(err)
	}
	return v, nil
}

func (s *Scheduler) reject(e *Error) error {
	monitoring.ObserveSchedule(e.Code)
	return e
}
