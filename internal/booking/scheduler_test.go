package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/venue-booking/internal/model"
)

var testClock = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func testPolicy() Policy {
	return Policy{LeadTimeDays: 7, OpenHour: 8, CloseHour: 18}
}

func newTestScheduler(store *fakeStore) *Scheduler {
	s := NewScheduler(store, store, store, testPolicy())
	s.now = func() time.Time { return testClock }
	return s
}

func validRequest() Request {
	return Request{
		CreatorID:        1,
		Title:            "Robotics Club Demo",
		RequiredCapacity: 40,
		Date:             "2026-09-15",
		StartTime:        "10:00",
		EndTime:          "11:00",
	}
}

func requireBookingError(t *testing.T, err error, kind Kind, code string) *Error {
	t.Helper()
	require.Error(t, err)
	be, ok := AsError(err)
	require.True(t, ok, "expected a booking error, got %v", err)
	assert.Equal(t, kind, be.Kind)
	assert.Equal(t, code, be.Code)
	return be
}

func TestScheduleRejectsMissingFields(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"no creator", func(r *Request) { r.CreatorID = 0 }},
		{"blank title", func(r *Request) { r.Title = "   " }},
		{"zero capacity", func(r *Request) { r.RequiredCapacity = 0 }},
		{"bad date", func(r *Request) { r.Date = "15/09/2026" }},
		{"bad start time", func(r *Request) { r.StartTime = "10am" }},
		{"bad end time", func(r *Request) { r.EndTime = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := s.Schedule(context.Background(), req)
			requireBookingError(t, err, KindInvalidRequest, "invalid_request")
		})
	}
}

func TestScheduleLeadTime(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	// Clock is 2026-09-01; with a 7 day lead the first bookable date is
	// 2026-09-08 regardless of the submission's time of day.
	req := validRequest()
	req.Date = "2026-09-07"
	_, err := s.Schedule(context.Background(), req)
	requireBookingError(t, err, KindPolicyViolation, "lead_time")

	req.Date = "2026-09-08"
	ev, err := s.Schedule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-08", ev.EventDate)
}

func TestScheduleBusinessHours(t *testing.T) {
	cases := []struct {
		name       string
		start, end string
		ok         bool
	}{
		{"just before opening", "07:59", "09:00", false},
		{"at opening", "08:00", "09:00", true},
		{"ends at closing", "17:00", "18:00", true},
		{"ends past closing", "17:30", "18:01", false},
		{"full day", "08:00", "18:00", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.addVenue(1, "Hall A", 100, true)
			s := newTestScheduler(store)

			req := validRequest()
			req.StartTime = tc.start
			req.EndTime = tc.end
			_, err := s.Schedule(context.Background(), req)
			if tc.ok {
				require.NoError(t, err)
			} else {
				requireBookingError(t, err, KindPolicyViolation, "business_hours")
			}
		})
	}
}

func TestScheduleRejectsEmptyInterval(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	req := validRequest()
	req.StartTime = "10:00"
	req.EndTime = "10:00"
	_, err := s.Schedule(context.Background(), req)
	requireBookingError(t, err, KindInvalidRequest, "invalid_request")

	req.EndTime = "09:00"
	_, err = s.Schedule(context.Background(), req)
	requireBookingError(t, err, KindInvalidRequest, "invalid_request")
}

func TestScheduleExplicitVenueNotFound(t *testing.T) {
	store := newFakeStore()
	s := newTestScheduler(store)

	req := validRequest()
	missing := uint64(99)
	req.VenueID = &missing
	_, err := s.Schedule(context.Background(), req)
	requireBookingError(t, err, KindNotFound, "venue_not_found")
}

func TestScheduleTightestFit(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Auditorium", 200, true)
	store.addVenue(2, "Seminar Room", 50, true)
	store.addVenue(3, "Meeting Room", 30, true)
	s := newTestScheduler(store)

	ev, err := s.Schedule(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, ev.VenueID)
	// Capacity 40 fits rooms 50 and 200; the tightest fit wins.
	assert.Equal(t, uint64(2), *ev.VenueID)
	assert.False(t, store.venue(2).Available)
	assert.True(t, store.venue(1).Available)
}

func TestScheduleNoCapacity(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Meeting Room", 30, true)
	store.addVenue(2, "Seminar Room", 50, false) // big enough but taken
	s := newTestScheduler(store)

	_, err := s.Schedule(context.Background(), validRequest())
	requireBookingError(t, err, KindPolicyViolation, "no_capacity")
}

func TestScheduleConflictOnOverlap(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	first := validRequest()
	venueID := uint64(1)
	first.VenueID = &venueID
	_, err := s.Schedule(context.Background(), first)
	require.NoError(t, err)

	second := first
	second.StartTime = "10:30"
	second.EndTime = "11:30"
	_, err = s.Schedule(context.Background(), second)
	requireBookingError(t, err, KindConflict, "venue_double_booked")
}

func TestScheduleBoundaryTouchIsNotConflict(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	venueID := uint64(1)
	first := validRequest()
	first.VenueID = &venueID
	_, err := s.Schedule(context.Background(), first)
	require.NoError(t, err)

	// Ends exactly when the first starts and starts exactly when it
	// ends.  Half-open intervals make both admissible.
	before := first
	before.StartTime = "09:00"
	before.EndTime = "10:00"
	_, err = s.Schedule(context.Background(), before)
	require.NoError(t, err)

	after := first
	after.StartTime = "11:00"
	after.EndTime = "12:00"
	_, err = s.Schedule(context.Background(), after)
	require.NoError(t, err)
}

func TestScheduleExplicitVenueIgnoresAvailabilityFlag(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	venueID := uint64(1)
	first := validRequest()
	first.VenueID = &venueID
	_, err := s.Schedule(context.Background(), first)
	require.NoError(t, err)
	require.False(t, store.venue(1).Available)

	// A disjoint slot on the now-unavailable venue still books when the
	// venue is named explicitly; only overlap blocks it.
	later := first
	later.StartTime = "14:00"
	later.EndTime = "15:00"
	_, err = s.Schedule(context.Background(), later)
	require.NoError(t, err)
}

func TestSchedulePersistsEvent(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	req := validRequest()
	req.Description = "  open to all departments  "
	ev, err := s.Schedule(context.Background(), req)
	require.NoError(t, err)

	stored := store.event(ev.ID)
	assert.Equal(t, model.EventStatusScheduled, stored.Status)
	assert.False(t, stored.Processed)
	assert.Equal(t, "Robotics Club Demo", stored.Title)
	require.NotNil(t, stored.Description)
	assert.Equal(t, "open to all departments", *stored.Description)
	assert.Equal(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), stored.StartsAt)
	assert.Equal(t, time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC), stored.EndsAt)
	assert.False(t, store.venue(1).Available)
}

func TestScheduleCommitFailureLeavesNoState(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	store.bookErr = errors.New("connection reset")
	s := newTestScheduler(store)

	_, err := s.Schedule(context.Background(), validRequest())
	requireBookingError(t, err, KindStorage, "storage_error")
	assert.Empty(t, store.events)
	assert.True(t, store.venue(1).Available)
}

func TestScheduleConcurrentSameSlot(t *testing.T) {
	store := newFakeStore()
	store.addVenue(1, "Hall A", 100, true)
	s := newTestScheduler(store)

	venueID := uint64(1)
	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := validRequest()
			req.CreatorID = uint64(i + 1)
			req.VenueID = &venueID
			_, errs[i] = s.Schedule(context.Background(), req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireBookingError(t, err, KindConflict, "venue_double_booked")
	}
	assert.Equal(t, 1, succeeded, "exactly one racer may win the slot")
	assert.Len(t, store.events, 1)
}
