package booking

import (
	"context"
	"sync"
	"time"

	"github.com/campusconnect/venue-booking/internal/model"
	"github.com/campusconnect/venue-booking/internal/queue"
	"github.com/campusconnect/venue-booking/internal/repository"
)

// fakeStore is an in-memory implementation of VenueStore, EventStore
// and Booker used by the unit tests.  Its Book method performs the
// same commit-time overlap re-check as the SQL store, serialized by a
// mutex, so race tests exercise the real guarantee.
type fakeStore struct {
	mu     sync.Mutex
	venues map[uint64]*model.Venue
	events map[uint64]*model.Event
	nextID uint64

	bookErr    error            // injected Book failure
	markErr    map[uint64]error // injected MarkEnded failures per event
	releaseErr map[uint64]error // injected release failures per venue
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		venues:     make(map[uint64]*model.Venue),
		events:     make(map[uint64]*model.Event),
		markErr:    make(map[uint64]error),
		releaseErr: make(map[uint64]error),
	}
}

func (f *fakeStore) addVenue(id uint64, name string, capacity uint32, available bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.venues[id] = &model.Venue{ID: id, Name: name, Capacity: capacity, Available: available}
}

func (f *fakeStore) addEvent(e model.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		f.nextID++
		e.ID = f.nextID
	} else if e.ID > f.nextID {
		f.nextID = e.ID
	}
	cp := e
	f.events[cp.ID] = &cp
}

func (f *fakeStore) venue(id uint64) model.Venue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.venues[id]
}

func (f *fakeStore) event(id uint64) model.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.events[id]
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.venues[id]
	if !ok {
		return nil, repository.ErrVenueNotFound
	}
	cp := *v
	return &cp, nil
}

func (f *fakeStore) BestAvailable(_ context.Context, requiredCapacity uint32) (*model.Venue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *model.Venue
	for _, v := range f.venues {
		if !v.Available || v.Capacity < requiredCapacity {
			continue
		}
		if best == nil || v.Capacity < best.Capacity || (v.Capacity == best.Capacity && v.ID < best.ID) {
			best = v
		}
	}
	if best == nil {
		return nil, repository.ErrNoVenueAvailable
	}
	cp := *best
	return &cp, nil
}

func (f *fakeStore) ReleaseIfUnbooked(_ context.Context, venueID, excludeEventID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.releaseErr[venueID]; err != nil {
		return err
	}
	for _, e := range f.events {
		if e.ID != excludeEventID && e.VenueID != nil && *e.VenueID == venueID && e.Status == model.EventStatusScheduled {
			return nil // still occupied by another Scheduled event
		}
	}
	if v, ok := f.venues[venueID]; ok {
		v.Available = true
	}
	return nil
}

func (f *fakeStore) FindOverlapping(_ context.Context, venueID uint64, start, end time.Time) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlapsLocked(venueID, start, end), nil
}

func (f *fakeStore) overlapsLocked(venueID uint64, start, end time.Time) []model.Event {
	var out []model.Event
	for _, e := range f.events {
		if e.Status != model.EventStatusScheduled || e.VenueID == nil || *e.VenueID != venueID {
			continue
		}
		if e.StartsAt.Before(end) && e.EndsAt.After(start) {
			out = append(out, *e)
		}
	}
	return out
}

func (f *fakeStore) ListElapsedUnprocessed(_ context.Context, now time.Time) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.Status == model.EventStatusScheduled && !e.Processed && e.EndsAt.Before(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListScheduledOnDate(_ context.Context, date string) ([]model.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Event
	for _, e := range f.events {
		if e.Status == model.EventStatusScheduled && e.EventDate == date {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkEnded(_ context.Context, id uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.markErr[id]; err != nil {
		return err
	}
	e, ok := f.events[id]
	if !ok {
		return repository.ErrEventNotFound
	}
	if e.Status == model.EventStatusScheduled {
		e.Status = model.EventStatusEnded
		e.Processed = true
	}
	return nil
}

func (f *fakeStore) Book(_ context.Context, e *model.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookErr != nil {
		return f.bookErr
	}
	if len(f.overlapsLocked(*e.VenueID, e.StartsAt, e.EndsAt)) > 0 {
		return repository.ErrBookingConflict
	}
	f.nextID++
	e.ID = f.nextID
	e.Status = model.EventStatusScheduled
	e.Processed = false
	cp := *e
	f.events[cp.ID] = &cp
	f.venues[*e.VenueID].Available = false
	return nil
}

// fakePublisher records published reminders and can fail per event.
type fakePublisher struct {
	mu      sync.Mutex
	sent    []uint64
	failFor map[uint64]error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{failFor: make(map[uint64]error)}
}

func (p *fakePublisher) PublishEventReminder(_ context.Context, r queue.EventReminder) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.failFor[r.EventID]; err != nil {
		return err
	}
	p.sent = append(p.sent, r.EventID)
	return nil
}
