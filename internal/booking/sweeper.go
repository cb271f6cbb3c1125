package booking

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/campusconnect/venue-booking/internal/monitoring"
)

// Sweeper is the recurring reconciliation pass that closes out elapsed
// events and frees their venues.  Each tick selects Scheduled,
// unprocessed events whose end time has passed, releases the venue
// (unless another Scheduled event still occupies it) and then marks
// the event Ended.  Releasing before marking means a crash between the
// two writes re-attempts the harmless, idempotent release on the next
// tick rather than leaving a venue stranded.
type Sweeper struct {
	events   EventStore
	venues   VenueStore
	interval time.Duration

	c       *cron.Cron
	running atomic.Bool

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewSweeper constructs a Sweeper with the given tick interval.
func NewSweeper(events EventStore, venues VenueStore, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{events: events, venues: venues, interval: interval, now: time.Now}
}

// Start registers the recurring sweep and begins ticking.  A tick is
// skipped when the previous pass is still in flight so sweeps never
// overlap under a slow store.
func (s *Sweeper) Start() error {
	if s.c != nil {
		return fmt.Errorf("sweeper already started")
	}
	c := cron.New()
	spec := "@every " + s.interval.String()
	if _, err := c.AddFunc(spec, func() {
		if !s.running.CompareAndSwap(false, true) {
			log.Printf("sweeper: previous pass still running, skipping tick")
			return
		}
		defer s.running.Store(false)
		if _, err := s.RunOnce(context.Background()); err != nil {
			log.Printf("sweeper: pass failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("sweeper: register cron %q: %w", spec, err)
	}
	s.c = c
	c.Start()
	return nil
}

// Stop halts the ticker and waits for an in-flight pass to finish.
func (s *Sweeper) Stop() {
	if s.c == nil {
		return
	}
	<-s.c.Stop().Done()
	s.c = nil
}

// RunOnce performs a single sweep pass and returns how many events were
// transitioned to Ended.  Events are processed independently: one
// event's storage failure is logged and does not block the others, and
// the failed event is re-selected on the next pass because it is still
// unprocessed.  Running a pass twice in a row is idempotent: processed
// events are excluded from selection and the venue release is a
// conditional, repeatable update.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	elapsed, err := s.events.ListElapsedUnprocessed(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweeper: select elapsed events: %w", err)
	}

	ended := 0
	for _, ev := range elapsed {
		// Release the venue first.  If the event holds no venue there is
		// nothing to free.
		if ev.VenueID != nil {
			if err := s.venues.ReleaseIfUnbooked(ctx, *ev.VenueID, ev.ID); err != nil {
				log.Printf("sweeper: release venue %d for event %d: %v", *ev.VenueID, ev.ID, err)
				continue // retry the whole event next tick
			}
		}
		if err := s.events.MarkEnded(ctx, ev.ID); err != nil {
			log.Printf("sweeper: mark event %d ended: %v", ev.ID, err)
			continue
		}
		ended++
	}

	monitoring.ObserveSweep(ended)
	return ended, nil
}
