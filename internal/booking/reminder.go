package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/campusconnect/venue-booking/internal/monitoring"
	"github.com/campusconnect/venue-booking/internal/queue"
)

// ReminderPublisher delivers a reminder message for one event.  The
// queue package provides the RabbitMQ implementation.
type ReminderPublisher interface {
	PublishEventReminder(ctx context.Context, r queue.EventReminder) error
}

// ReminderDispatcher publishes one reminder per event scheduled
// "today" on a daily cadence.  Only the trigger contract lives here;
// turning reminders into attendee emails is the notification
// service's job.
type ReminderDispatcher struct {
	events EventStore
	pub    ReminderPublisher
	spec   string

	c   *cron.Cron
	now func() time.Time
}

// NewReminderDispatcher constructs a dispatcher firing on the given
// cron spec (e.g. "0 8 * * *" for 08:00 UTC daily).
func NewReminderDispatcher(events EventStore, pub ReminderPublisher, spec string) *ReminderDispatcher {
	return &ReminderDispatcher{events: events, pub: pub, spec: spec, now: time.Now}
}

// Start registers the daily trigger and begins ticking.
func (d *ReminderDispatcher) Start() error {
	if d.c != nil {
		return fmt.Errorf("reminder dispatcher already started")
	}
	c := cron.New()
	if _, err := c.AddFunc(d.spec, func() {
		if _, err := d.RunOnce(context.Background()); err != nil {
			log.Printf("reminder: dispatch failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("reminder: register cron %q: %w", d.spec, err)
	}
	d.c = c
	c.Start()
	return nil
}

// Stop halts the trigger and waits for an in-flight dispatch.
func (d *ReminderDispatcher) Stop() {
	if d.c == nil {
		return
	}
	<-d.c.Stop().Done()
	d.c = nil
}

// RunOnce publishes reminders for every Scheduled event taking place
// today and returns how many were sent.  Publish failures are logged
// per event and do not block the rest of the batch.
func (d *ReminderDispatcher) RunOnce(ctx context.Context) (int, error) {
	today := d.now().UTC().Format(dateFmt)
	events, err := d.events.ListScheduledOnDate(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("reminder: select today's events: %w", err)
	}

	sent := 0
	for _, ev := range events {
		msg := queue.EventReminder{
			EventID:   ev.ID,
			CreatorID: ev.CreatorID,
			Title:     ev.Title,
			VenueID:   ev.VenueID,
			EventDate: ev.EventDate,
			StartsAt:  ev.StartsAt,
			EndsAt:    ev.EndsAt,
		}
		if err := d.pub.PublishEventReminder(ctx, msg); err != nil {
			log.Printf("reminder: publish for event %d: %v", ev.ID, err)
			continue
		}
		sent++
	}

	monitoring.ObserveReminders(sent)
	return sent, nil
}
