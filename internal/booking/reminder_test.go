package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusconnect/venue-booking/internal/model"
)

func TestReminderDispatchesTodaysScheduledEvents(t *testing.T) {
	store := newFakeStore()
	venueID := uint64(1)
	today := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	store.addEvent(model.Event{
		ID: 1, CreatorID: 1, Title: "today", VenueID: &venueID,
		EventDate: "2026-09-15",
		StartsAt:  today.Add(10 * time.Hour), EndsAt: today.Add(11 * time.Hour),
		Status: model.EventStatusScheduled,
	})
	store.addEvent(model.Event{
		ID: 2, CreatorID: 1, Title: "tomorrow", VenueID: &venueID,
		EventDate: "2026-09-16",
		StartsAt:  today.Add(34 * time.Hour), EndsAt: today.Add(35 * time.Hour),
		Status: model.EventStatusScheduled,
	})
	store.addEvent(model.Event{
		ID: 3, CreatorID: 1, Title: "already over", VenueID: &venueID,
		EventDate: "2026-09-15",
		StartsAt:  today.Add(8 * time.Hour), EndsAt: today.Add(9 * time.Hour),
		Status: model.EventStatusEnded, Processed: true,
	})

	pub := newFakePublisher()
	d := NewReminderDispatcher(store, pub, "0 8 * * *")
	d.now = func() time.Time { return today.Add(8 * time.Hour) }

	sent, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []uint64{1}, pub.sent)
}

func TestReminderPublishFailureDoesNotBlockBatch(t *testing.T) {
	store := newFakeStore()
	venueID := uint64(1)
	today := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	for id := uint64(1); id <= 3; id++ {
		store.addEvent(model.Event{
			ID: id, CreatorID: id, Title: "talk", VenueID: &venueID,
			EventDate: "2026-09-15",
			StartsAt:  today.Add(time.Duration(9+id) * time.Hour),
			EndsAt:    today.Add(time.Duration(10+id) * time.Hour),
			Status:    model.EventStatusScheduled,
		})
	}

	pub := newFakePublisher()
	pub.failFor[2] = errors.New("broker unavailable")
	d := NewReminderDispatcher(store, pub, "0 8 * * *")
	d.now = func() time.Time { return today.Add(8 * time.Hour) }

	sent, err := d.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.NotContains(t, pub.sent, uint64(2))
}
