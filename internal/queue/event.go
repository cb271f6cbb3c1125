// Package queue contains the RabbitMQ plumbing for reminder dispatch:
// the message schema, the publisher used by the reminder dispatcher,
// and the background consumer that records dispatched reminders.
package queue

import "time"

// ReminderQueueName is the durable queue reminders are published to.
const ReminderQueueName = "event.reminder"

// EventReminder is the message published for each event scheduled
// "today".  The notification service consumes these to email the
// event's attendees; delivery itself lives outside this service.
type EventReminder struct {
	EventID   uint64    `json:"event_id"`
	CreatorID uint64    `json:"creator_id"`
	Title     string    `json:"title"`
	VenueID   *uint64   `json:"venue_id,omitempty"`
	EventDate string    `json:"event_date"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}
