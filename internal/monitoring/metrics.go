// Package monitoring exposes Prometheus metrics for the booking core.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scheduleOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_schedule_requests_total",
			Help: "Schedule requests by outcome code",
		},
		[]string{"outcome"},
	)

	sweepRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_sweep_runs_total",
			Help: "Completed lifecycle sweep passes",
		},
	)

	sweepEventsEnded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_sweep_events_ended_total",
			Help: "Events transitioned to Ended by the sweeper",
		},
	)

	remindersPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_reminders_published_total",
			Help: "Event reminders published to the queue",
		},
	)
)

// ObserveSchedule records the outcome of one schedule request;
// "scheduled" on success, otherwise the error code.
func ObserveSchedule(outcome string) {
	scheduleOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveSweep records a completed sweep pass and how many events it ended.
func ObserveSweep(ended int) {
	sweepRuns.Inc()
	sweepEventsEnded.Add(float64(ended))
}

// ObserveReminders records how many reminders a dispatch published.
func ObserveReminders(sent int) {
	remindersPublished.Add(float64(sent))
}
