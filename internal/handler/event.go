package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/campusconnect/venue-booking/internal/booking"
	"github.com/campusconnect/venue-booking/internal/repository"
)

// EventHandler exposes event scheduling over HTTP.
type EventHandler struct {
	Scheduler *booking.Scheduler
	Events    *repository.EventRepo
	Venues    *repository.VenueRepo
	Redis     *redis.Client // nil disables cache invalidation
}

// NewEventHandler constructs an EventHandler and panics when a
// dependency is missing.
func NewEventHandler(sched *booking.Scheduler, events *repository.EventRepo, venues *repository.VenueRepo, rdb *redis.Client) *EventHandler {
	if sched == nil || events == nil || venues == nil {
		panic("nil dependency passed to NewEventHandler")
	}
	return &EventHandler{Scheduler: sched, Events: events, Venues: venues, Redis: rdb}
}

// CreateEvent handles POST /v1/events and runs the full scheduling
// pipeline: policy validation, venue resolution, conflict check and
// the atomic commit.  The creator is the authenticated user; a
// creator_id in the body is honored only when no token identity is
// present (service-to-service calls behind the gateway).
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var body struct {
		CreatorID        uint64  `json:"creator_id"`
		Title            string  `json:"title"`
		Description      string  `json:"description"`
		RequiredCapacity uint32  `json:"required_capacity"`
		Date             string  `json:"date"`
		StartTime        string  `json:"start_time"`
		EndTime          string  `json:"end_time"`
		VenueID          *uint64 `json:"venue_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	creatorID := body.CreatorID
	if uid, err := getUserID(c); err == nil {
		creatorID = uid
	}

	event, err := h.Scheduler.Schedule(c.Request().Context(), booking.Request{
		CreatorID:        creatorID,
		Title:            body.Title,
		Description:      body.Description,
		RequiredCapacity: body.RequiredCapacity,
		Date:             body.Date,
		StartTime:        body.StartTime,
		EndTime:          body.EndTime,
		VenueID:          body.VenueID,
	})
	if err != nil {
		return respondBookingError(c, err)
	}

	// A successful allocation changes venue availability.
	if h.Redis != nil {
		_ = h.Redis.Del(c.Request().Context(), availableCacheKey).Err()
	}
	return c.JSON(http.StatusCreated, event)
}

// ListVenueBookings handles GET /v1/venues/:id/bookings?date=YYYY-MM-DD
// and returns the busy slots of a venue on one calendar day, so clients
// can render occupied times before submitting a request.
func (h *EventHandler) ListVenueBookings(c echo.Context) error {
	venueID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	date := c.QueryParam("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "date must be formatted as YYYY-MM-DD"})
	}

	// Verify the venue exists so an unknown id is a 404, not an empty list.
	if _, err := h.Venues.GetByID(c.Request().Context(), venueID); err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load venue"})
	}

	events, err := h.Events.ListBookings(c.Request().Context(), venueID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load bookings"})
	}

	slots := make([]map[string]string, 0, len(events))
	for _, ev := range events {
		slots = append(slots, map[string]string{
			"start": ev.StartsAt.UTC().Format(time.RFC3339),
			"end":   ev.EndsAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"venue_id": venueID, "date": date, "bookings": slots})
}
