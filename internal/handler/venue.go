package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/campusconnect/venue-booking/internal/model"
	"github.com/campusconnect/venue-booking/internal/repository"
)

// availableCacheKey and availableCacheTTL control the short-lived Redis
// cache in front of the available-venues listing, the hottest read in
// the booking flow.  The TTL is short because availability changes
// with every allocation and sweep.
const (
	availableCacheKey = "venues:available"
	availableCacheTTL = 15 * time.Second
)

// VenueHandler exposes the venue registry over HTTP.
type VenueHandler struct {
	Venues *repository.VenueRepo
	Redis  *redis.Client // nil disables caching
}

// NewVenueHandler constructs a VenueHandler and panics if the venue
// repository is missing.
func NewVenueHandler(venues *repository.VenueRepo, rdb *redis.Client) *VenueHandler {
	if venues == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues, Redis: rdb}
}

// ListAvailable handles GET /v1/venues/available and returns venues
// whose available flag is set, ordered by capacity.  Responses are
// cached briefly in Redis when a client is configured; cache failures
// fall through to the database.
func (h *VenueHandler) ListAvailable(c echo.Context) error {
	ctx := c.Request().Context()

	if h.Redis != nil {
		if cached, err := h.Redis.Get(ctx, availableCacheKey).Bytes(); err == nil {
			return c.JSONBlob(http.StatusOK, cached)
		}
	}

	venues, err := h.Venues.ListAvailable(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load venues"})
	}
	body := map[string]any{"venues": venues}

	if h.Redis != nil {
		if blob, err := json.Marshal(body); err == nil {
			_ = h.Redis.Set(ctx, availableCacheKey, blob, availableCacheTTL).Err()
		}
	}
	return c.JSON(http.StatusOK, body)
}

// GetVenue handles GET /v1/venues/:id and returns a single venue.
func (h *VenueHandler) GetVenue(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	venue, err := h.Venues.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to load venue"})
	}
	return c.JSON(http.StatusOK, venue)
}

// CreateVenue handles POST /v1/venues and registers a new bookable
// venue.  New venues are available by default.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var body struct {
		Name     string `json:"name"`
		Capacity uint32 `json:"capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	if body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "capacity must be positive"})
	}

	venue := &model.Venue{Name: name, Capacity: body.Capacity}
	if err := h.Venues.Create(c.Request().Context(), venue); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create venue"})
	}
	h.invalidateCache(c)
	return c.JSON(http.StatusCreated, venue)
}

// invalidateCache drops the cached available-venues listing after a
// mutation so clients never see a stale catalog longer than one TTL.
func (h *VenueHandler) invalidateCache(c echo.Context) {
	if h.Redis != nil {
		_ = h.Redis.Del(c.Request().Context(), availableCacheKey).Err()
	}
}
