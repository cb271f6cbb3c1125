package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campusconnect/venue-booking/internal/handler"
	"github.com/campusconnect/venue-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check used by load balancers
// and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterVenues registers the venue registry endpoints.  Browsing is
// public so students can inspect availability before authenticating;
// catalog mutation is restricted to admins.
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, ev *handler.EventHandler, jwtSecret string) {
	e.GET("/v1/venues/available", v.ListAvailable)
	e.GET("/v1/venues/:id", v.GetVenue)
	// Busy slots for one venue on one day; used by clients to render
	// occupied times before submitting a booking.
	e.GET("/v1/venues/:id/bookings", ev.ListVenueBookings)

	admin := e.Group("/v1/venues")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("admin"))
	admin.POST("", v.CreateVenue)
}

// RegisterEvents registers the scheduling endpoint.  Creating events is
// limited to editors and admins, matching campus policy; the JWT
// middleware supplies the creator identity.
func RegisterEvents(e *echo.Echo, ev *handler.EventHandler, jwtSecret string) {
	g := e.Group("/v1/events")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("editor", "admin"))
	g.POST("", ev.CreateEvent)
}
