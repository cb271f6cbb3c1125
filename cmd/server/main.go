package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/campusconnect/venue-booking/internal/booking"
	"github.com/campusconnect/venue-booking/internal/config"
	"github.com/campusconnect/venue-booking/internal/database"
	"github.com/campusconnect/venue-booking/internal/handler"
	"github.com/campusconnect/venue-booking/internal/middleware"
	"github.com/campusconnect/venue-booking/internal/queue"
	"github.com/campusconnect/venue-booking/internal/repository"
	"github.com/campusconnect/venue-booking/internal/router"
)

func main() {
	_ = godotenv.Load() // load .env when present; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("database: %v", err)
	}

	// Repositories and the booking core.
	venues := repository.NewVenueRepo(db)
	events := repository.NewEventRepo(db)
	store := repository.NewBookingStore(db, venues, events)
	sched := booking.NewScheduler(venues, events, store, booking.Policy{
		LeadTimeDays: cfg.LeadTimeDays,
		OpenHour:     cfg.OpenHour,
		CloseHour:    cfg.CloseHour,
	})

	// Background actors: the lifecycle sweeper frees venues of elapsed
	// events; the reminder dispatcher fans out day-of notifications.
	sweeper := booking.NewSweeper(events, venues, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("sweeper: %v", err)
	}
	defer sweeper.Stop()

	reminders := booking.NewReminderDispatcher(events, queue.NewPublisher(), cfg.ReminderCron)
	if err := reminders.Start(); err != nil {
		log.Fatalf("reminder: %v", err)
	}
	defer reminders.Stop()

	go func() {
		if err := queue.StartReminderConsumer(); err != nil {
			log.Printf("reminder-consumer: %v", err)
		}
	}()

	// Redis is optional: caching and rate limiting degrade gracefully
	// when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; caching and rate limiting disabled")
	}

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	venueHandler := handler.NewVenueHandler(venues, rdb)
	eventHandler := handler.NewEventHandler(sched, events, venues, rdb)
	router.RegisterRoutes(e)
	router.RegisterVenues(e, venueHandler, eventHandler, cfg.JWTSecret)
	router.RegisterEvents(e, eventHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
