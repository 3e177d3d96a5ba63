package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/skylane/flight-reservation/internal/booking"    // Booking service
	"github.com/skylane/flight-reservation/internal/config"     // Internal config loader
	"github.com/skylane/flight-reservation/internal/database"   // MySQL connector
	"github.com/skylane/flight-reservation/internal/handler"    // HTTP handlers
	"github.com/skylane/flight-reservation/internal/middleware" // Cache and rate limit middleware
	"github.com/skylane/flight-reservation/internal/queue"      // Ticket event consumer
	"github.com/skylane/flight-reservation/internal/repository" // Persistence layer
	"github.com/skylane/flight-reservation/internal/router"     // Route registration
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)
	svc := booking.NewService(store)

	flightHandler := handler.NewFlightHandler(store.Flights(), store.Seats())
	reservationHandler := handler.NewReservationHandler(svc)
	ticketHandler := handler.NewTicketHandler(svc)

	// Redis backs the catalog cache and the rate limiter.  A nil client
	// disables both and the service keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterCatalog(e, flightHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, reservationHandler, ticketHandler, cfg.JWTSecret)

	// Consume ticket.issued events in the background; the consumer runs
	// its own reconnect loop.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
