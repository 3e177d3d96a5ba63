package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/skylane/flight-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/skylane/flight-reservation/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers or monitoring systems to verify that the
	// service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterCatalog registers the unauthenticated flight catalog endpoints.
// The optional cache middleware is applied to every catalog route; pass
// nil to serve uncached.  These routes return availability snapshots
// only: holding a seat always goes through the authenticated
// reservation endpoints.
func RegisterCatalog(e *echo.Echo, f *handler.FlightHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/flights")
	if cache != nil {
		g.Use(cache)
	}
	// List all flights ordered by departure time.
	g.GET("", f.ListFlights)
	// Flight details by flight id.
	g.GET("/:id", f.GetFlight)
	// Seat map of a flight with per-seat pricing.  Supports
	// ?available=true and ?category=ECONOMY|BUSINESS|FIRST filters.
	g.GET("/:id/seats", f.ListSeats)
}

// RegisterBooking registers the authenticated reservation and ticket
// endpoints under /v1.  Every route runs the JWTAuth middleware with
// the provided secret before its handler.
func RegisterBooking(e *echo.Echo, r *handler.ReservationHandler, t *handler.TicketHandler, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Reservation lifecycle.
	auth.POST("/reservations", r.Create)
	auth.GET("/reservations/me", r.ListMine)
	auth.GET("/reservations/:id", r.Get)
	auth.PATCH("/reservations/:id/cancel", r.Cancel)
	auth.PUT("/reservations/:id/passengers/:passengerID/seat", r.ChangeSeat)

	// Purchase and ticket lookups.
	auth.POST("/tickets/purchase", t.Purchase)
	auth.GET("/tickets/me", t.ListMine)
	auth.GET("/tickets/confirmation/:code", t.GetByCode)
}
