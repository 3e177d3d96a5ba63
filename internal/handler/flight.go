// Package handler exposes HTTP handlers for both authenticated and public endpoints.
// This file defines handlers for the public catalog API. These routes allow
// unauthenticated users to browse flights and seat availability without
// requiring authentication.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
	"github.com/skylane/flight-reservation/internal/repository"
)

// FlightHandler aggregates repositories needed for unauthenticated browsing.
type FlightHandler struct {
	FlightRepo *repository.FlightRepo // provides access to flight data
	SeatRepo   *repository.SeatRepo   // provides access to seat data
}

// NewFlightHandler constructs a FlightHandler. Both repositories must be non-nil.
func NewFlightHandler(flightRepo *repository.FlightRepo, seatRepo *repository.SeatRepo) *FlightHandler {
	if flightRepo == nil || seatRepo == nil {
		panic("nil repository passed to NewFlightHandler")
	}
	return &FlightHandler{FlightRepo: flightRepo, SeatRepo: seatRepo}
}

// PublicFlight represents a flight in catalog responses.
type PublicFlight struct {
	ID            uint64    `json:"id"`
	FlightNumber  string    `json:"flight_number"`
	DepartsAt     time.Time `json:"departs_at"`
	ArrivesAt     time.Time `json:"arrives_at"`
	BaseFareCents uint32    `json:"base_fare_cents"`
	Status        string    `json:"status"`
}

// PublicSeat represents a seat in catalog responses. PriceCents is the
// full price: flight base fare plus the seat's extra fare.
type PublicSeat struct {
	ID         uint64 `json:"id"`
	SeatNumber string `json:"seat_number"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price_cents"`
	Status     string `json:"status"`
}

func toPublicFlight(f model.Flight) PublicFlight {
	return PublicFlight{
		ID:            f.ID,
		FlightNumber:  f.FlightNumber,
		DepartsAt:     f.DepartsAt,
		ArrivesAt:     f.ArrivesAt,
		BaseFareCents: f.BaseFareCents,
		Status:        f.Status,
	}
}

// ListFlights handles GET /v1/flights. Response JSON contains an
// "items" array of PublicFlight ordered by departure time.
func (h *FlightHandler) ListFlights(c echo.Context) error {
	ctx := c.Request().Context()
	flights, err := h.FlightRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicFlight, 0, len(flights))
	for _, f := range flights {
		out = append(out, toPublicFlight(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetFlight handles GET /v1/flights/:id. It returns a single flight or
// 404 when the flight does not exist.
func (h *FlightHandler) GetFlight(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx := c.Request().Context()
	f, err := h.FlightRepo.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPublicFlight(*f)})
}

// ListSeats handles GET /v1/flights/:id/seats. The optional "available"
// query parameter ("true"/"1") restricts the result to seats that can
// currently be held, and "category" filters by cabin class. It ensures
// the flight exists, then returns each seat with its full price.
func (h *FlightHandler) ListSeats(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
	}
	ctx := c.Request().Context()
	f, err := h.FlightRepo.GetByID(ctx, id)
	if err != nil {
		if err == booking.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	onlyAvailable := false
	switch c.QueryParam("available") {
	case "true", "1":
		onlyAvailable = true
	}
	category := c.QueryParam("category")
	switch category {
	case "", model.CategoryEconomy, model.CategoryBusiness, model.CategoryFirst:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	seats, err := h.SeatRepo.ListByFlight(ctx, id, onlyAvailable, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicSeat, 0, len(seats))
	for _, s := range seats {
		out = append(out, PublicSeat{
			ID:         s.ID,
			SeatNumber: s.SeatNumber,
			Category:   s.Category,
			PriceCents: s.PriceCents(f.BaseFareCents),
			Status:     s.Status,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
