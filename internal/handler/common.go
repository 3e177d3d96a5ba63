package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used in getUserID
	"net/http"
	"strconv" // strconv converts strings to numeric types

	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-reservation/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// domainStatus maps booking errors to HTTP status codes.  Unrecognized
// errors fall through to 500.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSeatUnavailable),
		errors.Is(err, booking.ErrDuplicateTicket),
		errors.Is(err, booking.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes the JSON error response for a booking error.
// Seat conflicts additionally name the offending seat so clients can
// offer an alternative.
func respondDomainError(c echo.Context, err error) error {
	status := domainStatus(err)
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	var su *booking.SeatUnavailableError
	if errors.As(err, &su) {
		return c.JSON(status, echo.Map{"error": err.Error(), "seat_id": su.SeatID})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}
