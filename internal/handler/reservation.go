package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-reservation/internal/booking"
)

// ReservationHandler serves the authenticated reservation endpoints.
// All methods assume that JWT authentication has already been performed
// by middleware and may return 401 Unauthorized if the user ID cannot
// be extracted from the context.
type ReservationHandler struct {
	Svc *booking.Service // booking service running the transactional flows
}

// NewReservationHandler constructs a ReservationHandler. The service
// must be non-nil.
func NewReservationHandler(svc *booking.Service) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc}
}

// PassengerView is a passenger with its currently bound seat as
// returned in reservation responses.
type PassengerView struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Document string `json:"document,omitempty"`
	Seat     struct {
		ID         uint64 `json:"id"`
		SeatNumber string `json:"seat_number"`
		Category   string `json:"category"`
		Status     string `json:"status"`
	} `json:"seat"`
}

// ReservationView is the reservation shape returned to clients.
type ReservationView struct {
	ID               uint64          `json:"id"`
	Status           string          `json:"status"`
	TotalAmountCents uint32          `json:"total_amount_cents"`
	CreatedAt        time.Time       `json:"created_at"`
	Passengers       []PassengerView `json:"passengers"`
}

func toReservationView(d booking.ReservationDetail) ReservationView {
	view := ReservationView{
		ID:               d.Reservation.ID,
		Status:           d.Reservation.Status,
		TotalAmountCents: d.Reservation.TotalAmountCents,
		CreatedAt:        d.Reservation.CreatedAt,
		Passengers:       make([]PassengerView, 0, len(d.Passengers)),
	}
	for _, ps := range d.Passengers {
		var pv PassengerView
		pv.ID = ps.Passenger.ID
		pv.FullName = ps.Passenger.FullName
		pv.Document = ps.Passenger.Document
		pv.Seat.ID = ps.Seat.ID
		pv.Seat.SeatNumber = ps.Seat.SeatNumber
		pv.Seat.Category = ps.Seat.Category
		pv.Seat.Status = ps.Seat.Status
		view.Passengers = append(view.Passengers, pv)
	}
	return view
}

// Create handles POST /v1/reservations. The request body must contain
// a "passengers" array; each entry names a seat and the traveller it is
// for. All requested seats are held atomically: when any of them is
// taken the whole request fails with 409 and the response names the
// offending seat.
func (h *ReservationHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Passengers []struct {
			SeatID   uint64 `json:"seat_id"`
			FullName string `json:"full_name"`
			Document string `json:"document"`
		} `json:"passengers"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Passengers) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passengers is required"})
	}
	inputs := make([]booking.PassengerInput, 0, len(body.Passengers))
	seen := make(map[uint64]struct{})
	for _, p := range body.Passengers {
		if p.SeatID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
		}
		if p.FullName == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
		}
		// one seat cannot carry two passengers of the same request
		if _, dup := seen[p.SeatID]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat id in request"})
		}
		seen[p.SeatID] = struct{}{}
		inputs = append(inputs, booking.PassengerInput{
			SeatID:   p.SeatID,
			FullName: p.FullName,
			Document: p.Document,
		})
	}
	detail, err := h.Svc.CreateReservation(c.Request().Context(), userID, inputs)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": toReservationView(*detail)})
}

// ListMine handles GET /v1/reservations/me. It returns all reservations
// created by the current user, newest first. When no reservations
// exist, it returns an empty array.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.Svc.ReservationsForUser(c.Request().Context(), userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]ReservationView, 0, len(details))
	for _, d := range details {
		out = append(out, toReservationView(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Get handles GET /v1/reservations/:id. It returns the details of a
// single reservation for the authenticated user. When the reservation
// does not exist, it responds with 404; when it belongs to a different
// user, with 403.
func (h *ReservationHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.Svc.Reservation(c.Request().Context(), resID, userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toReservationView(*detail)})
}

// Cancel handles PATCH /v1/reservations/:id/cancel. It cancels a
// pending or confirmed reservation belonging to the current user and
// releases all its seats. A ticket issued for the reservation is kept.
// Cancelling an already cancelled reservation responds with 400.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Svc.CancelReservation(c.Request().Context(), resID, userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":     res.ID,
		"status": res.Status,
	})
}

// ChangeSeat handles PUT /v1/reservations/:id/passengers/:passengerID/seat.
// It moves one passenger of a pending reservation to a different seat.
// The new seat is held before the old one is released, so the passenger
// never ends up seatless: when the new seat is taken the request fails
// with 409 and the old hold stands.
func (h *ReservationHandler) ChangeSeat(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	resID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	passengerID, ok := pathID(c, "passengerID")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger id"})
	}
	var body struct {
		SeatID uint64 `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil || body.SeatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	moved, err := h.Svc.ChangeSeat(c.Request().Context(), resID, passengerID, body.SeatID, userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	var pv PassengerView
	pv.ID = moved.Passenger.ID
	pv.FullName = moved.Passenger.FullName
	pv.Document = moved.Passenger.Document
	pv.Seat.ID = moved.Seat.ID
	pv.Seat.SeatNumber = moved.Seat.SeatNumber
	pv.Seat.Category = moved.Seat.Category
	pv.Seat.Status = moved.Seat.Status
	return c.JSON(http.StatusOK, echo.Map{"item": pv})
}
