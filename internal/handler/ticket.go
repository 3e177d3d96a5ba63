package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/queue"
)

// TicketHandler serves the purchase and ticket lookup endpoints.
type TicketHandler struct {
	Svc *booking.Service // booking service running the transactional flows
}

// NewTicketHandler constructs a TicketHandler. The service must be non-nil.
func NewTicketHandler(svc *booking.Service) *TicketHandler {
	if svc == nil {
		panic("nil service passed to NewTicketHandler")
	}
	return &TicketHandler{Svc: svc}
}

// TicketView is the ticket shape returned to clients.
type TicketView struct {
	ID               uint64    `json:"id"`
	ReservationID    uint64    `json:"reservation_id"`
	ConfirmationCode string    `json:"confirmation_code"`
	PurchasedAt      time.Time `json:"purchased_at"`
}

func toTicketView(t booking.TicketDetail) TicketView {
	return TicketView{
		ID:               t.Ticket.ID,
		ReservationID:    t.Ticket.ReservationID,
		ConfirmationCode: t.Ticket.ConfirmationCode,
		PurchasedAt:      t.Ticket.PurchasedAt,
	}
}

// Purchase handles POST /v1/tickets/purchase. The body names a pending
// reservation and a stored payment method, both owned by the caller.
// Confirming the reservation, occupying its seats and issuing the
// ticket happen in one transaction; on success a ticket.issued event is
// published for downstream consumers. Returns 201 Created with the
// ticket and its confirmation code.
func (h *TicketHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ReservationID   uint64 `json:"reservation_id"`
		PaymentMethodID uint64 `json:"payment_method_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ReservationID == 0 || body.PaymentMethodID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservation_id and payment_method_id are required"})
	}
	ctx := c.Request().Context()
	ticket, err := h.Svc.Purchase(ctx, body.ReservationID, body.PaymentMethodID, userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	// Publish the event best effort: a broker outage must not fail a
	// purchase that already committed.
	detail, err := h.Svc.Reservation(ctx, ticket.ReservationID, userID)
	if err != nil {
		log.Printf("ticket: load reservation %d for event failed: %v", ticket.ReservationID, err)
	} else {
		ev := queue.TicketIssuedEvent{
			EventID:          uuid.NewString(),
			TicketID:         ticket.ID,
			ReservationID:    ticket.ReservationID,
			UserID:           userID,
			ConfirmationCode: ticket.ConfirmationCode,
			TotalAmountCents: detail.Reservation.TotalAmountCents,
			PurchasedAt:      ticket.PurchasedAt.Format(time.RFC3339),
		}
		for _, ps := range detail.Passengers {
			ev.SeatNumbers = append(ev.SeatNumbers, ps.Seat.SeatNumber)
		}
		go func() {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = queue.PublishTicketIssued(pubCtx, ev)
		}()
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":                ticket.ID,
		"reservation_id":    ticket.ReservationID,
		"confirmation_code": ticket.ConfirmationCode,
		"purchased_at":      ticket.PurchasedAt,
	})
}

// ListMine handles GET /v1/tickets/me. It returns all tickets purchased
// by the current user, newest first.
func (h *TicketHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tickets, err := h.Svc.TicketsForUser(c.Request().Context(), userID)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketView{
			ID:               t.ID,
			ReservationID:    t.ReservationID,
			ConfirmationCode: t.ConfirmationCode,
			PurchasedAt:      t.PurchasedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetByCode handles GET /v1/tickets/confirmation/:code. Confirmation
// codes are unguessable, so the lookup works for any authenticated user
// presenting a valid code, the way an airline check-in kiosk does.
func (h *TicketHandler) GetByCode(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid confirmation code"})
	}
	detail, err := h.Svc.TicketByConfirmationCode(c.Request().Context(), code)
	if err != nil {
		return respondDomainError(c, err)
	}
	view := toTicketView(*detail)
	res := toReservationView(booking.ReservationDetail{
		Reservation: detail.Reservation,
		Passengers:  detail.Passengers,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"item":        view,
		"reservation": res,
	})
}
