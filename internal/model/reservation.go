package model

import "time"

// Reservation statuses.  A reservation is created PENDING, becomes
// CONFIRMED only through a successful purchase and CANCELLED through
// the cancellation flow.  CANCELLED is terminal.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
)

// Reservation groups one or more passengers and their held seats for a
// single purchase transaction.  The total is computed once at creation
// time as the sum of (flight base fare + seat extra fare) over all
// passenger seats; it is not recomputed when a passenger changes seat.
type Reservation struct {
	ID               uint64    // reservations.id
	UserID           uint64    // reservations.user_id
	Status           string    // reservations.status
	TotalAmountCents uint32    // reservations.total_amount_cents
	CreatedAt        time.Time // reservations.created_at
}
