package model

import "time"

// Ticket is the terminal artifact of a successful purchase.  Exactly one
// ticket exists per confirmed reservation.  Tickets are never updated or
// deleted: cancelling a trip cancels the reservation, not the ticket,
// which is retained for audit.
type Ticket struct {
	ID               uint64    // tickets.id
	ReservationID    uint64    // tickets.reservation_id
	PaymentMethodID  uint64    // tickets.payment_method_id
	ConfirmationCode string    // tickets.confirmation_code
	PurchasedAt      time.Time // tickets.purchased_at
}
