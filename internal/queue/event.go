// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketIssuedEvent is published when a purchase completes and a ticket is
// issued. It carries enough information for downstream consumers to log,
// notify, or trigger analytics without querying the primary database.
type TicketIssuedEvent struct {
	EventID          string   `json:"event_id"`
	TicketID         uint64   `json:"ticket_id"`
	ReservationID    uint64   `json:"reservation_id"`
	UserID           uint64   `json:"user_id"`
	ConfirmationCode string   `json:"confirmation_code"`
	SeatNumbers      []string `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	PurchasedAt      string   `json:"purchased_at"`
}
