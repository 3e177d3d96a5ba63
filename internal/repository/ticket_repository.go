package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// TicketRepo provides persistence for tickets.  Tickets are append-only:
// there are create and read operations but no update or delete, since a
// ticket is retained even after its reservation is cancelled.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo given a DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

const ticketColumns = `id, reservation_id, payment_method_id, confirmation_code, purchased_at`

func scanTicket(row *sql.Row) (*model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(&t.ID, &t.ReservationID, &t.PaymentMethodID, &t.ConfirmationCode, &t.PurchasedAt)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTx inserts a ticket and populates the generated ID and the
// database-assigned purchase timestamp on the provided record.  The
// unique index on reservation_id backs the one-ticket-per-reservation
// rule at the storage level.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (reservation_id, payment_method_id, confirmation_code) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, t.ReservationID, t.PaymentMethodID, t.ConfirmationCode)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT purchased_at FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.PurchasedAt)
}

// GetByReservationTx returns the ticket of a reservation, if any.
func (r *TicketRepo) GetByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE reservation_id = ?`
	return scanTicket(tx.QueryRowContext(ctx, q, reservationID))
}

// GetByCodeTx returns the ticket carrying the given confirmation code.
func (r *TicketRepo) GetByCodeTx(ctx context.Context, tx *sql.Tx, code string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE confirmation_code = ?`
	return scanTicket(tx.QueryRowContext(ctx, q, code))
}

// ListByUserTx returns all tickets purchased against the user's
// reservations, newest first.
func (r *TicketRepo) ListByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]model.Ticket, error) {
	const q = `SELECT t.id, t.reservation_id, t.payment_method_id, t.confirmation_code, t.purchased_at
	           FROM tickets t
	           JOIN reservations r ON r.id = t.reservation_id
	           WHERE r.user_id = ?
	           ORDER BY t.purchased_at DESC, t.id DESC`
	rows, err := tx.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.ReservationID, &t.PaymentMethodID, &t.ConfirmationCode, &t.PurchasedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// CodeExistsTx reports whether a confirmation code is already taken.
func (r *TicketRepo) CodeExistsTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tickets WHERE confirmation_code = ?)`
	var exists bool
	if err := tx.QueryRowContext(ctx, q, code).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
