package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  All methods
// run inside a booking transaction: reservations are never read or
// written outside one.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, user_id, status, total_amount_cents, created_at`

// CreateTx inserts a new reservation and populates the generated ID and
// the database-assigned creation timestamp on the provided record.
// Status should be a valid enumeration ('PENDING','CONFIRMED','CANCELLED').
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, status, total_amount_cents) VALUES (?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.Status, res.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row so the caller sees the DB-side created_at.
	const sel = `SELECT created_at FROM reservations WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, res.ID).Scan(&res.CreatedAt)
}

// GetByIDTx returns a reservation by primary key.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, reservationID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	err := tx.QueryRowContext(ctx, q, reservationID).Scan(
		&res.ID, &res.UserID, &res.Status, &res.TotalAmountCents, &res.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListByUserTx returns all reservations of a user, newest first.  When
// no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	rows, err := tx.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.Status, &res.TotalAmountCents, &res.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// SetStatusTx transitions a reservation from one status to another with
// the same guarded-update contract as SeatRepo.SetStatusTx: the write
// only happens when the row is still in the expected status, and the
// return value reports whether it did.
func (r *ReservationRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, reservationID uint64, from, to string) (bool, error) {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, reservationID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
