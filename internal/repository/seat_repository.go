package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// SeatRepo encapsulates database operations for seats.  Seat status
// never changes through a plain UPDATE: every transition goes through
// SetStatusTx, which writes only when the row is still in the expected
// state.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo given a DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

const seatColumns = `id, flight_id, seat_number, category, extra_fare_cents, status`

func scanSeat(row *sql.Row) (*model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Category, &s.ExtraFareCents, &s.Status)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetForUpdateTx loads a seat and takes an exclusive row lock that is
// held until the transaction ends.  Concurrent transactions locking the
// same seat serialize here, which is what makes the guarded status
// updates race-free.
func (r *SeatRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, seatID uint64) (*model.Seat, error) {
	const q = `SELECT ` + seatColumns + ` FROM seats WHERE id = ? FOR UPDATE`
	return scanSeat(tx.QueryRowContext(ctx, q, seatID))
}

// SetStatusTx transitions a seat from one status to another.  The
// UPDATE is guarded by the expected current status; when the seat is
// missing or already moved on, no row is affected and false is
// returned.
func (r *SeatRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, seatID uint64, from, to string) (bool, error) {
	const q = `UPDATE seats SET status = ? WHERE id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, seatID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByFlight returns the seats of a flight ordered by seat number.
// When onlyAvailable is set, seats currently held or occupied are
// filtered out.  A non-empty category restricts the result to that
// cabin class.  This is a catalog read and runs outside any booking
// transaction.
func (r *SeatRepo) ListByFlight(ctx context.Context, flightID uint64, onlyAvailable bool, category string) ([]model.Seat, error) {
	q := `SELECT ` + seatColumns + ` FROM seats WHERE flight_id = ?`
	args := []interface{}{flightID}
	if onlyAvailable {
		q += ` AND status = ?`
		args = append(args, model.SeatAvailable)
	}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += ` ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Category, &s.ExtraFareCents, &s.Status); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
