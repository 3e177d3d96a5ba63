package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// PassengerRepo provides persistence for passengers, the rows binding a
// traveller on a reservation to exactly one seat.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo constructs a PassengerRepo given a DB handle.
func NewPassengerRepo(db *sql.DB) *PassengerRepo {
	return &PassengerRepo{db: db}
}

const passengerColumns = `id, reservation_id, seat_id, full_name, document`

// CreateTx inserts a passenger and populates the generated ID on the
// provided record.
func (r *PassengerRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Passenger) error {
	const q = `INSERT INTO passengers (reservation_id, seat_id, full_name, document) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, p.ReservationID, p.SeatID, p.FullName, p.Document)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByIDTx returns a passenger by primary key.
func (r *PassengerRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, passengerID uint64) (*model.Passenger, error) {
	const q = `SELECT ` + passengerColumns + ` FROM passengers WHERE id = ?`
	var p model.Passenger
	err := tx.QueryRowContext(ctx, q, passengerID).Scan(
		&p.ID, &p.ReservationID, &p.SeatID, &p.FullName, &p.Document,
	)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByReservationTx returns the passengers of a reservation in
// insertion order.
func (r *PassengerRepo) ListByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]model.Passenger, error) {
	const q = `SELECT ` + passengerColumns + ` FROM passengers WHERE reservation_id = ? ORDER BY id`
	rows, err := tx.QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]model.Passenger, 0)
	for rows.Next() {
		var p model.Passenger
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.SeatID, &p.FullName, &p.Document); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// SetSeatTx repoints a passenger to a different seat.  The seat state
// transitions around this write are handled by the caller inside the
// same transaction.
func (r *PassengerRepo) SetSeatTx(ctx context.Context, tx *sql.Tx, passengerID, seatID uint64) error {
	const q = `UPDATE passengers SET seat_id = ? WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, seatID, passengerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrNotFound
	}
	return nil
}
