package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// FlightRepo provides read access to flights.  Flight rows are
// reference data maintained by an external scheduling system, so there
// are no write operations here.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo given a DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

const flightColumns = `id, flight_number, departs_at, arrives_at, base_fare_cents, status`

func scanFlight(row *sql.Row) (*model.Flight, error) {
	var f model.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.DepartsAt, &f.ArrivesAt, &f.BaseFareCents, &f.Status)
	if err == sql.ErrNoRows {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByID returns a single flight for catalog display.
func (r *FlightRepo) GetByID(ctx context.Context, flightID uint64) (*model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights WHERE id = ?`
	return scanFlight(r.db.QueryRowContext(ctx, q, flightID))
}

// GetByIDTx returns a flight inside a booking transaction, used to
// price seats while they are being held.
func (r *FlightRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, flightID uint64) (*model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights WHERE id = ?`
	return scanFlight(tx.QueryRowContext(ctx, q, flightID))
}

// List returns all flights ordered by departure time.  Cancelled
// flights are included; clients filter on status themselves.
func (r *FlightRepo) List(ctx context.Context) ([]model.Flight, error) {
	const q = `SELECT ` + flightColumns + ` FROM flights ORDER BY departs_at`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	flights := make([]model.Flight, 0)
	for rows.Next() {
		var f model.Flight
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.DepartsAt, &f.ArrivesAt, &f.BaseFareCents, &f.Status); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return flights, nil
}
