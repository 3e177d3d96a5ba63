package booking

import (
	"context"

	"github.com/skylane/flight-reservation/internal/model"
)

// Store is the transactional unit of work the booking service operates
// on.  Every method sees the same transaction; the MySQL implementation
// wraps a *sql.Tx, tests use an in-memory store.  Lookup methods return
// ErrNotFound when the row is absent.  Status updates are guarded
// compare-and-set operations: they report false, rather than writing,
// when the current status does not match the expected one.  A plain
// read-then-write on seat or reservation status is never exposed.
type Store interface {
	// SeatForUpdate loads a seat and takes an exclusive row lock on it
	// for the remainder of the transaction.
	SeatForUpdate(ctx context.Context, seatID uint64) (*model.Seat, error)
	// SetSeatStatus transitions a seat from one status to another.  It
	// returns false when the seat is missing or not currently in the
	// from status.
	SetSeatStatus(ctx context.Context, seatID uint64, from, to string) (bool, error)

	FlightByID(ctx context.Context, flightID uint64) (*model.Flight, error)

	InsertReservation(ctx context.Context, r *model.Reservation) error
	ReservationByID(ctx context.Context, reservationID uint64) (*model.Reservation, error)
	ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	// SetReservationStatus is the reservation counterpart of
	// SetSeatStatus with the same compare-and-set contract.
	SetReservationStatus(ctx context.Context, reservationID uint64, from, to string) (bool, error)

	InsertPassenger(ctx context.Context, p *model.Passenger) error
	PassengerByID(ctx context.Context, passengerID uint64) (*model.Passenger, error)
	PassengersByReservation(ctx context.Context, reservationID uint64) ([]model.Passenger, error)
	SetPassengerSeat(ctx context.Context, passengerID, seatID uint64) error

	InsertTicket(ctx context.Context, t *model.Ticket) error
	TicketByReservation(ctx context.Context, reservationID uint64) (*model.Ticket, error)
	TicketByCode(ctx context.Context, code string) (*model.Ticket, error)
	TicketsByUser(ctx context.Context, userID uint64) ([]model.Ticket, error)
	ConfirmationCodeExists(ctx context.Context, code string) (bool, error)

	PaymentMethodByID(ctx context.Context, paymentMethodID uint64) (*model.PaymentMethod, error)
}

// Runner executes a function inside a transaction.  When fn returns an
// error the transaction is rolled back and the error is returned as-is;
// otherwise the transaction commits.  Implementations map storage-level
// contention (deadlock, lock wait timeout) to ErrConflict.
type Runner interface {
	InTx(ctx context.Context, fn func(Store) error) error
}
