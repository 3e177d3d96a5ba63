package repository

import (
	"context"
	"database/sql"

	"github.com/skylane/flight-reservation/internal/booking"
	"github.com/skylane/flight-reservation/internal/model"
)

// Store owns the database handle and runs booking units of work.  It
// implements booking.Runner: every call to InTx opens one transaction,
// hands the callback a view bound to that transaction and commits or
// rolls back depending on the callback's error.
type Store struct {
	db         *sql.DB
	seats      *SeatRepo
	flights    *FlightRepo
	res        *ReservationRepo
	passengers *PassengerRepo
	tickets    *TicketRepo
	payments   *PaymentMethodRepo
}

// NewStore constructs a Store and the per-table repositories it
// delegates to.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:         db,
		seats:      NewSeatRepo(db),
		flights:    NewFlightRepo(db),
		res:        NewReservationRepo(db),
		passengers: NewPassengerRepo(db),
		tickets:    NewTicketRepo(db),
		payments:   NewPaymentMethodRepo(db),
	}
}

// Flights exposes the flight repository for catalog reads that run
// outside a booking transaction.
func (s *Store) Flights() *FlightRepo { return s.flights }

// Seats exposes the seat repository for catalog reads that run outside
// a booking transaction.
func (s *Store) Seats() *SeatRepo { return s.seats }

// InTx runs fn inside a single transaction.  If fn returns an error the
// transaction is rolled back and the error is returned; otherwise the
// transaction commits.  Deadlocks and lock-wait timeouts surface as
// booking.ErrConflict so callers can retry.
func (s *Store) InTx(ctx context.Context, fn func(booking.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateContention(err)
	}
	if err := fn(&txStore{store: s, tx: tx}); err != nil {
		_ = tx.Rollback()
		return translateContention(err)
	}
	if err := tx.Commit(); err != nil {
		return translateContention(err)
	}
	return nil
}

// txStore is the transaction-scoped view handed to booking callbacks.
// It satisfies booking.Store by delegating each call to the matching
// repository with its transaction.
type txStore struct {
	store *Store
	tx    *sql.Tx
}

func (t *txStore) SeatForUpdate(ctx context.Context, seatID uint64) (*model.Seat, error) {
	return t.store.seats.GetForUpdateTx(ctx, t.tx, seatID)
}

func (t *txStore) SetSeatStatus(ctx context.Context, seatID uint64, from, to string) (bool, error) {
	return t.store.seats.SetStatusTx(ctx, t.tx, seatID, from, to)
}

func (t *txStore) FlightByID(ctx context.Context, flightID uint64) (*model.Flight, error) {
	return t.store.flights.GetByIDTx(ctx, t.tx, flightID)
}

func (t *txStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	return t.store.res.CreateTx(ctx, t.tx, r)
}

func (t *txStore) ReservationByID(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	return t.store.res.GetByIDTx(ctx, t.tx, reservationID)
}

func (t *txStore) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	return t.store.res.ListByUserTx(ctx, t.tx, userID)
}

func (t *txStore) SetReservationStatus(ctx context.Context, reservationID uint64, from, to string) (bool, error) {
	return t.store.res.SetStatusTx(ctx, t.tx, reservationID, from, to)
}

func (t *txStore) InsertPassenger(ctx context.Context, p *model.Passenger) error {
	return t.store.passengers.CreateTx(ctx, t.tx, p)
}

func (t *txStore) PassengerByID(ctx context.Context, passengerID uint64) (*model.Passenger, error) {
	return t.store.passengers.GetByIDTx(ctx, t.tx, passengerID)
}

func (t *txStore) PassengersByReservation(ctx context.Context, reservationID uint64) ([]model.Passenger, error) {
	return t.store.passengers.ListByReservationTx(ctx, t.tx, reservationID)
}

func (t *txStore) SetPassengerSeat(ctx context.Context, passengerID, seatID uint64) error {
	return t.store.passengers.SetSeatTx(ctx, t.tx, passengerID, seatID)
}

func (t *txStore) InsertTicket(ctx context.Context, tk *model.Ticket) error {
	return t.store.tickets.CreateTx(ctx, t.tx, tk)
}

func (t *txStore) TicketByReservation(ctx context.Context, reservationID uint64) (*model.Ticket, error) {
	return t.store.tickets.GetByReservationTx(ctx, t.tx, reservationID)
}

func (t *txStore) TicketByCode(ctx context.Context, code string) (*model.Ticket, error) {
	return t.store.tickets.GetByCodeTx(ctx, t.tx, code)
}

func (t *txStore) TicketsByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return t.store.tickets.ListByUserTx(ctx, t.tx, userID)
}

func (t *txStore) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	return t.store.tickets.CodeExistsTx(ctx, t.tx, code)
}

func (t *txStore) PaymentMethodByID(ctx context.Context, paymentMethodID uint64) (*model.PaymentMethod, error) {
	return t.store.payments.GetByIDTx(ctx, t.tx, paymentMethodID)
}
