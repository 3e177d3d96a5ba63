// Package booking implements the reservation-to-ticket lifecycle: seat
// inventory transitions, reservations with passenger rosters, seat
// reassignment, atomic purchase and cancellation.  All state mutations
// run inside a single transactional unit of work supplied by a Store
// runner; a failure at any step rolls back every change already applied
// so the data model never ends up in a half-mutated state.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors returned to callers.  Handlers translate these into
// HTTP status codes.  ErrConflict signals lock or transaction
// contention and is the only kind that is safe to retry from the top of
// the operation without caller-side correction.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the acting user does not own the
	// resource being operated on.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState is returned when an operation is illegal for the
	// entity's current state machine position, such as purchasing a
	// cancelled reservation.
	ErrInvalidState = errors.New("invalid state")

	// ErrSeatUnavailable is returned when a seat is not AVAILABLE at
	// the moment a hold is attempted.  It is usually wrapped in a
	// SeatUnavailableError naming the offending seat.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrDuplicateTicket is returned when a reservation already has a
	// ticket issued for it.
	ErrDuplicateTicket = errors.New("ticket already issued for reservation")

	// ErrConflict is returned on lock or transaction contention.
	ErrConflict = errors.New("conflict")
)

// SeatUnavailableError reports which seat could not be held.  It
// unwraps to ErrSeatUnavailable so callers can match the kind with
// errors.Is while still reading the offending seat id.
type SeatUnavailableError struct {
	SeatID uint64
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("seat %d is not available", e.SeatID)
}

func (e *SeatUnavailableError) Unwrap() error { return ErrSeatUnavailable }
