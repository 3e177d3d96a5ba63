package booking

import (
	"context"
	"fmt"

	"github.com/skylane/flight-reservation/internal/model"
)

// Seat inventory transitions.  Each helper runs inside the caller's
// transaction and relies on the Store's compare-and-set updates, so two
// concurrent holds on the same seat can never both succeed: the row is
// locked first and the guarded UPDATE only fires when the seat is still
// in the expected status.

// holdSeat claims an AVAILABLE seat, transitioning it to HELD.  It
// returns the locked seat row on success and a SeatUnavailableError
// when the seat is missing, already held or already occupied.
func holdSeat(ctx context.Context, st Store, seatID uint64) (*model.Seat, error) {
	seat, err := st.SeatForUpdate(ctx, seatID)
	if err != nil {
		if err == ErrNotFound {
			return nil, &SeatUnavailableError{SeatID: seatID}
		}
		return nil, err
	}
	ok, err := st.SetSeatStatus(ctx, seatID, model.SeatAvailable, model.SeatHeld)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SeatUnavailableError{SeatID: seatID}
	}
	seat.Status = model.SeatHeld
	return seat, nil
}

// occupySeat transitions a HELD seat to OCCUPIED.  Any other current
// status is an ErrInvalidState: occupation is only legal as part of
// confirming a reservation whose holds are still in place.
func occupySeat(ctx context.Context, st Store, seatID uint64) error {
	ok, err := st.SetSeatStatus(ctx, seatID, model.SeatHeld, model.SeatOccupied)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("occupy seat %d: %w", seatID, ErrInvalidState)
	}
	return nil
}

// releaseSeat returns a HELD or OCCUPIED seat to AVAILABLE.  Releasing
// a seat that is already AVAILABLE is a no-op, which keeps compensating
// rollbacks free to release unconditionally.
func releaseSeat(ctx context.Context, st Store, seatID uint64) error {
	seat, err := st.SeatForUpdate(ctx, seatID)
	if err != nil {
		return err
	}
	if seat.Status == model.SeatAvailable {
		return nil
	}
	ok, err := st.SetSeatStatus(ctx, seatID, seat.Status, model.SeatAvailable)
	if err != nil {
		return err
	}
	if !ok {
		// Row is locked, so the status cannot have moved under us.
		return fmt.Errorf("release seat %d: %w", seatID, ErrConflict)
	}
	return nil
}

// seatPrice computes the full fare for a seat: the owning flight's base
// fare plus the seat's extra fare.
func seatPrice(ctx context.Context, st Store, seat *model.Seat) (uint32, error) {
	flight, err := st.FlightByID(ctx, seat.FlightID)
	if err != nil {
		return 0, err
	}
	return seat.PriceCents(flight.BaseFareCents), nil
}
