package booking

import (
	"context"
	"fmt"

	"github.com/skylane/flight-reservation/internal/model"
)

// ChangeSeat moves a passenger to a different seat while the owning
// reservation is still PENDING.  The new seat is held before the old
// one is released: if the hold fails the operation aborts with the old
// seat untouched, so the passenger is never left seatless mid-change.
// The reservation total is intentionally not recomputed; it was fixed
// when the reservation was created.
func (s *Service) ChangeSeat(ctx context.Context, reservationID, passengerID, newSeatID, userID uint64) (*PassengerSeat, error) {
	var result *PassengerSeat
	err := s.store.InTx(ctx, func(st Store) error {
		res, err := loadOwnedReservation(ctx, st, reservationID, userID)
		if err != nil {
			return err
		}
		if res.Status != model.ReservationPending {
			return fmt.Errorf("change seat on reservation in status %s: %w", res.Status, ErrInvalidState)
		}
		passenger, err := st.PassengerByID(ctx, passengerID)
		if err != nil {
			return err
		}
		if passenger.ReservationID != res.ID {
			return ErrNotFound
		}
		if passenger.SeatID == newSeatID {
			return &SeatUnavailableError{SeatID: newSeatID}
		}

		// Hold the new seat first; abort on failure leaving the old
		// hold in place.
		newSeat, err := holdSeat(ctx, st, newSeatID)
		if err != nil {
			return err
		}
		if err := releaseSeat(ctx, st, passenger.SeatID); err != nil {
			return err
		}
		if err := st.SetPassengerSeat(ctx, passenger.ID, newSeatID); err != nil {
			return err
		}
		passenger.SeatID = newSeatID
		result = &PassengerSeat{Passenger: *passenger, Seat: *newSeat}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
