package booking

import (
	"context"
	"fmt"
	"sort"

	"github.com/skylane/flight-reservation/internal/model"
)

// Reservation state machine transitions.  Both helpers run inside the
// caller's transaction; a failure part-way rolls back every seat
// already flipped, so a reservation is never confirmed with a mix of
// HELD and OCCUPIED seats, nor cancelled with some seats still claimed.

// confirmReservation occupies every passenger seat and flips the
// reservation PENDING -> CONFIRMED.  It is only legal from PENDING.
// An occupy failure should be impossible while holds are exclusive,
// but is still checked: the whole confirm fails and nothing is kept.
func confirmReservation(ctx context.Context, st Store, res *model.Reservation) error {
	if res.Status != model.ReservationPending {
		return fmt.Errorf("confirm reservation %d in status %s: %w", res.ID, res.Status, ErrInvalidState)
	}
	seatIDs, err := rosterSeatIDs(ctx, st, res.ID)
	if err != nil {
		return err
	}
	for _, id := range seatIDs {
		if err := occupySeat(ctx, st, id); err != nil {
			return err
		}
	}
	ok, err := st.SetReservationStatus(ctx, res.ID, model.ReservationPending, model.ReservationConfirmed)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("confirm reservation %d: %w", res.ID, ErrConflict)
	}
	res.Status = model.ReservationConfirmed
	return nil
}

// cancelReservation releases every passenger seat and flips the
// reservation to CANCELLED.  It is legal from PENDING or CONFIRMED;
// cancelling an already cancelled reservation is an ErrInvalidState.
func cancelReservation(ctx context.Context, st Store, res *model.Reservation) error {
	if res.Status != model.ReservationPending && res.Status != model.ReservationConfirmed {
		return fmt.Errorf("cancel reservation %d in status %s: %w", res.ID, res.Status, ErrInvalidState)
	}
	seatIDs, err := rosterSeatIDs(ctx, st, res.ID)
	if err != nil {
		return err
	}
	for _, id := range seatIDs {
		if err := releaseSeat(ctx, st, id); err != nil {
			return err
		}
	}
	ok, err := st.SetReservationStatus(ctx, res.ID, res.Status, model.ReservationCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("cancel reservation %d: %w", res.ID, ErrConflict)
	}
	res.Status = model.ReservationCancelled
	return nil
}

// rosterSeatIDs returns the reservation's passenger seat ids in
// ascending order, the fixed lock order for multi-seat operations.
func rosterSeatIDs(ctx context.Context, st Store, reservationID uint64) ([]uint64, error) {
	passengers, err := st.PassengersByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(passengers))
	for _, p := range passengers {
		ids = append(ids, p.SeatID)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	return ids, nil
}
