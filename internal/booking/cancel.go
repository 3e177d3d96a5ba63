package booking

import (
	"context"

	"github.com/skylane/flight-reservation/internal/model"
)

// CancelReservation reverses a PENDING or CONFIRMED reservation: every
// passenger seat returns to AVAILABLE and the reservation becomes
// CANCELLED, observable immediately.  A ticket already issued for a
// confirmed reservation is retained untouched; voiding or refunding it
// is a separate concern outside this service.
func (s *Service) CancelReservation(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
	var cancelled *model.Reservation
	err := s.store.InTx(ctx, func(st Store) error {
		res, err := loadOwnedReservation(ctx, st, reservationID, userID)
		if err != nil {
			return err
		}
		if err := cancelReservation(ctx, st, res); err != nil {
			return err
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
