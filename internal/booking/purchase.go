package booking

import (
	"context"
	"fmt"

	"github.com/skylane/flight-reservation/internal/model"
)

// Purchase converts a PENDING reservation into a purchased ticket as
// one atomic unit: preconditions, seat occupation, reservation
// confirmation and ticket issuance all happen in a single transaction.
// If issuance fails after confirmation the transaction rolls back, so
// the system never ends in "confirmed with no ticket" — the reservation
// stays PENDING with its seats HELD.
func (s *Service) Purchase(ctx context.Context, reservationID, paymentMethodID, userID uint64) (*model.Ticket, error) {
	var ticket *model.Ticket
	err := s.store.InTx(ctx, func(st Store) error {
		res, err := loadOwnedReservation(ctx, st, reservationID, userID)
		if err != nil {
			return err
		}
		if res.Status != model.ReservationPending {
			return fmt.Errorf("purchase reservation in status %s: %w", res.Status, ErrInvalidState)
		}
		if _, err := st.TicketByReservation(ctx, res.ID); err == nil {
			return ErrDuplicateTicket
		} else if err != ErrNotFound {
			return err
		}

		// The payment method must exist and belong to the buyer.  The
		// method itself is an opaque capability: charging happens in an
		// external payment system.
		pm, err := st.PaymentMethodByID(ctx, paymentMethodID)
		if err != nil {
			return err
		}
		if pm.UserID != userID {
			return ErrForbidden
		}

		if err := confirmReservation(ctx, st, res); err != nil {
			return err
		}
		ticket, err = issueTicket(ctx, st, res.ID, pm.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
