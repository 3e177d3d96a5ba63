package booking

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/skylane/flight-reservation/internal/model"
)

// codeAlphabet is the confirmation code character set: uppercase
// letters and digits.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// codeLength is the fixed confirmation code length.
const codeLength = 8

// randomCode draws codeLength characters from codeAlphabet using a
// cryptographically unpredictable source.
func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}

// generateConfirmationCode produces a globally unique confirmation
// code, retrying on collision.  With 36^8 possible codes collisions are
// practically unreachable, so the loop is bounded only by the context.
func generateConfirmationCode(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}

// issueTicket creates the single ticket for a reservation with a fresh
// confirmation code.  It fails with ErrDuplicateTicket when the
// reservation already has one.
func issueTicket(ctx context.Context, st Store, reservationID, paymentMethodID uint64) (*model.Ticket, error) {
	if _, err := st.TicketByReservation(ctx, reservationID); err == nil {
		return nil, ErrDuplicateTicket
	} else if err != ErrNotFound {
		return nil, err
	}
	code, err := generateConfirmationCode(ctx, st.ConfirmationCodeExists)
	if err != nil {
		return nil, err
	}
	t := &model.Ticket{
		ReservationID:    reservationID,
		PaymentMethodID:  paymentMethodID,
		ConfirmationCode: code,
		PurchasedAt:      time.Now().UTC(),
	}
	if err := st.InsertTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// TicketByConfirmationCode looks a ticket up by its public code and
// returns it with the reservation it paid for and the roster.
func (s *Service) TicketByConfirmationCode(ctx context.Context, code string) (*TicketDetail, error) {
	if len(code) != codeLength {
		return nil, fmt.Errorf("confirmation code %q: %w", code, ErrNotFound)
	}
	var detail *TicketDetail
	err := s.store.InTx(ctx, func(st Store) error {
		ticket, err := st.TicketByCode(ctx, code)
		if err != nil {
			return err
		}
		res, err := st.ReservationByID(ctx, ticket.ReservationID)
		if err != nil {
			return err
		}
		roster, err := loadRoster(ctx, st, res.ID)
		if err != nil {
			return err
		}
		detail = &TicketDetail{Ticket: *ticket, Reservation: *res, Passengers: roster}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// TicketsForUser lists the user's purchased tickets, newest first.
func (s *Service) TicketsForUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := s.store.InTx(ctx, func(st Store) error {
		var err error
		tickets, err = st.TicketsByUser(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
