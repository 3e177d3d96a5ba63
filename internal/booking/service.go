package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/skylane/flight-reservation/internal/model"
)

// Service exposes the booking operations.  It owns no state of its own;
// every operation opens one transaction through the Runner and performs
// all reads and writes inside it.
type Service struct {
	store Runner
}

// NewService constructs a Service.  The runner must be non-nil.
func NewService(store Runner) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	return &Service{store: store}
}

// PassengerInput describes one passenger in a reservation request.
type PassengerInput struct {
	SeatID   uint64
	FullName string
	Document string
}

// PassengerSeat pairs a passenger with the seat currently bound to it.
type PassengerSeat struct {
	Passenger model.Passenger
	Seat      model.Seat
}

// ReservationDetail is a reservation together with its passenger roster
// and their seats.
type ReservationDetail struct {
	Reservation model.Reservation
	Passengers  []PassengerSeat
}

// TicketDetail is a ticket together with the reservation it paid for
// and the passenger roster, used for confirmation-code lookups.
type TicketDetail struct {
	Ticket      model.Ticket
	Reservation model.Reservation
	Passengers  []PassengerSeat
}

// CreateReservation creates a PENDING reservation for userID, holding
// one seat per passenger.  Seats are claimed in ascending seat id order
// so that concurrent reservations touching the same seats cannot
// deadlock.  If any seat cannot be held the transaction rolls back,
// releasing every hold already taken in this call, and the error names
// the offending seat.  The total is the sum of each passenger seat's
// flight base fare plus extra fare, fixed at creation time.
func (s *Service) CreateReservation(ctx context.Context, userID uint64, passengers []PassengerInput) (*ReservationDetail, error) {
	if len(passengers) == 0 {
		return nil, errors.New("at least one passenger is required")
	}

	var detail *ReservationDetail
	err := s.store.InTx(ctx, func(st Store) error {
		// Claim seats in ascending id order regardless of the order
		// passengers were supplied in.
		order := make([]int, len(passengers))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return passengers[order[a]].SeatID < passengers[order[b]].SeatID
		})

		seats := make(map[uint64]*model.Seat, len(passengers))
		var total uint32
		for _, idx := range order {
			seat, err := holdSeat(ctx, st, passengers[idx].SeatID)
			if err != nil {
				return err
			}
			price, err := seatPrice(ctx, st, seat)
			if err != nil {
				return err
			}
			total += price
			seats[seat.ID] = seat
		}

		res := &model.Reservation{
			UserID:           userID,
			Status:           model.ReservationPending,
			TotalAmountCents: total,
			CreatedAt:        time.Now().UTC(),
		}
		if err := st.InsertReservation(ctx, res); err != nil {
			return err
		}

		detail = &ReservationDetail{Reservation: *res}
		for i, in := range passengers {
			p := &model.Passenger{
				ReservationID: res.ID,
				SeatID:        in.SeatID,
				FullName:      in.FullName,
				Document:      in.Document,
			}
			if err := st.InsertPassenger(ctx, p); err != nil {
				return err
			}
			detail.Passengers = append(detail.Passengers, PassengerSeat{
				Passenger: *p,
				Seat:      *seats[passengers[i].SeatID],
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Reservation loads a reservation with its passengers and seats.  The
// acting user must own it.
func (s *Service) Reservation(ctx context.Context, reservationID, userID uint64) (*ReservationDetail, error) {
	var detail *ReservationDetail
	err := s.store.InTx(ctx, func(st Store) error {
		res, err := loadOwnedReservation(ctx, st, reservationID, userID)
		if err != nil {
			return err
		}
		roster, err := loadRoster(ctx, st, res.ID)
		if err != nil {
			return err
		}
		detail = &ReservationDetail{Reservation: *res, Passengers: roster}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// ReservationsForUser lists the user's reservations, newest first, each
// with its passenger roster.
func (s *Service) ReservationsForUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
	var details []ReservationDetail
	err := s.store.InTx(ctx, func(st Store) error {
		list, err := st.ReservationsByUser(ctx, userID)
		if err != nil {
			return err
		}
		details = make([]ReservationDetail, 0, len(list))
		for _, res := range list {
			roster, err := loadRoster(ctx, st, res.ID)
			if err != nil {
				return err
			}
			details = append(details, ReservationDetail{Reservation: res, Passengers: roster})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// loadOwnedReservation fetches a reservation and enforces ownership.
func loadOwnedReservation(ctx context.Context, st Store, reservationID, userID uint64) (*model.Reservation, error) {
	res, err := st.ReservationByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.UserID != userID {
		return nil, ErrForbidden
	}
	return res, nil
}

// loadRoster fetches the passengers of a reservation together with
// their current seats.
func loadRoster(ctx context.Context, st Store, reservationID uint64) ([]PassengerSeat, error) {
	passengers, err := st.PassengersByReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	roster := make([]PassengerSeat, 0, len(passengers))
	for _, p := range passengers {
		seat, err := st.SeatForUpdate(ctx, p.SeatID)
		if err != nil {
			return nil, err
		}
		roster = append(roster, PassengerSeat{Passenger: p, Seat: *seat})
	}
	return roster, nil
}
