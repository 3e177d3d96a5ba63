package booking

import (
	"context"
	"sort"
	"sync"

	"github.com/skylane/flight-reservation/internal/model"
)

// memStore is an in-memory Store and Runner used by the tests.  A
// mutex serializes transactions, matching the serializable semantics of
// the production store, and a snapshot taken at transaction start is
// restored when the function fails, so rollback behavior is observable.
type memStore struct {
	mu sync.Mutex

	flights        map[uint64]model.Flight
	seats          map[uint64]model.Seat
	reservations   map[uint64]model.Reservation
	passengers     map[uint64]model.Passenger
	tickets        map[uint64]model.Ticket
	paymentMethods map[uint64]model.PaymentMethod

	nextID uint64
}

func newMemStore() *memStore {
	return &memStore{
		flights:        map[uint64]model.Flight{},
		seats:          map[uint64]model.Seat{},
		reservations:   map[uint64]model.Reservation{},
		passengers:     map[uint64]model.Passenger{},
		tickets:        map[uint64]model.Ticket{},
		paymentMethods: map[uint64]model.PaymentMethod{},
	}
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

type memSnapshot struct {
	seats        map[uint64]model.Seat
	reservations map[uint64]model.Reservation
	passengers   map[uint64]model.Passenger
	tickets      map[uint64]model.Ticket
	nextID       uint64
}

func copyMap[V any](src map[uint64]V) map[uint64]V {
	dst := make(map[uint64]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) InTx(ctx context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := memSnapshot{
		seats:        copyMap(m.seats),
		reservations: copyMap(m.reservations),
		passengers:   copyMap(m.passengers),
		tickets:      copyMap(m.tickets),
		nextID:       m.nextID,
	}
	if err := fn(m); err != nil {
		m.seats = snap.seats
		m.reservations = snap.reservations
		m.passengers = snap.passengers
		m.tickets = snap.tickets
		m.nextID = snap.nextID
		return err
	}
	return nil
}

// Seed helpers; callers run them outside transactions.

func (m *memStore) addFlight(number string, baseFareCents uint32) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.flights[id] = model.Flight{ID: id, FlightNumber: number, BaseFareCents: baseFareCents, Status: model.FlightScheduled}
	return id
}

func (m *memStore) addSeat(flightID uint64, number, category string, extraCents uint32) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.seats[id] = model.Seat{ID: id, FlightID: flightID, SeatNumber: number, Category: category, ExtraFareCents: extraCents, Status: model.SeatAvailable}
	return id
}

func (m *memStore) addPaymentMethod(userID uint64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.id()
	m.paymentMethods[id] = model.PaymentMethod{ID: id, UserID: userID, Label: "test card", CardLast4: "4242"}
	return id
}

func (m *memStore) seatStatus(seatID uint64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seats[seatID].Status
}

func (m *memStore) reservationStatus(reservationID uint64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reservations[reservationID].Status
}

func (m *memStore) ticketCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickets)
}

// Store implementation.

func (m *memStore) SeatForUpdate(ctx context.Context, seatID uint64) (*model.Seat, error) {
	s, ok := m.seats[seatID]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memStore) SetSeatStatus(ctx context.Context, seatID uint64, from, to string) (bool, error) {
	s, ok := m.seats[seatID]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	m.seats[seatID] = s
	return true, nil
}

func (m *memStore) FlightByID(ctx context.Context, flightID uint64) (*model.Flight, error) {
	f, ok := m.flights[flightID]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *memStore) InsertReservation(ctx context.Context, r *model.Reservation) error {
	r.ID = m.id()
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) ReservationByID(ctx context.Context, reservationID uint64) (*model.Reservation, error) {
	r, ok := m.reservations[reservationID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (m *memStore) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

func (m *memStore) SetReservationStatus(ctx context.Context, reservationID uint64, from, to string) (bool, error) {
	r, ok := m.reservations[reservationID]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	m.reservations[reservationID] = r
	return true, nil
}

func (m *memStore) InsertPassenger(ctx context.Context, p *model.Passenger) error {
	p.ID = m.id()
	m.passengers[p.ID] = *p
	return nil
}

func (m *memStore) PassengerByID(ctx context.Context, passengerID uint64) (*model.Passenger, error) {
	p, ok := m.passengers[passengerID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *memStore) PassengersByReservation(ctx context.Context, reservationID uint64) ([]model.Passenger, error) {
	var out []model.Passenger
	for _, p := range m.passengers {
		if p.ReservationID == reservationID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *memStore) SetPassengerSeat(ctx context.Context, passengerID, seatID uint64) error {
	p, ok := m.passengers[passengerID]
	if !ok {
		return ErrNotFound
	}
	p.SeatID = seatID
	m.passengers[passengerID] = p
	return nil
}

func (m *memStore) InsertTicket(ctx context.Context, t *model.Ticket) error {
	t.ID = m.id()
	m.tickets[t.ID] = *t
	return nil
}

func (m *memStore) TicketByReservation(ctx context.Context, reservationID uint64) (*model.Ticket, error) {
	for _, t := range m.tickets {
		if t.ReservationID == reservationID {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) TicketByCode(ctx context.Context, code string) (*model.Ticket, error) {
	for _, t := range m.tickets {
		if t.ConfirmationCode == code {
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) TicketsByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range m.tickets {
		if r, ok := m.reservations[t.ReservationID]; ok && r.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID > out[b].ID })
	return out, nil
}

func (m *memStore) ConfirmationCodeExists(ctx context.Context, code string) (bool, error) {
	for _, t := range m.tickets {
		if t.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) PaymentMethodByID(ctx context.Context, paymentMethodID uint64) (*model.PaymentMethod, error) {
	pm, ok := m.paymentMethods[paymentMethodID]
	if !ok {
		return nil, ErrNotFound
	}
	return &pm, nil
}
