package booking

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/skylane/flight-reservation/internal/model"
)

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return NewService(store), store
}

func TestCreateReservationComputesTotal(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 2000)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron", Document: "P1234567"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if got := detail.Reservation.TotalAmountCents; got != 12000 {
		t.Errorf("total = %d, want 12000", got)
	}
	if detail.Reservation.Status != model.ReservationPending {
		t.Errorf("status = %s, want %s", detail.Reservation.Status, model.ReservationPending)
	}
	if got := store.seatStatus(seat); got != model.SeatHeld {
		t.Errorf("seat status = %s, want %s", got, model.SeatHeld)
	}
	if len(detail.Passengers) != 1 || detail.Passengers[0].Passenger.FullName != "Ada Byron" {
		t.Errorf("unexpected roster: %+v", detail.Passengers)
	}
}

func TestCreateReservationRollsBackHeldSeats(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	first := store.addSeat(flight, "10A", model.CategoryEconomy, 0)
	taken := store.addSeat(flight, "10B", model.CategoryEconomy, 0)

	// Someone else already holds 10B.
	if _, err := svc.CreateReservation(context.Background(), 2, []PassengerInput{
		{SeatID: taken, FullName: "First Comer"},
	}); err != nil {
		t.Fatalf("seed reservation: %v", err)
	}

	_, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: first, FullName: "A"},
		{SeatID: taken, FullName: "B"},
	})
	var su *SeatUnavailableError
	if !errors.As(err, &su) {
		t.Fatalf("err = %v, want SeatUnavailableError", err)
	}
	if su.SeatID != taken {
		t.Errorf("offending seat = %d, want %d", su.SeatID, taken)
	}
	// The hold taken on 10A in the same call must have been released.
	if got := store.seatStatus(first); got != model.SeatAvailable {
		t.Errorf("seat 10A status = %s, want %s", got, model.SeatAvailable)
	}
}

func TestConcurrentCreateReservationSameSeat(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "12A", model.CategoryEconomy, 0)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateReservation(context.Background(), uint64(i+1), []PassengerInput{
				{SeatID: seat, FullName: "Racer"},
			})
		}(i)
	}
	wg.Wait()

	var ok, unavailable int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSeatUnavailable):
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || unavailable != 1 {
		t.Fatalf("successes = %d, unavailable = %d, want exactly one of each", ok, unavailable)
	}
	if got := store.seatStatus(seat); got != model.SeatHeld {
		t.Errorf("seat status = %s, want %s", got, model.SeatHeld)
	}
}

var codePattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestPurchaseConfirmsAndIssuesTicket(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 2000)
	payment := store.addPaymentMethod(1)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	ticket, err := svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if !codePattern.MatchString(ticket.ConfirmationCode) {
		t.Errorf("confirmation code %q does not match [A-Z0-9]{8}", ticket.ConfirmationCode)
	}
	if got := store.seatStatus(seat); got != model.SeatOccupied {
		t.Errorf("seat status = %s, want %s", got, model.SeatOccupied)
	}
	if got := store.reservationStatus(detail.Reservation.ID); got != model.ReservationConfirmed {
		t.Errorf("reservation status = %s, want %s", got, model.ReservationConfirmed)
	}
}

func TestPurchaseTwiceYieldsOneTicket(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 0)
	payment := store.addPaymentMethod(1)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1); err != nil {
		t.Fatalf("first Purchase: %v", err)
	}
	_, err = svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1)
	if !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrDuplicateTicket) {
		t.Fatalf("second Purchase err = %v, want invalid state or duplicate ticket", err)
	}
	if n := store.ticketCount(); n != 1 {
		t.Errorf("ticket rows = %d, want 1", n)
	}
}

func TestPurchaseOwnershipChecks(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 0)
	ownPayment := store.addPaymentMethod(1)
	otherPayment := store.addPaymentMethod(9)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	if _, err := svc.Purchase(context.Background(), detail.Reservation.ID, ownPayment, 2); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign user err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Purchase(context.Background(), detail.Reservation.ID, otherPayment, 1); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign payment method err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Purchase(context.Background(), 9999, ownPayment, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing reservation err = %v, want ErrNotFound", err)
	}
	// Nothing above may have moved the state.
	if got := store.seatStatus(seat); got != model.SeatHeld {
		t.Errorf("seat status = %s, want %s", got, model.SeatHeld)
	}
	if got := store.reservationStatus(detail.Reservation.ID); got != model.ReservationPending {
		t.Errorf("reservation status = %s, want %s", got, model.ReservationPending)
	}
}

func TestPurchaseFailureLeavesSeatsHeld(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	a := store.addSeat(flight, "1A", model.CategoryBusiness, 5000)
	b := store.addSeat(flight, "1B", model.CategoryBusiness, 5000)
	payment := store.addPaymentMethod(1)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: a, FullName: "A"},
		{SeatID: b, FullName: "B"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}

	// Corrupt one hold so occupation must fail mid-confirm.
	store.mu.Lock()
	s := store.seats[b]
	s.Status = model.SeatAvailable
	store.seats[b] = s
	store.mu.Unlock()

	if _, err := svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Purchase err = %v, want ErrInvalidState", err)
	}
	// No partial occupation: the intact seat rolled back to HELD and
	// the reservation is still PENDING with no ticket.
	if got := store.seatStatus(a); got != model.SeatHeld {
		t.Errorf("seat 1A status = %s, want %s", got, model.SeatHeld)
	}
	if got := store.reservationStatus(detail.Reservation.ID); got != model.ReservationPending {
		t.Errorf("reservation status = %s, want %s", got, model.ReservationPending)
	}
	if n := store.ticketCount(); n != 0 {
		t.Errorf("ticket rows = %d, want 0", n)
	}
}

func TestCancelConfirmedReleasesSeatsKeepsTicket(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	a := store.addSeat(flight, "1A", model.CategoryFirst, 9000)
	b := store.addSeat(flight, "1B", model.CategoryFirst, 9000)
	payment := store.addPaymentMethod(1)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: a, FullName: "A"},
		{SeatID: b, FullName: "B"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	ticket, err := svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	cancelled, err := svc.CancelReservation(context.Background(), detail.Reservation.ID, 1)
	if err != nil {
		t.Fatalf("CancelReservation: %v", err)
	}
	if cancelled.Status != model.ReservationCancelled {
		t.Errorf("status = %s, want %s", cancelled.Status, model.ReservationCancelled)
	}
	for _, seat := range []uint64{a, b} {
		if got := store.seatStatus(seat); got != model.SeatAvailable {
			t.Errorf("seat %d status = %s, want %s", seat, got, model.SeatAvailable)
		}
	}
	// The ticket is audit data and survives cancellation unmodified.
	kept, err := svc.TicketByConfirmationCode(context.Background(), ticket.ConfirmationCode)
	if err != nil {
		t.Fatalf("TicketByConfirmationCode after cancel: %v", err)
	}
	if kept.Ticket.ID != ticket.ID || kept.Ticket.ConfirmationCode != ticket.ConfirmationCode {
		t.Errorf("ticket changed after cancel: %+v", kept.Ticket)
	}
}

func TestCancelTwiceIsInvalid(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 0)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.CancelReservation(context.Background(), detail.Reservation.ID, 1); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := svc.CancelReservation(context.Background(), detail.Reservation.ID, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second cancel err = %v, want ErrInvalidState", err)
	}
}

func TestChangeSeat(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	oldSeat := store.addSeat(flight, "3C", model.CategoryEconomy, 0)
	newSeat := store.addSeat(flight, "3D", model.CategoryEconomy, 1500)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: oldSeat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	passengerID := detail.Passengers[0].Passenger.ID

	moved, err := svc.ChangeSeat(context.Background(), detail.Reservation.ID, passengerID, newSeat, 1)
	if err != nil {
		t.Fatalf("ChangeSeat: %v", err)
	}
	if moved.Passenger.SeatID != newSeat {
		t.Errorf("passenger seat = %d, want %d", moved.Passenger.SeatID, newSeat)
	}
	if got := store.seatStatus(newSeat); got != model.SeatHeld {
		t.Errorf("new seat status = %s, want %s", got, model.SeatHeld)
	}
	if got := store.seatStatus(oldSeat); got != model.SeatAvailable {
		t.Errorf("old seat status = %s, want %s", got, model.SeatAvailable)
	}
	// Totals are fixed at creation and must not move with the seat.
	after, err := svc.Reservation(context.Background(), detail.Reservation.ID, 1)
	if err != nil {
		t.Fatalf("Reservation: %v", err)
	}
	if after.Reservation.TotalAmountCents != detail.Reservation.TotalAmountCents {
		t.Errorf("total changed from %d to %d on seat change",
			detail.Reservation.TotalAmountCents, after.Reservation.TotalAmountCents)
	}
}

func TestChangeSeatUnavailableKeepsOldHold(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	oldSeat := store.addSeat(flight, "3C", model.CategoryEconomy, 0)
	occupied := store.addSeat(flight, "3D", model.CategoryEconomy, 0)
	payment := store.addPaymentMethod(2)

	// A purchased reservation occupies 3D.
	other, err := svc.CreateReservation(context.Background(), 2, []PassengerInput{
		{SeatID: occupied, FullName: "Other"},
	})
	if err != nil {
		t.Fatalf("seed reservation: %v", err)
	}
	if _, err := svc.Purchase(context.Background(), other.Reservation.ID, payment, 2); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: oldSeat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	_, err = svc.ChangeSeat(context.Background(), detail.Reservation.ID, detail.Passengers[0].Passenger.ID, occupied, 1)
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("ChangeSeat err = %v, want ErrSeatUnavailable", err)
	}
	if got := store.seatStatus(oldSeat); got != model.SeatHeld {
		t.Errorf("old seat status = %s, want %s (no seatless passenger)", got, model.SeatHeld)
	}
}

func TestChangeSeatOnlyWhilePending(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "3C", model.CategoryEconomy, 0)
	spare := store.addSeat(flight, "3D", model.CategoryEconomy, 0)
	payment := store.addPaymentMethod(1)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	_, err = svc.ChangeSeat(context.Background(), detail.Reservation.ID, detail.Passengers[0].Passenger.ID, spare, 1)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("ChangeSeat on confirmed reservation err = %v, want ErrInvalidState", err)
	}
}

func TestReservationAccessControl(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 0)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	if _, err := svc.Reservation(context.Background(), detail.Reservation.ID, 2); !errors.Is(err, ErrForbidden) {
		t.Errorf("foreign read err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Reservation(context.Background(), 9999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing read err = %v, want ErrNotFound", err)
	}
}

func TestTicketLookups(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	seat := store.addSeat(flight, "7B", model.CategoryEconomy, 0)
	payment := store.addPaymentMethod(1)

	detail, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
		{SeatID: seat, FullName: "Ada Byron"},
	})
	if err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	ticket, err := svc.Purchase(context.Background(), detail.Reservation.ID, payment, 1)
	if err != nil {
		t.Fatalf("Purchase: %v", err)
	}

	found, err := svc.TicketByConfirmationCode(context.Background(), ticket.ConfirmationCode)
	if err != nil {
		t.Fatalf("TicketByConfirmationCode: %v", err)
	}
	if found.Reservation.ID != detail.Reservation.ID || len(found.Passengers) != 1 {
		t.Errorf("unexpected ticket detail: %+v", found)
	}
	if _, err := svc.TicketByConfirmationCode(context.Background(), "NOPE0000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code err = %v, want ErrNotFound", err)
	}
	if _, err := svc.TicketByConfirmationCode(context.Background(), "short"); !errors.Is(err, ErrNotFound) {
		t.Errorf("malformed code err = %v, want ErrNotFound", err)
	}

	tickets, err := svc.TicketsForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("TicketsForUser: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != ticket.ID {
		t.Errorf("tickets = %+v, want exactly the issued one", tickets)
	}
}

func TestReservationsForUser(t *testing.T) {
	svc, store := newTestService()
	flight := store.addFlight("SK204", 10000)
	a := store.addSeat(flight, "7A", model.CategoryEconomy, 0)
	b := store.addSeat(flight, "7B", model.CategoryEconomy, 0)

	for _, seat := range []uint64{a, b} {
		if _, err := svc.CreateReservation(context.Background(), 1, []PassengerInput{
			{SeatID: seat, FullName: "Ada Byron"},
		}); err != nil {
			t.Fatalf("CreateReservation: %v", err)
		}
	}
	list, err := svc.ReservationsForUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ReservationsForUser: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("reservations = %d, want 2", len(list))
	}
	for _, d := range list {
		if len(d.Passengers) != 1 {
			t.Errorf("reservation %d roster size = %d, want 1", d.Reservation.ID, len(d.Passengers))
		}
	}
	empty, err := svc.ReservationsForUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("ReservationsForUser(42): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("reservations for unknown user = %d, want 0", len(empty))
	}
}
