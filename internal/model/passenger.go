package model

// Passenger binds a traveller to exactly one seat inside a reservation.
// The seat reference may be repointed while the reservation is still
// pending; a passenger is never left without a held or occupied seat.
type Passenger struct {
	ID            uint64 // passengers.id
	ReservationID uint64 // passengers.reservation_id
	SeatID        uint64 // passengers.seat_id
	FullName      string // passengers.full_name
	Document      string // passengers.document
}
