package model

// Seat statuses.  A seat moves AVAILABLE -> HELD when a reservation
// claims it, HELD -> OCCUPIED when the reservation is purchased, and
// back to AVAILABLE when the reservation is cancelled.  These are the
// only legal transitions; every mutation goes through the guarded
// repository updates, never a raw status write.
const (
	SeatAvailable = "AVAILABLE"
	SeatHeld      = "HELD"
	SeatOccupied  = "OCCUPIED"
)

// Seat categories.
const (
	CategoryEconomy  = "ECONOMY"
	CategoryBusiness = "BUSINESS"
	CategoryFirst    = "FIRST"
)

// Seat describes a single seat on a flight.  Seats are created in bulk
// when a flight is scheduled and are never deleted once a reservation
// references them.
type Seat struct {
	ID             uint64 // seats.id
	FlightID       uint64 // seats.flight_id
	SeatNumber     string // seats.seat_number
	Category       string // seats.category
	ExtraFareCents uint32 // seats.extra_fare_cents
	Status         string // seats.status
}

// PriceCents returns the full price of the seat given the flight base
// fare: base fare plus the seat's extra fare.
func (s *Seat) PriceCents(baseFareCents uint32) uint32 {
	return baseFareCents + s.ExtraFareCents
}
