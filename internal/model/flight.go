package model

import "time"

// Flight statuses.  Flights are reference data owned by an external
// scheduling system; this service only reads them to price seats and
// answer catalog queries.
const (
	FlightScheduled = "SCHEDULED"
	FlightOnTime    = "ON_TIME"
	FlightDelayed   = "DELAYED"
	FlightCancelled = "CANCELLED"
)

// Flight describes a scheduled flight.  The base fare applies to every
// seat on the flight; individual seats may add an extra fare on top.
type Flight struct {
	ID            uint64    // flights.id
	FlightNumber  string    // flights.flight_number
	DepartsAt     time.Time // flights.departs_at
	ArrivesAt     time.Time // flights.arrives_at
	BaseFareCents uint32    // flights.base_fare_cents
	Status        string    // flights.status
}
