package model

import "time"

// Reservation statuses. A reservation in any status other than
// CANCELLED keeps its seat claimed on the flight.
const (
	ReservationPending   = "PENDING"
	ReservationConfirmed = "CONFIRMED"
	ReservationCancelled = "CANCELLED"
	ReservationCompleted = "COMPLETED"
)

// ValidReservationStatus reports whether s is one of the reservation
// status enum values.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// Reservation records one passenger's claim to one seat on one
// flight. PassengerID and FlightID are weak references into the
// passengers and flights services: their existence is verified once,
// when the row is written, and never maintained afterwards.
//
// Invariant: for a given flight at most one reservation with status
// other than CANCELLED may hold a given seat. The schema enforces it
// with a unique index over (flight_id, active_seat) where active_seat
// is a generated column that is NULL for cancelled rows.
//
// Fields:
//  ID          – primary key identifier.
//  PassengerID – weak reference to the passengers service.
//  FlightID    – weak reference to the flights service.
//  Seat        – seat designator, e.g. "12A".
//  FareClass   – fare class string ("economy", "business", ...).
//  PriceCents  – non-negative price in cents.
//  Status      – one of the Reservation* constants.
//  Code        – short unique human-readable reservation code.
type Reservation struct {
	ID          uint64    `json:"id"`
	PassengerID uint64    `json:"passenger_id"`
	FlightID    uint64    `json:"flight_id"`
	Seat        string    `json:"seat"`
	FareClass   string    `json:"fare_class"`
	PriceCents  uint32    `json:"price_cents"`
	Status      string    `json:"status"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
