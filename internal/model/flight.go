package model

import "time"

// Flight statuses as stored in the `status` enum column.
const (
	FlightScheduled = "SCHEDULED"
	FlightInFlight  = "IN_FLIGHT"
	FlightCompleted = "COMPLETED"
	FlightCancelled = "CANCELLED"
	FlightDelayed   = "DELAYED"
)

// ValidFlightStatus reports whether s is one of the flight status
// enum values.
func ValidFlightStatus(s string) bool {
	switch s {
	case FlightScheduled, FlightInFlight, FlightCompleted, FlightCancelled, FlightDelayed:
		return true
	}
	return false
}

// Crew roles for crew_assignments.role.
const (
	CrewPilot     = "PILOT"
	CrewCopilot   = "COPILOT"
	CrewAttendant = "ATTENDANT"
)

// Flight mirrors the `flights` table. Airport and aircraft IDs are
// weak references into the airports and aircraft services; they are
// validated remotely at write time and never enforced by a foreign
// key, so a flight row can outlive the entities it points at.
//
// Fields:
//  ID                   – primary key identifier.
//  FlightNumber         – unique flight number (e.g. "AV2041").
//  DepartsAt            – scheduled departure (UTC).
//  ArrivesAt            – scheduled arrival (UTC).
//  OriginAirportID      – weak reference to the airports service.
//  DestinationAirportID – weak reference to the airports service.
//  AircraftID           – weak reference to the aircraft service.
//  Status               – one of the Flight* constants.
type Flight struct {
	ID                   uint64    `json:"id"`
	FlightNumber         string    `json:"flight_number"`
	DepartsAt            time.Time `json:"departs_at"`
	ArrivesAt            time.Time `json:"arrives_at"`
	OriginAirportID      uint64    `json:"origin_airport_id"`
	DestinationAirportID uint64    `json:"destination_airport_id"`
	AircraftID           uint64    `json:"aircraft_id"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// CrewAssignment mirrors the `crew_assignments` table. StaffID is a
// weak reference to an external staff directory.
type CrewAssignment struct {
	ID        uint64    `json:"id"`
	FlightID  uint64    `json:"flight_id"`
	StaffID   uint64    `json:"staff_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
