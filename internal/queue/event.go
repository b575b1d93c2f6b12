// Package queue publishes domain events to a durable RabbitMQ topic
// exchange and hosts the audit consumer. Routing keys follow the
// `<domain>.<action>` pattern (reservation.created, flight.deleted,
// ...); message bodies are a JSON envelope {timestamp, data}.
package queue

import "time"

// Event actions used as the second segment of a routing key.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Key builds a routing key from a domain and an action,
// e.g. Key("reservation", ActionCreated) == "reservation.created".
func Key(domain, action string) string { return domain + "." + action }

// Envelope is the wire format of every published message.
type Envelope struct {
	Timestamp string `json:"timestamp"` // RFC3339, UTC
	Data      any    `json:"data"`
}

// NewEnvelope wraps data with the current UTC timestamp.
func NewEnvelope(data any) Envelope {
	return Envelope{Timestamp: time.Now().UTC().Format(time.RFC3339), Data: data}
}

// ReservationEvent is the data payload for reservation.* keys. It
// carries enough for downstream consumers to log, notify or feed
// analytics without querying the reservations database.
type ReservationEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	FlightID      uint64 `json:"flight_id"`
	PassengerID   uint64 `json:"passenger_id"`
	Seat          string `json:"seat"`
	Status        string `json:"status"`
	Code          string `json:"code,omitempty"`
}

// FlightEvent is the data payload for flight.* keys.
type FlightEvent struct {
	FlightID     uint64 `json:"flight_id"`
	FlightNumber string `json:"flight_number"`
	Status       string `json:"status"`
}
