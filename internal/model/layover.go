package model

import "time"

// Layover statuses and kinds.
const (
	LayoverScheduled  = "SCHEDULED"
	LayoverInProgress = "IN_PROGRESS"
	LayoverCompleted  = "COMPLETED"
	LayoverCancelled  = "CANCELLED"

	LayoverTechnical  = "TECHNICAL"
	LayoverCommercial = "COMMERCIAL"
)

// ValidLayoverStatus reports whether s is one of the layover status
// enum values.
func ValidLayoverStatus(s string) bool {
	switch s {
	case LayoverScheduled, LayoverInProgress, LayoverCompleted, LayoverCancelled:
		return true
	}
	return false
}

// Layover mirrors the `layovers` table. Flight and airport IDs are
// weak references validated against the flights and airports services
// when the row is written.
type Layover struct {
	ID          uint64    `json:"id"`
	FlightID    uint64    `json:"flight_id"`
	AirportID   uint64    `json:"airport_id"`
	Sequence    uint32    `json:"sequence"` // position within the flight, 1-based
	ArrivesAt   time.Time `json:"arrives_at"`
	DepartsAt   time.Time `json:"departs_at"`
	DurationMin uint32    `json:"duration_min"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Terminal    *string   `json:"terminal,omitempty"`
	Gate        *string   `json:"gate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
