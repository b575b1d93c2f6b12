package model

import "time"

// Aircraft statuses as stored in the `status` enum column.
const (
	AircraftActive      = "ACTIVE"
	AircraftMaintenance = "MAINTENANCE"
	AircraftInactive    = "INACTIVE"
)

// ValidAircraftStatus reports whether s is one of the aircraft status
// enum values.
func ValidAircraftStatus(s string) bool {
	switch s {
	case AircraftActive, AircraftMaintenance, AircraftInactive:
		return true
	}
	return false
}

// Aircraft mirrors the `aircraft` table. The tail number is the
// unique natural key of the registry.
type Aircraft struct {
	ID                uint64     `json:"id"`
	TailNumber        string     `json:"tail_number"`
	Model             string     `json:"model"`
	PassengerCapacity uint32     `json:"passenger_capacity"`
	CargoCapacityKg   uint32     `json:"cargo_capacity_kg"`
	Status            string     `json:"status"`
	LastInspectionAt  *time.Time `json:"last_inspection_at,omitempty"`
	NextInspectionAt  *time.Time `json:"next_inspection_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
