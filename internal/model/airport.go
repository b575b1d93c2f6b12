package model

import "time"

// Airport mirrors the `airports` table. The IATA code is the unique
// natural key. Terminals and runways belong to exactly one airport
// and are removed together with it (FK cascade).
//
// Fields:
//  ID        – primary key identifier.
//  IATACode  – three-letter IATA code, unique.
//  Name      – full airport name.
//  City      – city served by the airport.
//  Country   – country name.
//  Latitude  – decimal degrees.
//  Longitude – decimal degrees.
//  Timezone  – IANA timezone name (e.g. "America/Bogota").
//  Status    – operational status string (default ACTIVE).
type Airport struct {
	ID        uint64    `json:"id"`
	IATACode  string    `json:"iata_code"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timezone  string    `json:"timezone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal mirrors the `terminals` table.
type Terminal struct {
	ID                uint64    `json:"id"`
	AirportID         uint64    `json:"airport_id"`
	Name              string    `json:"name"`
	PassengerCapacity uint32    `json:"passenger_capacity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Runway mirrors the `runways` table.
type Runway struct {
	ID         uint64    `json:"id"`
	AirportID  uint64    `json:"airport_id"`
	Designator string    `json:"designator"` // e.g. "09L/27R"
	LengthM    uint32    `json:"length_m"`
	WidthM     uint32    `json:"width_m"`
	Surface    string    `json:"surface"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
