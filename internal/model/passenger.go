package model

import "time"

// Passenger mirrors the `passengers` table. Passport numbers are
// unique natural keys; other services reference passengers only by
// numeric ID and never join against this table directly.
//
// Fields:
//  ID             – primary key identifier.
//  FirstName      – given name.
//  LastName       – family name(s).
//  Nationality    – free-form nationality string.
//  PassportNumber – unique passport number.
//  DateOfBirth    – date of birth (date only, stored as DATE).
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Passenger struct {
	ID             uint64    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Nationality    string    `json:"nationality"`
	PassportNumber string    `json:"passport_number"`
	DateOfBirth    string    `json:"date_of_birth"` // YYYY-MM-DD
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
