// Package repository defines sentinel error values reused across the
// per-entity repositories. Handlers compare against these with
// errors.Is to pick the HTTP status: ErrNotFound maps to 404,
// ErrSeatTaken and the duplicate natural-key errors map to 409/400,
// anything else is a 500.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrSeatTaken is returned when a non-cancelled reservation already
// holds the requested seat on the same flight.
var ErrSeatTaken = errors.New("seat already taken")

// ErrDuplicate is returned when an insert violates a unique natural
// key (passport number, tail number, IATA code, flight number,
// reservation code).
var ErrDuplicate = errors.New("duplicate key")

// ErrIdemKeyExists is returned when an idempotency key was already
// recorded for another reservation.
var ErrIdemKeyExists = errors.New("idempotency key exists")

// isDuplicateKey reports whether err is a MySQL duplicate-entry
// error (1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// isForeignKeyViolation reports whether err is a MySQL foreign key
// error (1452), raised when a child row references a missing parent.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1452")
}

// isDeadlock reports whether err is a MySQL deadlock error (1213),
// raised when InnoDB picks the transaction as the deadlock victim.
func isDeadlock(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1213")
}
