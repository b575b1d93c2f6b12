package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewReservationCode returns a short human-readable reservation code:
// the first eight hex characters of a random UUID, upper-cased. The
// code column is unique; on the rare collision the caller regenerates
// and retries.
func NewReservationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
