package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var codePattern = regexp.MustCompile(`^[0-9A-F]{8}$`)

func TestNewReservationCodeFormat(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := NewReservationCode()
		assert.True(t, codePattern.MatchString(code), "unexpected code %q", code)
	}
}

func TestNewReservationCodeVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[NewReservationCode()] = true
	}
	// 1000 draws from a 16^8 space should essentially never collide
	// down to a handful of values.
	assert.Greater(t, len(seen), 990)
}
