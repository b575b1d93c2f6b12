package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "reservation.created", Key("reservation", ActionCreated))
	assert.Equal(t, "flight.deleted", Key("flight", ActionDeleted))
}

func TestEnvelopeShape(t *testing.T) {
	env := NewEnvelope(ReservationEvent{
		ReservationID: 42,
		FlightID:      3,
		PassengerID:   7,
		Seat:          "12A",
		Status:        "PENDING",
		Code:          "AB12CD34",
	})

	ts, err := time.Parse(time.RFC3339, env.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded struct {
		Timestamp string `json:"timestamp"`
		Data      struct {
			ReservationID uint64 `json:"reservation_id"`
			Seat          string `json:"seat"`
			Code          string `json:"code"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, uint64(42), decoded.Data.ReservationID)
	assert.Equal(t, "12A", decoded.Data.Seat)
	assert.Equal(t, "AB12CD34", decoded.Data.Code)
}

func TestEnvelopeOmitsEmptyCode(t *testing.T) {
	raw, err := json.Marshal(ReservationEvent{ReservationID: 1, Status: "CANCELLED"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"code"`)
}
