package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPassengers struct {
	status LookupStatus
	calls  int
}

func (s *stubPassengers) LookupPassenger(ctx context.Context, id uint64) LookupStatus {
	s.calls++
	return s.status
}

type stubFlights struct {
	info  FlightInfo
	calls int
}

func (s *stubFlights) LookupFlight(ctx context.Context, id uint64) FlightInfo {
	s.calls++
	return s.info
}

type stubSeats struct {
	taken bool
	err   error
	calls int
}

func (s *stubSeats) HasActiveSeatConflict(ctx context.Context, flightID uint64, seat string, excludeID uint64) (bool, error) {
	s.calls++
	return s.taken, s.err
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func futureFlight() FlightInfo {
	return FlightInfo{Status: Found, DepartsAt: fixedNow().Add(2 * time.Hour)}
}

func TestAdmitHappyPath(t *testing.T) {
	c := NewChecker(&stubPassengers{status: Found}, &stubFlights{info: futureFlight()}, &stubSeats{}, true)
	c.Now = fixedNow

	d, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "12A"})
	require.NoError(t, err)
	assert.True(t, d.Admitted)
	assert.Empty(t, d.Reason)
}

func TestAdmitRejections(t *testing.T) {
	tests := []struct {
		name       string
		passengers LookupStatus
		flight     FlightInfo
		seatTaken  bool
		want       RejectReason
	}{
		{"passenger missing", NotFound, futureFlight(), false, PassengerNotFound},
		{"passenger directory down", Unavailable, futureFlight(), false, PassengerServiceUnavailable},
		{"flight missing", Found, FlightInfo{Status: NotFound}, false, FlightNotFound},
		{"flight directory down", Found, FlightInfo{Status: Unavailable}, false, FlightServiceUnavailable},
		{"flight already departed", Found, FlightInfo{Status: Found, DepartsAt: fixedNow().Add(-time.Hour)}, false, FlightDeparted},
		{"seat taken", Found, futureFlight(), true, SeatTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker(
				&stubPassengers{status: tt.passengers},
				&stubFlights{info: tt.flight},
				&stubSeats{taken: tt.seatTaken},
				true,
			)
			c.Now = fixedNow

			d, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "12A"})
			require.NoError(t, err)
			assert.False(t, d.Admitted)
			assert.Equal(t, tt.want, d.Reason)
		})
	}
}

func TestAdmitShortCircuitsOnPassenger(t *testing.T) {
	p := &stubPassengers{status: NotFound}
	f := &stubFlights{info: futureFlight()}
	s := &stubSeats{}
	c := NewChecker(p, f, s, true)

	_, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "1A"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.calls)
	assert.Zero(t, f.calls, "flight lookup must not run after passenger rejection")
	assert.Zero(t, s.calls, "seat scan must not run after passenger rejection")
}

func TestAdmitShortCircuitsOnFlight(t *testing.T) {
	f := &stubFlights{info: FlightInfo{Status: Unavailable}}
	s := &stubSeats{}
	c := NewChecker(&stubPassengers{status: Found}, f, s, true)

	_, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "1A"})
	require.NoError(t, err)
	assert.Zero(t, s.calls, "seat scan must not run when the flight directory is down")
}

func TestAdmitDepartedPolicyDisabled(t *testing.T) {
	c := NewChecker(
		&stubPassengers{status: Found},
		&stubFlights{info: FlightInfo{Status: Found, DepartsAt: fixedNow().Add(-time.Hour)}},
		&stubSeats{},
		false,
	)
	c.Now = fixedNow

	d, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "12A"})
	require.NoError(t, err)
	assert.True(t, d.Admitted, "departed flights are admitted when the policy is off")
}

func TestAdmitUnknownDepartureAdmits(t *testing.T) {
	c := NewChecker(
		&stubPassengers{status: Found},
		&stubFlights{info: FlightInfo{Status: Found}}, // zero DepartsAt
		&stubSeats{},
		true,
	)
	c.Now = fixedNow

	d, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "12A"})
	require.NoError(t, err)
	assert.True(t, d.Admitted)
}

func TestAdmitSeatScanError(t *testing.T) {
	c := NewChecker(
		&stubPassengers{status: Found},
		&stubFlights{info: futureFlight()},
		&stubSeats{err: context.DeadlineExceeded},
		true,
	)
	c.Now = fixedNow

	_, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "12A"})
	assert.Error(t, err, "a failing local scan is an error, not a rejection")
}

func TestNewCheckerPanicsOnNil(t *testing.T) {
	assert.Panics(t, func() {
		NewChecker(nil, &stubFlights{}, &stubSeats{}, true)
	})
}

// memorySeatStore emulates the transactional create path: the scan
// and the claim happen under one lock, as the repository does with
// SELECT ... FOR UPDATE plus the unique index.
type memorySeatStore struct {
	mu    sync.Mutex
	seats map[string]bool
}

func (m *memorySeatStore) HasActiveSeatConflict(ctx context.Context, flightID uint64, seat string, excludeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seats[seat], nil
}

// tryClaim is the atomic scan+insert; it reports whether the claim won.
func (m *memorySeatStore) tryClaim(seat string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seats[seat] {
		return false
	}
	m.seats[seat] = true
	return true
}

func TestConcurrentCreatesSingleWinner(t *testing.T) {
	store := &memorySeatStore{seats: map[string]bool{}}
	c := NewChecker(&stubPassengers{status: Found}, &stubFlights{info: futureFlight()}, store, true)
	c.Now = fixedNow

	const n = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := c.Admit(context.Background(), Request{PassengerID: 1, FlightID: 2, Seat: "12A"})
			if err != nil || !d.Admitted {
				return
			}
			// Admission passed; the transactional claim decides the winner.
			if store.tryClaim("12A") {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "exactly one of %d concurrent creates may win the seat", n)
}
