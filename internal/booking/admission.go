// Package booking implements the reservation admission check: the
// combined validation that must pass before a reservation write is
// allowed. It combines two remote existence checks (passenger and
// flight directories) with a local seat-conflict scan, in that order,
// short-circuiting on the first failure.
package booking

import (
	"context"
	"time"
)

// LookupStatus is the three-valued outcome of a directory call.
// NotFound (the directory answered and the entity is absent) and
// Unavailable (the directory could not answer) are never conflated:
// they drive different HTTP statuses upstream (404 vs 503).
type LookupStatus int

const (
	Found LookupStatus = iota
	NotFound
	Unavailable
)

// FlightInfo is the subset of the flight directory's answer the
// admission check cares about.
type FlightInfo struct {
	Status    LookupStatus
	DepartsAt time.Time // valid only when Status == Found
}

// PassengerDirectory resolves passenger IDs remotely. Implementations
// must bound each call with a timeout and report a timeout or
// transport failure as Unavailable.
type PassengerDirectory interface {
	LookupPassenger(ctx context.Context, id uint64) LookupStatus
}

// FlightDirectory resolves flight IDs remotely, including the
// scheduled departure time when the flight exists.
type FlightDirectory interface {
	LookupFlight(ctx context.Context, id uint64) FlightInfo
}

// SeatScanner answers whether a non-cancelled reservation other than
// excludeID already claims the seat on the flight. The reservation
// repository implements it against the local store.
type SeatScanner interface {
	HasActiveSeatConflict(ctx context.Context, flightID uint64, seat string, excludeID uint64) (bool, error)
}

// RejectReason identifies why a reservation was not admitted.
type RejectReason string

const (
	PassengerNotFound           RejectReason = "passenger_not_found"
	PassengerServiceUnavailable RejectReason = "passenger_service_unavailable"
	FlightNotFound              RejectReason = "flight_not_found"
	FlightServiceUnavailable    RejectReason = "flight_service_unavailable"
	FlightDeparted              RejectReason = "flight_departed"
	SeatTaken                   RejectReason = "seat_taken"
)

// Decision is the outcome of an admission check. A zero Reason with
// Admitted true means the write may proceed.
type Decision struct {
	Admitted bool
	Reason   RejectReason
}

func admit() Decision                  { return Decision{Admitted: true} }
func reject(why RejectReason) Decision { return Decision{Reason: why} }

// Request describes a proposed reservation create, or a seat-changing
// update when ExcludeReservationID is non-zero (that row is skipped
// by the conflict scan).
type Request struct {
	PassengerID          uint64
	FlightID             uint64
	Seat                 string
	ExcludeReservationID uint64
}

// Checker performs admission checks. Directory clients are injected
// handles owned by the service instance; there are no package-level
// globals. RejectDeparted is the single policy switch for "no
// reservations on flights whose departure has passed".
type Checker struct {
	Passengers     PassengerDirectory
	Flights        FlightDirectory
	Seats          SeatScanner
	RejectDeparted bool
	Now            func() time.Time // defaults to time.Now
}

// NewChecker constructs a Checker. All three collaborators are required.
func NewChecker(p PassengerDirectory, f FlightDirectory, s SeatScanner, rejectDeparted bool) *Checker {
	if p == nil || f == nil || s == nil {
		panic("nil collaborator passed to booking.NewChecker")
	}
	return &Checker{Passengers: p, Flights: f, Seats: s, RejectDeparted: rejectDeparted}
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Admit decides whether the proposed reservation may be committed.
// Checks run in a fixed order and the first failure is terminal:
//
//  1. passenger existence (remote),
//  2. flight existence and, when RejectDeparted is set, departure in
//     the future (remote),
//  3. local seat-conflict scan.
//
// Remote failures are not retried here; a single timeout rejects the
// request immediately and the caller surfaces 503. The returned error
// is non-nil only when the local store failed, which maps to a 500.
// Both remote checks complete before any write transaction opens, so
// no lock is ever held across a network call.
func (c *Checker) Admit(ctx context.Context, req Request) (Decision, error) {
	switch c.Passengers.LookupPassenger(ctx, req.PassengerID) {
	case NotFound:
		return reject(PassengerNotFound), nil
	case Unavailable:
		return reject(PassengerServiceUnavailable), nil
	}

	flight := c.Flights.LookupFlight(ctx, req.FlightID)
	switch flight.Status {
	case NotFound:
		return reject(FlightNotFound), nil
	case Unavailable:
		return reject(FlightServiceUnavailable), nil
	}
	if c.RejectDeparted && !flight.DepartsAt.IsZero() && !flight.DepartsAt.After(c.now()) {
		return reject(FlightDeparted), nil
	}

	taken, err := c.Seats.HasActiveSeatConflict(ctx, req.FlightID, req.Seat, req.ExcludeReservationID)
	if err != nil {
		return Decision{}, err
	}
	if taken {
		return reject(SeatTaken), nil
	}
	return admit(), nil
}
