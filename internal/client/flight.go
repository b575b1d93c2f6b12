package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dcastano/airline-backoffice/internal/booking"
)

// FlightClient resolves flight IDs against the flights service and
// extracts the scheduled departure for the departed-flight policy.
// It implements booking.FlightDirectory.
type FlightClient struct {
	base string
	hc   *http.Client
}

// NewFlightClient builds a client for the flights service at base.
func NewFlightClient(base string, hc *http.Client) *FlightClient {
	if hc == nil {
		hc = New()
	}
	return &FlightClient{base: strings.TrimRight(base, "/"), hc: hc}
}

// LookupFlight reports whether the flight exists and when it departs.
// A malformed departure timestamp leaves DepartsAt zero; the policy
// check upstream treats a zero departure as "unknown, admit".
func (c *FlightClient) LookupFlight(ctx context.Context, id uint64) booking.FlightInfo {
	var body struct {
		DepartsAt string `json:"departs_at"`
	}
	status := getJSON(ctx, c.hc, itemURL(c.base, "/v1/flights", id), &body)
	info := booking.FlightInfo{Status: status}
	if status == booking.Found && body.DepartsAt != "" {
		if t, err := time.Parse(time.RFC3339, body.DepartsAt); err == nil {
			info.DepartsAt = t.UTC()
		}
	}
	return info
}
