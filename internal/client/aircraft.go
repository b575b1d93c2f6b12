package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/dcastano/airline-backoffice/internal/booking"
)

// AircraftClient resolves aircraft IDs against the aircraft service.
type AircraftClient struct {
	base string
	hc   *http.Client
}

// NewAircraftClient builds a client for the aircraft service at base.
func NewAircraftClient(base string, hc *http.Client) *AircraftClient {
	if hc == nil {
		hc = New()
	}
	return &AircraftClient{base: strings.TrimRight(base, "/"), hc: hc}
}

// LookupAircraft reports whether the aircraft exists.
func (c *AircraftClient) LookupAircraft(ctx context.Context, id uint64) booking.LookupStatus {
	return getJSON(ctx, c.hc, itemURL(c.base, "/v1/aircraft", id), nil)
}
