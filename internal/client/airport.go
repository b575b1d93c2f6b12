package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/dcastano/airline-backoffice/internal/booking"
)

// AirportClient resolves airport IDs against the airports service.
// The flights and layovers services use it to validate their weak
// airport references at write time.
type AirportClient struct {
	base string
	hc   *http.Client
}

// NewAirportClient builds a client for the airports service at base.
func NewAirportClient(base string, hc *http.Client) *AirportClient {
	if hc == nil {
		hc = New()
	}
	return &AirportClient{base: strings.TrimRight(base, "/"), hc: hc}
}

// LookupAirport reports whether the airport exists.
func (c *AirportClient) LookupAirport(ctx context.Context, id uint64) booking.LookupStatus {
	return getJSON(ctx, c.hc, itemURL(c.base, "/v1/airports", id), nil)
}
