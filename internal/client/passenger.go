package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/dcastano/airline-backoffice/internal/booking"
)

// PassengerClient resolves passenger IDs against the passengers
// service. It implements booking.PassengerDirectory.
type PassengerClient struct {
	base string
	hc   *http.Client
}

// NewPassengerClient builds a client for the passengers service at
// base (e.g. "http://passengers:8001").
func NewPassengerClient(base string, hc *http.Client) *PassengerClient {
	if hc == nil {
		hc = New()
	}
	return &PassengerClient{base: strings.TrimRight(base, "/"), hc: hc}
}

// LookupPassenger reports whether the passenger exists.
func (c *PassengerClient) LookupPassenger(ctx context.Context, id uint64) booking.LookupStatus {
	return getJSON(ctx, c.hc, itemURL(c.base, "/v1/passengers", id), nil)
}
