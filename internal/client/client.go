// Package client contains the HTTP directory clients used for
// cross-service existence checks. Every client is an explicitly
// constructed handle owned by its service instance: the HTTP client
// is injected at startup and shared, never a package-level global.
//
// The contract is deliberately three-valued. A 404 from the remote
// service means NotFound; a timeout, a connection failure or any
// unexpected status means Unavailable. The two are never conflated
// because they map to different responses upstream (404 vs 503).
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dcastano/airline-backoffice/internal/booking"
)

// DefaultTimeout bounds a single directory call. There are no retries
// inside the clients: one timeout fails the lookup immediately.
const DefaultTimeout = 5 * time.Second

// New returns an *http.Client with the bounded per-call timeout all
// directory clients share.
func New() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// getJSON performs a GET and decodes a 200 response into out. The
// returned status is Found/NotFound/Unavailable per the package
// contract; decoding failures count as Unavailable since the
// directory did not produce a usable answer.
func getJSON(ctx context.Context, hc *http.Client, url string, out any) booking.LookupStatus {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return booking.Unavailable
	}
	resp, err := hc.Do(req)
	if err != nil {
		return booking.Unavailable
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return booking.NotFound
	case resp.StatusCode != http.StatusOK:
		return booking.Unavailable
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return booking.Unavailable
		}
	}
	return booking.Found
}

func itemURL(base, path string, id uint64) string {
	return fmt.Sprintf("%s%s/%d", base, path, id)
}
