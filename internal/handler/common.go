// Package handler contains the Echo HTTP handlers of every service.
// Handlers bind and validate the request, delegate to a repository
// (and, for reservations, the admission check), and translate
// repository sentinels into HTTP statuses. They never format SQL and
// never talk to the broker synchronously.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// default and maximum page sizes for list endpoints.
const (
	defaultLimit = 100
	maxLimit     = 500
)

// parseID parses a numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// pageParams reads skip/limit query parameters, clamping nonsense to
// the defaults.
func pageParams(c echo.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.QueryParam("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return skip, limit
}

// parseUintQuery parses a numeric query parameter value.
func parseUintQuery(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// getUserID extracts the user_id stored in context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// badRequest is the uniform 400 response body.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
