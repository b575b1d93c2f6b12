package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/booking"
	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

// LayoverHandler serves intermediate-stop CRUD. Layovers reference a
// flight and an airport in their own services; both are verified
// remotely before a write.
type LayoverHandler struct {
	Repo     *repository.LayoverRepo
	Flights  booking.FlightDirectory
	Airports AirportDirectory
}

func NewLayoverHandler(repo *repository.LayoverRepo, flights booking.FlightDirectory, airports AirportDirectory) *LayoverHandler {
	if repo == nil || flights == nil || airports == nil {
		panic("nil dependency passed to NewLayoverHandler")
	}
	return &LayoverHandler{Repo: repo, Flights: flights, Airports: airports}
}

type layoverReq struct {
	FlightID    uint64    `json:"flight_id"`
	AirportID   uint64    `json:"airport_id"`
	Sequence    uint32    `json:"sequence"`
	ArrivesAt   time.Time `json:"arrives_at"`
	DepartsAt   time.Time `json:"departs_at"`
	DurationMin uint32    `json:"duration_min"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	Terminal    *string   `json:"terminal"`
	Gate        *string   `json:"gate"`
}

func (r *layoverReq) validate() string {
	r.Kind = strings.ToUpper(strings.TrimSpace(r.Kind))
	if r.Kind == "" {
		r.Kind = model.LayoverTechnical
	}
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = model.LayoverScheduled
	}
	switch {
	case r.FlightID == 0:
		return "flight_id is required"
	case r.AirportID == 0:
		return "airport_id is required"
	case r.Sequence == 0:
		return "sequence must be >= 1"
	case r.ArrivesAt.IsZero() || r.DepartsAt.IsZero():
		return "arrives_at and departs_at are required"
	case !r.DepartsAt.After(r.ArrivesAt):
		return "departs_at must be after arrives_at"
	}
	switch r.Kind {
	case model.LayoverTechnical, model.LayoverCommercial:
	default:
		return "invalid kind"
	}
	if !model.ValidLayoverStatus(r.Status) {
		return "invalid status"
	}
	// duration is derived unless the caller pins it
	if r.DurationMin == 0 {
		r.DurationMin = uint32(r.DepartsAt.Sub(r.ArrivesAt) / time.Minute)
	}
	return ""
}

func (r *layoverReq) toModel(id uint64) model.Layover {
	return model.Layover{
		ID:          id,
		FlightID:    r.FlightID,
		AirportID:   r.AirportID,
		Sequence:    r.Sequence,
		ArrivesAt:   r.ArrivesAt.UTC(),
		DepartsAt:   r.DepartsAt.UTC(),
		DurationMin: r.DurationMin,
		Kind:        r.Kind,
		Status:      r.Status,
		Terminal:    r.Terminal,
		Gate:        r.Gate,
	}
}

// checkReferences verifies the flight and the airport exist.
func (h *LayoverHandler) checkReferences(c echo.Context, req layoverReq) (ok bool, err error) {
	ctx := c.Request().Context()
	switch h.Flights.LookupFlight(ctx, req.FlightID).Status {
	case booking.NotFound:
		return false, c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	case booking.Unavailable:
		return false, c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "flight service unavailable"})
	}
	switch h.Airports.LookupAirport(ctx, req.AirportID) {
	case booking.NotFound:
		return false, c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
	case booking.Unavailable:
		return false, c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "airport service unavailable"})
	}
	return true, nil
}

// Create handles POST /v1/layovers.
func (h *LayoverHandler) Create(c echo.Context) error {
	var req layoverReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	if ok, err := h.checkReferences(c, req); !ok {
		return err
	}
	l := req.toModel(0)
	if err := h.Repo.Create(c.Request().Context(), &l); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "sequence already used for this flight"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create layover"})
	}
	return c.JSON(http.StatusCreated, l)
}

// Get handles GET /v1/layovers/:id.
func (h *LayoverHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	l, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layover not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, l)
}

// List handles GET /v1/layovers with an optional flight_id filter.
func (h *LayoverHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	var flightID uint64
	if raw := c.QueryParam("flight_id"); raw != "" {
		var err error
		flightID, err = parseUintQuery(raw)
		if err != nil {
			return badRequest(c, "invalid flight_id")
		}
	}
	items, err := h.Repo.List(c.Request().Context(), flightID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListByAirport handles GET /v1/layovers/airport/:airportID.
func (h *LayoverHandler) ListByAirport(c echo.Context) error {
	airportID, err := parseID(c, "airportID")
	if err != nil {
		return badRequest(c, "invalid airport id")
	}
	skip, limit := pageParams(c)
	items, err := h.Repo.ListByAirport(c.Request().Context(), airportID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type layoverStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/layovers/:id/status, the progress
// update used while a stop is under way (no full record needed).
func (h *LayoverHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req layoverStatusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.ValidLayoverStatus(status) {
		return badRequest(c, "invalid status")
	}
	l, err := h.Repo.UpdateStatus(c.Request().Context(), id, status)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layover not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, l)
}

// Update handles PUT /v1/layovers/:id.
func (h *LayoverHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req layoverReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	if ok, err := h.checkReferences(c, req); !ok {
		return err
	}
	l := req.toModel(id)
	if err := h.Repo.Update(c.Request().Context(), &l); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layover not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "sequence already used for this flight"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, l)
}

// Delete handles DELETE /v1/layovers/:id.
func (h *LayoverHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "layover not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
