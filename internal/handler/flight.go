package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/booking"
	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/queue"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

// AirportDirectory and AircraftDirectory are the remote lookups the
// flights service performs before accepting a schedule write.
type AirportDirectory interface {
	LookupAirport(ctx context.Context, id uint64) booking.LookupStatus
}

type AircraftDirectory interface {
	LookupAircraft(ctx context.Context, id uint64) booking.LookupStatus
}

// FlightHandler serves the flight schedule: CRUD plus crew
// assignments. Referenced airports and aircraft live in other
// services and are verified remotely before any write.
type FlightHandler struct {
	Repo     *repository.FlightRepo
	Airports AirportDirectory
	Aircraft AircraftDirectory
	Events   queue.Sink // optional; nil disables event emission
}

func NewFlightHandler(repo *repository.FlightRepo, airports AirportDirectory, aircraft AircraftDirectory, events queue.Sink) *FlightHandler {
	if repo == nil || airports == nil || aircraft == nil {
		panic("nil dependency passed to NewFlightHandler")
	}
	return &FlightHandler{Repo: repo, Airports: airports, Aircraft: aircraft, Events: events}
}

func (h *FlightHandler) emit(action string, f model.Flight) {
	if h.Events == nil {
		return
	}
	h.Events.Publish(queue.Key("flight", action), queue.FlightEvent{
		FlightID:     f.ID,
		FlightNumber: f.FlightNumber,
		Status:       f.Status,
	})
}

type flightReq struct {
	FlightNumber         string    `json:"flight_number"`
	DepartsAt            time.Time `json:"departs_at"`
	ArrivesAt            time.Time `json:"arrives_at"`
	OriginAirportID      uint64    `json:"origin_airport_id"`
	DestinationAirportID uint64    `json:"destination_airport_id"`
	AircraftID           uint64    `json:"aircraft_id"`
	Status               string    `json:"status"`
}

func (r *flightReq) validate() string {
	r.FlightNumber = strings.ToUpper(strings.TrimSpace(r.FlightNumber))
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = model.FlightScheduled
	}
	switch {
	case r.FlightNumber == "":
		return "flight_number is required"
	case r.DepartsAt.IsZero() || r.ArrivesAt.IsZero():
		return "departs_at and arrives_at are required"
	case !r.ArrivesAt.After(r.DepartsAt):
		return "arrives_at must be after departs_at"
	case r.OriginAirportID == 0 || r.DestinationAirportID == 0:
		return "origin_airport_id and destination_airport_id are required"
	case r.OriginAirportID == r.DestinationAirportID:
		return "origin and destination must differ"
	case r.AircraftID == 0:
		return "aircraft_id is required"
	}
	if !model.ValidFlightStatus(r.Status) {
		return "invalid status"
	}
	return ""
}

// checkReferences verifies the two airports and the aircraft exist.
// The first failing lookup wins; 404 for a confirmed absence, 503
// when a directory could not answer. ok is false when a response has
// already been written.
func (h *FlightHandler) checkReferences(c echo.Context, req flightReq) (ok bool, err error) {
	ctx := c.Request().Context()
	for _, ref := range []struct {
		status booking.LookupStatus
		name   string
	}{
		{h.Airports.LookupAirport(ctx, req.OriginAirportID), "origin airport"},
		{h.Airports.LookupAirport(ctx, req.DestinationAirportID), "destination airport"},
		{h.Aircraft.LookupAircraft(ctx, req.AircraftID), "aircraft"},
	} {
		switch ref.status {
		case booking.NotFound:
			return false, c.JSON(http.StatusNotFound, echo.Map{"error": ref.name + " not found"})
		case booking.Unavailable:
			return false, c.JSON(http.StatusServiceUnavailable, echo.Map{"error": ref.name + " service unavailable"})
		}
	}
	return true, nil
}

// Create handles POST /v1/flights.
func (h *FlightHandler) Create(c echo.Context) error {
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	if ok, err := h.checkReferences(c, req); !ok {
		return err
	}
	f := model.Flight{
		FlightNumber:         req.FlightNumber,
		DepartsAt:            req.DepartsAt.UTC(),
		ArrivesAt:            req.ArrivesAt.UTC(),
		OriginAirportID:      req.OriginAirportID,
		DestinationAirportID: req.DestinationAirportID,
		AircraftID:           req.AircraftID,
		Status:               req.Status,
	}
	if err := h.Repo.Create(c.Request().Context(), &f); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create flight"})
	}
	h.emit(queue.ActionCreated, f)
	return c.JSON(http.StatusCreated, f)
}

// Get handles GET /v1/flights/:id.
func (h *FlightHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	f, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}

// GetByNumber handles GET /v1/flights/number/:number.
func (h *FlightHandler) GetByNumber(c echo.Context) error {
	number := strings.ToUpper(strings.TrimSpace(c.Param("number")))
	if number == "" {
		return badRequest(c, "invalid flight number")
	}
	f, err := h.Repo.GetByNumber(c.Request().Context(), number)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, f)
}

// ListByStatus handles GET /v1/flights/status/:status.
func (h *FlightHandler) ListByStatus(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.Param("status")))
	if !model.ValidFlightStatus(status) {
		return badRequest(c, "invalid status")
	}
	skip, limit := pageParams(c)
	items, err := h.Repo.ListByStatus(c.Request().Context(), status, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// List handles GET /v1/flights.
func (h *FlightHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	items, err := h.Repo.List(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/flights/:id. References are re-verified
// because the update may repoint them.
func (h *FlightHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req flightReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	if ok, err := h.checkReferences(c, req); !ok {
		return err
	}
	f := model.Flight{
		ID:                   id,
		FlightNumber:         req.FlightNumber,
		DepartsAt:            req.DepartsAt.UTC(),
		ArrivesAt:            req.ArrivesAt.UTC(),
		OriginAirportID:      req.OriginAirportID,
		DestinationAirportID: req.DestinationAirportID,
		AircraftID:           req.AircraftID,
		Status:               req.Status,
	}
	if err := h.Repo.Update(c.Request().Context(), &f); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "flight_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.emit(queue.ActionUpdated, f)
	return c.JSON(http.StatusOK, f)
}

// Delete handles DELETE /v1/flights/:id.
func (h *FlightHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	f, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.emit(queue.ActionDeleted, f)
	return c.NoContent(http.StatusNoContent)
}

// ----- crew assignments -----

type crewReq struct {
	StaffID uint64 `json:"staff_id"`
	Role    string `json:"role"`
}

// AssignCrew handles POST /v1/flights/:id/crew.
func (h *FlightHandler) AssignCrew(c echo.Context) error {
	flightID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req crewReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.StaffID == 0 {
		return badRequest(c, "staff_id is required")
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	switch role {
	case model.CrewPilot, model.CrewCopilot, model.CrewAttendant:
	default:
		return badRequest(c, "invalid role")
	}
	if _, err := h.Repo.GetByID(c.Request().Context(), flightID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	ca := model.CrewAssignment{FlightID: flightID, StaffID: req.StaffID, Role: role}
	if err := h.Repo.AssignCrew(c.Request().Context(), &ca); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "staff member already assigned to this flight"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not assign crew"})
	}
	return c.JSON(http.StatusCreated, ca)
}

// ListCrew handles GET /v1/flights/:id/crew.
func (h *FlightHandler) ListCrew(c echo.Context) error {
	flightID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	items, err := h.Repo.ListCrew(c.Request().Context(), flightID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// RemoveCrew handles DELETE /v1/flights/:id/crew/:crewID.
func (h *FlightHandler) RemoveCrew(c echo.Context) error {
	flightID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	crewID, err := parseID(c, "crewID")
	if err != nil {
		return badRequest(c, "invalid crew id")
	}
	if err := h.Repo.RemoveCrew(c.Request().Context(), flightID, crewID); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew assignment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
