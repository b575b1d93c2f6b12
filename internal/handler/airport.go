package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

// AirportHandler serves airports plus their nested terminals and
// runways.
type AirportHandler struct {
	Repo *repository.AirportRepo
}

func NewAirportHandler(repo *repository.AirportRepo) *AirportHandler {
	if repo == nil {
		panic("nil repository passed to NewAirportHandler")
	}
	return &AirportHandler{Repo: repo}
}

type airportReq struct {
	IATACode  string  `json:"iata_code"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Status    string  `json:"status"`
}

func (r *airportReq) validate() string {
	r.IATACode = strings.ToUpper(strings.TrimSpace(r.IATACode))
	r.Name = strings.TrimSpace(r.Name)
	r.City = strings.TrimSpace(r.City)
	r.Country = strings.TrimSpace(r.Country)
	r.Timezone = strings.TrimSpace(r.Timezone)
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = "ACTIVE"
	}
	switch {
	case len(r.IATACode) != 3:
		return "iata_code must be exactly 3 letters"
	case r.Name == "":
		return "name is required"
	case r.Latitude < -90 || r.Latitude > 90:
		return "latitude out of range"
	case r.Longitude < -180 || r.Longitude > 180:
		return "longitude out of range"
	}
	return ""
}

func (r *airportReq) toModel(id uint64) model.Airport {
	return model.Airport{
		ID:        id,
		IATACode:  r.IATACode,
		Name:      r.Name,
		City:      r.City,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timezone:  r.Timezone,
		Status:    r.Status,
	}
}

// Create handles POST /v1/airports.
func (h *AirportHandler) Create(c echo.Context) error {
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	a := req.toModel(0)
	if err := h.Repo.Create(c.Request().Context(), &a); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "iata_code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create airport"})
	}
	return c.JSON(http.StatusCreated, a)
}

// Get handles GET /v1/airports/:id.
func (h *AirportHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	a, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, a)
}

// GetByCode handles GET /v1/airports/code/:code.
func (h *AirportHandler) GetByCode(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if len(code) != 3 {
		return badRequest(c, "iata_code must be exactly 3 letters")
	}
	a, err := h.Repo.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, a)
}

// List handles GET /v1/airports.
func (h *AirportHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	items, err := h.Repo.List(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/airports/:id.
func (h *AirportHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req airportReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	a := req.toModel(id)
	if err := h.Repo.Update(c.Request().Context(), &a); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "iata_code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/airports/:id. Terminals and runways go
// with the airport via FK cascade.
func (h *AirportHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- terminals -----

type terminalReq struct {
	Name              string `json:"name"`
	PassengerCapacity uint32 `json:"passenger_capacity"`
	Status            string `json:"status"`
}

// CreateTerminal handles POST /v1/airports/:id/terminals.
func (h *AirportHandler) CreateTerminal(c echo.Context) error {
	airportID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req terminalReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name is required")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if req.Status == "" {
		req.Status = "OPEN"
	}
	t := model.Terminal{
		AirportID:         airportID,
		Name:              req.Name,
		PassengerCapacity: req.PassengerCapacity,
		Status:            req.Status,
	}
	if err := h.Repo.CreateTerminal(c.Request().Context(), &t); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "terminal name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create terminal"})
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTerminals handles GET /v1/airports/:id/terminals.
func (h *AirportHandler) ListTerminals(c echo.Context) error {
	airportID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	items, err := h.Repo.ListTerminals(c.Request().Context(), airportID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ----- runways -----

type runwayReq struct {
	Designator string `json:"designator"`
	LengthM    uint32 `json:"length_m"`
	WidthM     uint32 `json:"width_m"`
	Surface    string `json:"surface"`
	Status     string `json:"status"`
}

// CreateRunway handles POST /v1/airports/:id/runways.
func (h *AirportHandler) CreateRunway(c echo.Context) error {
	airportID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req runwayReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.Designator = strings.ToUpper(strings.TrimSpace(req.Designator))
	if req.Designator == "" {
		return badRequest(c, "designator is required")
	}
	req.Status = strings.ToUpper(strings.TrimSpace(req.Status))
	if req.Status == "" {
		req.Status = "OPEN"
	}
	rw := model.Runway{
		AirportID:  airportID,
		Designator: req.Designator,
		LengthM:    req.LengthM,
		WidthM:     req.WidthM,
		Surface:    req.Surface,
		Status:     req.Status,
	}
	if err := h.Repo.CreateRunway(c.Request().Context(), &rw); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "airport not found"})
		}
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "runway designator already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create runway"})
	}
	return c.JSON(http.StatusCreated, rw)
}

// ListRunways handles GET /v1/airports/:id/runways.
func (h *AirportHandler) ListRunways(c echo.Context) error {
	airportID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	items, err := h.Repo.ListRunways(c.Request().Context(), airportID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
