package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

// AircraftHandler serves the fleet registry CRUD.
type AircraftHandler struct {
	Repo *repository.AircraftRepo
}

func NewAircraftHandler(repo *repository.AircraftRepo) *AircraftHandler {
	if repo == nil {
		panic("nil repository passed to NewAircraftHandler")
	}
	return &AircraftHandler{Repo: repo}
}

type aircraftReq struct {
	TailNumber        string     `json:"tail_number"`
	Model             string     `json:"model"`
	PassengerCapacity uint32     `json:"passenger_capacity"`
	CargoCapacityKg   uint32     `json:"cargo_capacity_kg"`
	Status            string     `json:"status"`
	LastInspectionAt  *time.Time `json:"last_inspection_at"`
	NextInspectionAt  *time.Time `json:"next_inspection_at"`
}

func (r *aircraftReq) validate() string {
	r.TailNumber = strings.ToUpper(strings.TrimSpace(r.TailNumber))
	r.Model = strings.TrimSpace(r.Model)
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = model.AircraftActive
	}
	switch {
	case r.TailNumber == "":
		return "tail_number is required"
	case r.Model == "":
		return "model is required"
	}
	if !model.ValidAircraftStatus(r.Status) {
		return "invalid status"
	}
	return ""
}

func (r *aircraftReq) toModel(id uint64) model.Aircraft {
	return model.Aircraft{
		ID:                id,
		TailNumber:        r.TailNumber,
		Model:             r.Model,
		PassengerCapacity: r.PassengerCapacity,
		CargoCapacityKg:   r.CargoCapacityKg,
		Status:            r.Status,
		LastInspectionAt:  r.LastInspectionAt,
		NextInspectionAt:  r.NextInspectionAt,
	}
}

// Create handles POST /v1/aircraft.
func (h *AircraftHandler) Create(c echo.Context) error {
	var req aircraftReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	a := req.toModel(0)
	if err := h.Repo.Create(c.Request().Context(), &a); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tail_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create aircraft"})
	}
	return c.JSON(http.StatusCreated, a)
}

// Get handles GET /v1/aircraft/:id.
func (h *AircraftHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	a, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, a)
}

// GetByTailNumber handles GET /v1/aircraft/tail/:tail.
func (h *AircraftHandler) GetByTailNumber(c echo.Context) error {
	tail := strings.ToUpper(strings.TrimSpace(c.Param("tail")))
	if tail == "" {
		return badRequest(c, "invalid tail number")
	}
	a, err := h.Repo.GetByTailNumber(c.Request().Context(), tail)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, a)
}

// ListByStatus handles GET /v1/aircraft/status/:status.
func (h *AircraftHandler) ListByStatus(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.Param("status")))
	if !model.ValidAircraftStatus(status) {
		return badRequest(c, "invalid status")
	}
	skip, limit := pageParams(c)
	items, err := h.Repo.ListByStatus(c.Request().Context(), status, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type maintenanceReq struct {
	NextInspectionAt *time.Time `json:"next_inspection_at"`
}

// StartMaintenance handles PUT /v1/aircraft/:id/maintenance. The
// aircraft is grounded: status flips to MAINTENANCE and the
// inspection timestamps are updated.
func (h *AircraftHandler) StartMaintenance(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req maintenanceReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	a, err := h.Repo.StartMaintenance(c.Request().Context(), id, req.NextInspectionAt)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// List handles GET /v1/aircraft.
func (h *AircraftHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	items, err := h.Repo.List(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/aircraft/:id.
func (h *AircraftHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req aircraftReq
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
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "tail_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/aircraft/:id.
func (h *AircraftHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "aircraft not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
