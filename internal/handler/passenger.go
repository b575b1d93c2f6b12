package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

// PassengerHandler serves the passenger registry CRUD.
type PassengerHandler struct {
	Repo *repository.PassengerRepo
}

func NewPassengerHandler(repo *repository.PassengerRepo) *PassengerHandler {
	if repo == nil {
		panic("nil repository passed to NewPassengerHandler")
	}
	return &PassengerHandler{Repo: repo}
}

type passengerReq struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Nationality    string `json:"nationality"`
	PassportNumber string `json:"passport_number"`
	DateOfBirth    string `json:"date_of_birth"` // YYYY-MM-DD
}

func (r *passengerReq) validate() string {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Nationality = strings.TrimSpace(r.Nationality)
	r.PassportNumber = strings.TrimSpace(r.PassportNumber)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	switch {
	case r.FirstName == "":
		return "first_name is required"
	case r.LastName == "":
		return "last_name is required"
	case r.PassportNumber == "":
		return "passport_number is required"
	}
	if r.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", r.DateOfBirth); err != nil {
			return "date_of_birth must be YYYY-MM-DD"
		}
	}
	return ""
}

// Create handles POST /v1/passengers.
func (h *PassengerHandler) Create(c echo.Context) error {
	var req passengerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	p := model.Passenger{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Nationality:    req.Nationality,
		PassportNumber: req.PassportNumber,
		DateOfBirth:    req.DateOfBirth,
	}
	if err := h.Repo.Create(c.Request().Context(), &p); err != nil {
		if err == repository.ErrDuplicate {
			return c.JSON(http.StatusConflict, echo.Map{"error": "passport_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create passenger"})
	}
	return c.JSON(http.StatusCreated, p)
}

// Get handles GET /v1/passengers/:id.
func (h *PassengerHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	p, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "passenger not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, p)
}

// List handles GET /v1/passengers with skip/limit pagination.
func (h *PassengerHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	items, err := h.Repo.List(c.Request().Context(), skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Update handles PUT /v1/passengers/:id. The full record is replaced.
func (h *PassengerHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req passengerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	p := model.Passenger{
		ID:             id,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Nationality:    req.Nationality,
		PassportNumber: req.PassportNumber,
		DateOfBirth:    req.DateOfBirth,
	}
	if err := h.Repo.Update(c.Request().Context(), &p); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "passenger not found"})
		case repository.ErrDuplicate:
			return c.JSON(http.StatusConflict, echo.Map{"error": "passport_number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /v1/passengers/:id.
func (h *PassengerHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "passenger not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
