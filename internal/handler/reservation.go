package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dcastano/airline-backoffice/internal/booking"
	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/queue"
	"github.com/dcastano/airline-backoffice/internal/repository"
	"github.com/dcastano/airline-backoffice/internal/utils"
)

// codeRetries bounds the regeneration loop when a generated
// reservation code collides with an existing row.
const codeRetries = 3

// ReservationHandler serves the reservation book. Every write goes
// through the admission check first; the insert itself re-validates
// the seat under a transaction, so a race between two admitted
// requests still ends with exactly one winner.
type ReservationHandler struct {
	Repo    *repository.ReservationRepo
	Checker *booking.Checker
	Events  queue.Sink // optional; nil disables event emission
}

func NewReservationHandler(repo *repository.ReservationRepo, checker *booking.Checker, events queue.Sink) *ReservationHandler {
	if repo == nil || checker == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Repo: repo, Checker: checker, Events: events}
}

func (h *ReservationHandler) emit(action string, res model.Reservation) {
	if h.Events == nil {
		return
	}
	h.Events.Publish(queue.Key("reservation", action), queue.ReservationEvent{
		ReservationID: res.ID,
		FlightID:      res.FlightID,
		PassengerID:   res.PassengerID,
		Seat:          res.Seat,
		Status:        res.Status,
		Code:          res.Code,
	})
}

// rejectResponse maps an admission reject to its HTTP status. Absence
// of a referenced entity is 404, an unreachable directory is 503, and
// state conflicts (seat taken, flight departed) are 409.
func rejectResponse(c echo.Context, reason booking.RejectReason) error {
	status := http.StatusConflict
	switch reason {
	case booking.PassengerNotFound, booking.FlightNotFound:
		status = http.StatusNotFound
	case booking.PassengerServiceUnavailable, booking.FlightServiceUnavailable:
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{"error": string(reason)})
}

type reservationReq struct {
	PassengerID uint64 `json:"passenger_id"`
	FlightID    uint64 `json:"flight_id"`
	Seat        string `json:"seat"`
	FareClass   string `json:"fare_class"`
	PriceCents  uint32 `json:"price_cents"`
}

func (r *reservationReq) validate() string {
	r.Seat = strings.ToUpper(strings.TrimSpace(r.Seat))
	r.FareClass = strings.ToLower(strings.TrimSpace(r.FareClass))
	if r.FareClass == "" {
		r.FareClass = "economy"
	}
	switch {
	case r.PassengerID == 0:
		return "passenger_id is required"
	case r.FlightID == 0:
		return "flight_id is required"
	case r.Seat == "":
		return "seat is required"
	}
	return ""
}

// Create handles POST /v1/reservations.
//
// An Idempotency-Key header makes the call replay-safe: the first
// request stores the key with the new row in one transaction and any
// replay returns that same row without re-running the remote checks.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return badRequest(c, msg)
	}
	ctx := c.Request().Context()

	idemKey := strings.TrimSpace(c.Request().Header.Get("Idempotency-Key"))
	if idemKey != "" {
		if prev, err := h.Repo.FindByIdemKey(ctx, idemKey); err == nil {
			return c.JSON(http.StatusCreated, prev)
		} else if err != repository.ErrNotFound {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}

	decision, err := h.Checker.Admit(ctx, booking.Request{
		PassengerID: req.PassengerID,
		FlightID:    req.FlightID,
		Seat:        req.Seat,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !decision.Admitted {
		return rejectResponse(c, decision.Reason)
	}

	res := model.Reservation{
		PassengerID: req.PassengerID,
		FlightID:    req.FlightID,
		Seat:        req.Seat,
		FareClass:   req.FareClass,
		PriceCents:  req.PriceCents,
		Status:      model.ReservationPending,
	}
	for attempt := 0; ; attempt++ {
		res.Code = utils.NewReservationCode()
		err = h.Repo.Create(ctx, &res, idemKey)
		if err == repository.ErrDuplicate && attempt < codeRetries {
			continue // code collision, roll a new one
		}
		break
	}
	switch err {
	case nil:
	case repository.ErrSeatTaken:
		// lost the race to a concurrent create after admission passed
		return c.JSON(http.StatusConflict, echo.Map{"error": string(booking.SeatTaken)})
	case repository.ErrIdemKeyExists:
		// concurrent replay of the same key; the other writer won
		if prev, ferr := h.Repo.FindByIdemKey(ctx, idemKey); ferr == nil {
			return c.JSON(http.StatusCreated, prev)
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": "idempotency key already used"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create reservation"})
	}

	h.emit(queue.ActionCreated, res)
	return c.JSON(http.StatusCreated, res)
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	res, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, res)
}

// GetByCode handles GET /v1/reservations/code/:code.
func (h *ReservationHandler) GetByCode(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		return badRequest(c, "invalid code")
	}
	res, err := h.Repo.GetByCode(c.Request().Context(), code)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, res)
}

// List handles GET /v1/reservations with optional flight_id and
// passenger_id filters.
func (h *ReservationHandler) List(c echo.Context) error {
	skip, limit := pageParams(c)
	f := repository.ReservationFilter{Skip: skip, Limit: limit}
	if raw := c.QueryParam("flight_id"); raw != "" {
		id, err := parseUintQuery(raw)
		if err != nil {
			return badRequest(c, "invalid flight_id")
		}
		f.FlightID = id
	}
	if raw := c.QueryParam("passenger_id"); raw != "" {
		id, err := parseUintQuery(raw)
		if err != nil {
			return badRequest(c, "invalid passenger_id")
		}
		f.PassengerID = id
	}
	items, err := h.Repo.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type reservationPatchReq struct {
	Seat       *string `json:"seat"`
	FareClass  *string `json:"fare_class"`
	PriceCents *uint32 `json:"price_cents"`
	Status     *string `json:"status"`
}

// Update handles PUT /v1/reservations/:id with a partial patch.
// Setting status to CANCELLED frees the seat for the flight; a seat
// change re-runs the conflict scan inside the update transaction.
// Passenger and flight references are immutable after creation.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req reservationPatchReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	patch := repository.ReservationPatch{
		FareClass:  req.FareClass,
		PriceCents: req.PriceCents,
	}
	if req.Seat != nil {
		seat := strings.ToUpper(strings.TrimSpace(*req.Seat))
		if seat == "" {
			return badRequest(c, "seat must not be empty")
		}
		patch.Seat = &seat
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !model.ValidReservationStatus(status) {
			return badRequest(c, "invalid status")
		}
		patch.Status = &status
	}
	if patch.Seat == nil && patch.FareClass == nil && patch.PriceCents == nil && patch.Status == nil {
		return badRequest(c, "empty patch")
	}

	res, err := h.Repo.Update(c.Request().Context(), id, patch)
	switch err {
	case nil:
	case repository.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case repository.ErrSeatTaken:
		return c.JSON(http.StatusConflict, echo.Map{"error": string(booking.SeatTaken)})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	h.emit(queue.ActionUpdated, res)
	return c.JSON(http.StatusOK, res)
}

// Delete handles DELETE /v1/reservations/:id. The row is removed
// outright; cancelling while keeping history is the status update
// path.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	res, err := h.Repo.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Repo.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	h.emit(queue.ActionDeleted, res)
	return c.NoContent(http.StatusNoContent)
}
