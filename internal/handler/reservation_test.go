package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/airline-backoffice/internal/booking"
	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

type fakePassengers struct {
	status booking.LookupStatus
	calls  int
}

func (f *fakePassengers) LookupPassenger(ctx context.Context, id uint64) booking.LookupStatus {
	f.calls++
	return f.status
}

type fakeFlights struct {
	info  booking.FlightInfo
	calls int
}

func (f *fakeFlights) LookupFlight(ctx context.Context, id uint64) booking.FlightInfo {
	f.calls++
	return f.info
}

type fakeSeats struct {
	taken bool
}

func (f *fakeSeats) HasActiveSeatConflict(ctx context.Context, flightID uint64, seat string, excludeID uint64) (bool, error) {
	return f.taken, nil
}

// recordingSink captures published events instead of talking to a broker.
type recordingSink struct {
	keys []string
}

func (r *recordingSink) Publish(routingKey string, data any) {
	r.keys = append(r.keys, routingKey)
}

type reservationFixture struct {
	handler    *ReservationHandler
	mock       sqlmock.Sqlmock
	passengers *fakePassengers
	flights    *fakeFlights
	sink       *recordingSink
}

func newReservationFixture(t *testing.T, seats booking.SeatScanner) reservationFixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	passengers := &fakePassengers{status: booking.Found}
	flights := &fakeFlights{info: booking.FlightInfo{Status: booking.Found, DepartsAt: time.Now().Add(24 * time.Hour)}}
	if seats == nil {
		seats = &fakeSeats{}
	}
	checker := booking.NewChecker(passengers, flights, seats, true)
	sink := &recordingSink{}

	return reservationFixture{
		handler:    NewReservationHandler(repository.NewReservationRepo(db), checker, sink),
		mock:       mock,
		passengers: passengers,
		flights:    flights,
		sink:       sink,
	}
}

var reservationCols = []string{
	"id", "passenger_id", "flight_id", "seat", "fare_class",
	"price_cents", "status", "code", "created_at", "updated_at",
}

func reservationRows(id uint64, seat, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(reservationCols).
		AddRow(id, 7, 3, seat, "economy", 12500, status, "AB12CD34", now, now)
}

func doJSON(e *echo.Echo, h echo.HandlerFunc, method, target, body string, hdr map[string]string, params ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	_ = h(c)
	return rec
}

const createBody = `{"passenger_id":7,"flight_id":3,"seat":"12a","fare_class":"Economy","price_cents":12500}`

func TestReservationCreateReturns201(t *testing.T) {
	fx := newReservationFixture(t, nil)

	fx.mock.ExpectBegin()
	fx.mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WillReturnError(sql.ErrNoRows)
	fx.mock.ExpectExec(`INSERT INTO reservations`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	fx.mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WillReturnRows(reservationRows(42, "12A", "PENDING"))
	fx.mock.ExpectCommit()

	rec := doJSON(echo.New(), fx.handler.Create, http.MethodPost, "/v1/reservations", createBody, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(42), got.ID)
	assert.Equal(t, model.ReservationPending, got.Status)
	assert.NotEmpty(t, got.Code)
	assert.Equal(t, []string{"reservation.created"}, fx.sink.keys)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestReservationCreatePassengerNotFound(t *testing.T) {
	fx := newReservationFixture(t, nil)
	fx.passengers.status = booking.NotFound

	rec := doJSON(echo.New(), fx.handler.Create, http.MethodPost, "/v1/reservations", createBody, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "passenger_not_found")
	assert.Zero(t, fx.flights.calls, "flight lookup must not follow a passenger rejection")
	assert.Empty(t, fx.sink.keys)
}

func TestReservationCreateFlightServiceDown(t *testing.T) {
	fx := newReservationFixture(t, nil)
	fx.flights.info = booking.FlightInfo{Status: booking.Unavailable}

	rec := doJSON(echo.New(), fx.handler.Create, http.MethodPost, "/v1/reservations", createBody, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "flight_service_unavailable")
}

func TestReservationCreateSeatTaken(t *testing.T) {
	fx := newReservationFixture(t, &fakeSeats{taken: true})

	rec := doJSON(echo.New(), fx.handler.Create, http.MethodPost, "/v1/reservations", createBody, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "seat_taken")
	assert.Empty(t, fx.sink.keys)
}

func TestReservationCreateValidation(t *testing.T) {
	fx := newReservationFixture(t, nil)

	rec := doJSON(echo.New(), fx.handler.Create, http.MethodPost, "/v1/reservations",
		`{"passenger_id":7,"flight_id":3}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "seat is required")
	assert.Zero(t, fx.passengers.calls, "no remote call for an invalid body")
}

func TestReservationCreateIdempotentReplay(t *testing.T) {
	fx := newReservationFixture(t, nil)

	fx.mock.ExpectQuery(`JOIN idempotency_keys`).
		WithArgs("key-123").
		WillReturnRows(reservationRows(42, "12A", "PENDING"))

	rec := doJSON(echo.New(), fx.handler.Create, http.MethodPost, "/v1/reservations", createBody,
		map[string]string{"Idempotency-Key": "key-123"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(42), got.ID)
	assert.Zero(t, fx.passengers.calls, "replay must not re-run remote checks")
	assert.Empty(t, fx.sink.keys, "replay must not re-emit the created event")
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestReservationCancelFreesSeat(t *testing.T) {
	fx := newReservationFixture(t, nil)

	fx.mock.ExpectBegin()
	fx.mock.ExpectQuery(`SELECT id, passenger_id, flight_id(?s:.*)FOR UPDATE`).
		WillReturnRows(reservationRows(42, "12A", "PENDING"))
	fx.mock.ExpectExec(`UPDATE reservations SET status = \?`).
		WithArgs("CANCELLED", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	fx.mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WillReturnRows(reservationRows(42, "12A", "CANCELLED"))
	fx.mock.ExpectCommit()

	rec := doJSON(echo.New(), fx.handler.Update, http.MethodPut, "/v1/reservations/42",
		`{"status":"cancelled"}`, nil, "id", "42")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.ReservationCancelled, got.Status)
	assert.Equal(t, []string{"reservation.updated"}, fx.sink.keys)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestReservationUpdateRejectsBadStatus(t *testing.T) {
	fx := newReservationFixture(t, nil)

	rec := doJSON(echo.New(), fx.handler.Update, http.MethodPut, "/v1/reservations/42",
		`{"status":"TELEPORTED"}`, nil, "id", "42")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationDeleteReturns204(t *testing.T) {
	fx := newReservationFixture(t, nil)

	fx.mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WillReturnRows(reservationRows(42, "12A", "PENDING"))
	fx.mock.ExpectExec(`DELETE FROM reservations`).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(echo.New(), fx.handler.Delete, http.MethodDelete, "/v1/reservations/42", "", nil, "id", "42")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"reservation.deleted"}, fx.sink.keys)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestReservationGetByCodeNotFound(t *testing.T) {
	fx := newReservationFixture(t, nil)

	fx.mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WithArgs("ZZZZZZZZ").
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(echo.New(), fx.handler.GetByCode, http.MethodGet, "/v1/reservations/code/ZZZZZZZZ", "", nil, "code", "ZZZZZZZZ")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestReservationListPassesFilters(t *testing.T) {
	fx := newReservationFixture(t, nil)

	fx.mock.ExpectQuery(`WHERE flight_id = \?`).
		WithArgs(uint64(3), 100, 0).
		WillReturnRows(reservationRows(42, "12A", "PENDING"))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations?flight_id=3", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, fx.handler.List(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items"`)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}
