package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
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

// fakeAirports, fakeAircraft, and fakeFlightDir satisfy the handlers'
// non-nil constructor contracts; the lookup endpoints under test never
// consult the remote directories.
type fakeAirports struct{}

func (fakeAirports) LookupAirport(ctx context.Context, id uint64) booking.LookupStatus {
	return booking.Found
}

type fakeAircraft struct{}

func (fakeAircraft) LookupAircraft(ctx context.Context, id uint64) booking.LookupStatus {
	return booking.Found
}

type fakeFlightDir struct{}

func (fakeFlightDir) LookupFlight(ctx context.Context, id uint64) booking.FlightInfo {
	return booking.FlightInfo{Status: booking.Found}
}

func newFlightFixture(t *testing.T) (*FlightHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewFlightHandler(repository.NewFlightRepo(db), fakeAirports{}, fakeAircraft{}, nil), mock
}

func newAircraftFixture(t *testing.T) (*AircraftHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAircraftHandler(repository.NewAircraftRepo(db)), mock
}

func newAirportFixture(t *testing.T) (*AirportHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewAirportHandler(repository.NewAirportRepo(db)), mock
}

func newLayoverFixture(t *testing.T) (*LayoverHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewLayoverHandler(repository.NewLayoverRepo(db), fakeFlightDir{}, fakeAirports{}), mock
}

func flightRow(id uint64, number, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "flight_number", "departs_at", "arrives_at", "origin_airport_id",
		"destination_airport_id", "aircraft_id", "status", "created_at", "updated_at",
	}).AddRow(id, number, now.Add(24*time.Hour), now.Add(26*time.Hour), 1, 2, 9, status, now, now)
}

func aircraftRow(id uint64, tail, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "tail_number", "model", "passenger_capacity", "cargo_capacity_kg",
		"status", "last_inspection_at", "next_inspection_at", "created_at", "updated_at",
	}).AddRow(id, tail, "A320", 180, 20000, status, nil, nil, now, now)
}

func airportRow(id uint64, code string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "iata_code", "name", "city", "country", "latitude", "longitude",
		"timezone", "status", "created_at", "updated_at",
	}).AddRow(id, code, "Heathrow", "London", "GB", 51.47, -0.4543, "Europe/London", "ACTIVE", now, now)
}

func layoverRow(id uint64, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "flight_id", "airport_id", "sequence", "arrives_at", "departs_at",
		"duration_min", "kind", "status", "terminal", "gate", "created_at", "updated_at",
	}).AddRow(id, 3, 2, 1, now, now.Add(90*time.Minute), 90, model.LayoverTechnical, status, nil, nil, now, now)
}

func TestFlightGetByNumberUppercasesInput(t *testing.T) {
	h, mock := newFlightFixture(t)

	mock.ExpectQuery(`SELECT id, flight_number(?s:.*)WHERE flight_number = \?`).
		WithArgs("BA2490").
		WillReturnRows(flightRow(3, "BA2490", model.FlightScheduled))

	rec := doJSON(echo.New(), h.GetByNumber, http.MethodGet, "/v1/flights/number/ba2490", "", nil,
		"number", "ba2490")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Flight
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "BA2490", got.FlightNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightGetByNumberNotFound(t *testing.T) {
	h, mock := newFlightFixture(t)

	mock.ExpectQuery(`WHERE flight_number = \?`).
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(echo.New(), h.GetByNumber, http.MethodGet, "/v1/flights/number/XX0000", "", nil,
		"number", "XX0000")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightListByStatusRejectsUnknownStatus(t *testing.T) {
	h, mock := newFlightFixture(t)

	rec := doJSON(echo.New(), h.ListByStatus, http.MethodGet, "/v1/flights/status/TAXIING", "", nil,
		"status", "TAXIING")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFlightListByStatusFilters(t *testing.T) {
	h, mock := newFlightFixture(t)

	mock.ExpectQuery(`WHERE status = \?`).
		WithArgs(model.FlightDelayed, 100, 0).
		WillReturnRows(flightRow(3, "BA2490", model.FlightDelayed))

	rec := doJSON(echo.New(), h.ListByStatus, http.MethodGet, "/v1/flights/status/delayed", "", nil,
		"status", "delayed")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAircraftGetByTailNumber(t *testing.T) {
	h, mock := newAircraftFixture(t)

	mock.ExpectQuery(`WHERE tail_number = \?`).
		WithArgs("EC-MYT").
		WillReturnRows(aircraftRow(9, "EC-MYT", model.AircraftActive))

	rec := doJSON(echo.New(), h.GetByTailNumber, http.MethodGet, "/v1/aircraft/tail/ec-myt", "", nil,
		"tail", "ec-myt")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Aircraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "EC-MYT", got.TailNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAircraftStartMaintenance(t *testing.T) {
	h, mock := newAircraftFixture(t)

	mock.ExpectExec(`UPDATE aircraft SET status = \?, last_inspection_at = CURRENT_TIMESTAMP`).
		WithArgs(model.AircraftMaintenance, nil, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE id = \?`).
		WithArgs(uint64(9)).
		WillReturnRows(aircraftRow(9, "EC-MYT", model.AircraftMaintenance))

	rec := doJSON(echo.New(), h.StartMaintenance, http.MethodPut, "/v1/aircraft/9/maintenance", `{}`, nil,
		"id", "9")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Aircraft
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.AircraftMaintenance, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAircraftStartMaintenanceNotFound(t *testing.T) {
	h, mock := newAircraftFixture(t)

	mock.ExpectExec(`UPDATE aircraft SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doJSON(echo.New(), h.StartMaintenance, http.MethodPut, "/v1/aircraft/404/maintenance", `{}`, nil,
		"id", "404")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAirportGetByCode(t *testing.T) {
	h, mock := newAirportFixture(t)

	mock.ExpectQuery(`WHERE iata_code = \?`).
		WithArgs("LHR").
		WillReturnRows(airportRow(2, "LHR"))

	rec := doJSON(echo.New(), h.GetByCode, http.MethodGet, "/v1/airports/code/lhr", "", nil,
		"code", "lhr")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Airport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "LHR", got.IATACode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAirportGetByCodeRejectsBadLength(t *testing.T) {
	h, mock := newAirportFixture(t)

	rec := doJSON(echo.New(), h.GetByCode, http.MethodGet, "/v1/airports/code/LHRX", "", nil,
		"code", "LHRX")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoverListByAirport(t *testing.T) {
	h, mock := newLayoverFixture(t)

	mock.ExpectQuery(`WHERE airport_id = \?`).
		WithArgs(uint64(2), 100, 0).
		WillReturnRows(layoverRow(4, model.LayoverScheduled))

	rec := doJSON(echo.New(), h.ListByAirport, http.MethodGet, "/v1/layovers/airport/2", "", nil,
		"airportID", "2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoverUpdateStatus(t *testing.T) {
	h, mock := newLayoverFixture(t)

	mock.ExpectExec(`UPDATE layovers SET status = \?`).
		WithArgs(model.LayoverInProgress, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(layoverRow(4, model.LayoverInProgress))

	rec := doJSON(echo.New(), h.UpdateStatus, http.MethodPatch, "/v1/layovers/4/status",
		`{"status":"in_progress"}`, nil, "id", "4")

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.Layover
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.LayoverInProgress, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoverUpdateStatusRejectsUnknownStatus(t *testing.T) {
	h, mock := newLayoverFixture(t)

	rec := doJSON(echo.New(), h.UpdateStatus, http.MethodPatch, "/v1/layovers/4/status",
		`{"status":"PAUSED"}`, nil, "id", "4")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
