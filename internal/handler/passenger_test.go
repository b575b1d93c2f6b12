package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/airline-backoffice/internal/model"
	"github.com/dcastano/airline-backoffice/internal/repository"
)

func newPassengerFixture(t *testing.T) (*PassengerHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPassengerHandler(repository.NewPassengerRepo(db)), mock
}

func passengerRow(id uint64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "nationality", "passport_number",
		"date_of_birth", "created_at", "updated_at",
	}).AddRow(id, "Ada", "Lovelace", "GB", "P1234567", "1990-12-10", now, now)
}

func TestPassengerCreateReturns201(t *testing.T) {
	h, mock := newPassengerFixture(t)

	mock.ExpectExec(`INSERT INTO passengers`).
		WithArgs("Ada", "Lovelace", "GB", "P1234567", "1990-12-10").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(`SELECT id, first_name`).
		WillReturnRows(passengerRow(5))

	rec := doJSON(echo.New(), h.Create, http.MethodPost, "/v1/passengers",
		`{"first_name":"Ada","last_name":"Lovelace","nationality":"GB","passport_number":"P1234567","date_of_birth":"1990-12-10"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Passenger
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(5), got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassengerCreateValidation(t *testing.T) {
	h, _ := newPassengerFixture(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{"missing first name", `{"last_name":"Lovelace","passport_number":"P1"}`, "first_name is required"},
		{"missing passport", `{"first_name":"Ada","last_name":"Lovelace"}`, "passport_number is required"},
		{"bad birth date", `{"first_name":"Ada","last_name":"Lovelace","passport_number":"P1","date_of_birth":"10/12/1990"}`, "date_of_birth must be YYYY-MM-DD"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(echo.New(), h.Create, http.MethodPost, "/v1/passengers", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestPassengerCreateDuplicatePassport(t *testing.T) {
	h, mock := newPassengerFixture(t)

	mock.ExpectExec(`INSERT INTO passengers`).
		WillReturnError(&mockMySQLErr{msg: "Error 1062 (23000): Duplicate entry 'P1234567' for key 'passengers.uq_passengers_passport'"})

	rec := doJSON(echo.New(), h.Create, http.MethodPost, "/v1/passengers",
		`{"first_name":"Ada","last_name":"Lovelace","passport_number":"P1234567"}`, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPassengerGetNotFound(t *testing.T) {
	h, mock := newPassengerFixture(t)

	mock.ExpectQuery(`SELECT id, first_name`).
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	rec := doJSON(echo.New(), h.Get, http.MethodGet, "/v1/passengers/99", "", nil, "id", "99")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPassengerGetInvalidID(t *testing.T) {
	h, _ := newPassengerFixture(t)

	rec := doJSON(echo.New(), h.Get, http.MethodGet, "/v1/passengers/abc", "", nil, "id", "abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPassengerDeleteReturns204(t *testing.T) {
	h, mock := newPassengerFixture(t)

	mock.ExpectExec(`DELETE FROM passengers`).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doJSON(echo.New(), h.Delete, http.MethodDelete, "/v1/passengers/5", "", nil, "id", "5")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// mockMySQLErr mimics the text of a go-sql-driver duplicate key error.
type mockMySQLErr struct{ msg string }

func (e *mockMySQLErr) Error() string { return e.msg }
