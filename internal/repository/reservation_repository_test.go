package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcastano/airline-backoffice/internal/model"
)

var reservationColNames = []string{
	"id", "passenger_id", "flight_id", "seat", "fare_class",
	"price_cents", "status", "code", "created_at", "updated_at",
}

func reservationRow(id uint64, seat, status string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(reservationColNames).
		AddRow(id, 7, 3, seat, "economy", 12500, status, "AB12CD34", now, now)
}

func errNoRows() error { return sql.ErrNoRows }

func newReservationMock(t *testing.T) (*ReservationRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewReservationRepo(db), mock
}

func TestReservationCreateScansAndInsertsInOneTx(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WithArgs(uint64(3), "12A", uint64(0)).
		WillReturnError(errNoRows())
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(uint64(7), uint64(3), "12A", "economy", uint32(12500), "PENDING", "AB12CD34").
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, "12A", "PENDING"))
	mock.ExpectCommit()

	res := model.Reservation{
		PassengerID: 7, FlightID: 3, Seat: "12A",
		FareClass: "economy", PriceCents: 12500,
		Status: model.ReservationPending, Code: "AB12CD34",
	}
	err := repo.Create(context.Background(), &res, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateStoresIdempotencyKeyInSameTx(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WillReturnError(errNoRows())
	mock.ExpectExec(`INSERT INTO reservations`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO idempotency_keys`).
		WithArgs("key-123", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WillReturnRows(reservationRow(42, "12A", "PENDING"))
	mock.ExpectCommit()

	res := model.Reservation{PassengerID: 7, FlightID: 3, Seat: "12A", FareClass: "economy", Status: model.ReservationPending, Code: "AB12CD34"}
	require.NoError(t, repo.Create(context.Background(), &res, "key-123"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateSeatConflictFromScan(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(99))
	mock.ExpectRollback()

	res := model.Reservation{PassengerID: 7, FlightID: 3, Seat: "12A", Status: model.ReservationPending, Code: "AB12CD34"}
	err := repo.Create(context.Background(), &res, "")
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateSeatConflictFromUniqueIndex(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WillReturnError(errNoRows())
	mock.ExpectExec(`INSERT INTO reservations`).
		WillReturnError(errors.New(`Error 1062 (23000): Duplicate entry '3-12A' for key 'reservations.uq_flight_active_seat'`))
	mock.ExpectRollback()

	res := model.Reservation{PassengerID: 7, FlightID: 3, Seat: "12A", Status: model.ReservationPending, Code: "AB12CD34"}
	err := repo.Create(context.Background(), &res, "")
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateSeatConflictFromDeadlock(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WillReturnError(errNoRows())
	mock.ExpectExec(`INSERT INTO reservations`).
		WillReturnError(errors.New(`Error 1213 (40001): Deadlock found when trying to get lock; try restarting transaction`))
	mock.ExpectRollback()

	res := model.Reservation{PassengerID: 7, FlightID: 3, Seat: "12A", Status: model.ReservationPending, Code: "AB12CD34"}
	err := repo.Create(context.Background(), &res, "")
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateDuplicateIdemKey(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WillReturnError(errNoRows())
	mock.ExpectExec(`INSERT INTO reservations`).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(`INSERT INTO idempotency_keys`).
		WillReturnError(errors.New(`Error 1062 (23000): Duplicate entry 'key-123' for key 'idempotency_keys.PRIMARY'`))
	mock.ExpectRollback()

	res := model.Reservation{PassengerID: 7, FlightID: 3, Seat: "12A", Status: model.ReservationPending, Code: "AB12CD34"}
	err := repo.Create(context.Background(), &res, "key-123")
	assert.ErrorIs(t, err, ErrIdemKeyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationUpdateSeatChangeRescans(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, passenger_id, flight_id(?s:.*)FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, "12A", "PENDING"))
	mock.ExpectQuery(`SELECT id FROM reservations(?s:.*)FOR UPDATE`).
		WithArgs(uint64(3), "14C", uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(77))
	mock.ExpectRollback()

	seat := "14C"
	_, err := repo.Update(context.Background(), 42, ReservationPatch{Seat: &seat})
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationUpdateStatusOnly(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, passenger_id, flight_id(?s:.*)FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, "12A", "PENDING"))
	mock.ExpectExec(`UPDATE reservations SET status = \?`).
		WithArgs("CANCELLED", uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, passenger_id, flight_id`).
		WithArgs(uint64(42)).
		WillReturnRows(reservationRow(42, "12A", "CANCELLED"))
	mock.ExpectCommit()

	status := model.ReservationCancelled
	res, err := repo.Update(context.Background(), 42, ReservationPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationCancelled, res.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationUpdateNotFound(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, passenger_id, flight_id(?s:.*)FOR UPDATE`).
		WithArgs(uint64(42)).
		WillReturnError(errNoRows())
	mock.ExpectRollback()

	status := model.ReservationConfirmed
	_, err := repo.Update(context.Background(), 42, ReservationPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasActiveSeatConflict(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectQuery(`SELECT id FROM reservations`).
		WithArgs(uint64(3), "12A", uint64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	taken, err := repo.HasActiveSeatConflict(context.Background(), 3, "12A", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectQuery(`SELECT id FROM reservations`).
		WithArgs(uint64(3), "14C", uint64(0)).
		WillReturnError(errNoRows())

	taken, err = repo.HasActiveSeatConflict(context.Background(), 3, "14C", 0)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationDeleteNotFound(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectExec(`DELETE FROM reservations`).
		WithArgs(uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 42), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationListFilters(t *testing.T) {
	repo, mock := newReservationMock(t)

	mock.ExpectQuery(`SELECT id, passenger_id, flight_id(?s:.*)WHERE flight_id = \? AND passenger_id = \?`).
		WithArgs(uint64(3), uint64(7), 100, 0).
		WillReturnRows(reservationRow(42, "12A", "PENDING"))

	items, err := repo.List(context.Background(), ReservationFilter{FlightID: 3, PassengerID: 7})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, uint64(42), items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
