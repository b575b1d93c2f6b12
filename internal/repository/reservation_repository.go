package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dcastano/airline-backoffice/internal/model"
)

// ReservationRepo provides CRUD operations for reservations. The
// seat-uniqueness invariant (at most one non-cancelled reservation
// per flight+seat) is enforced twice: a locking scan inside the
// insert/update transaction, and the uq_flight_active_seat unique
// index as the storage-level backstop. Remote existence checks are
// the admission check's business and happen before any transaction
// here is opened.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to begin
// their own transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, passenger_id, flight_id, seat, fare_class, price_cents, status, code, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(
		&res.ID, &res.PassengerID, &res.FlightID, &res.Seat, &res.FareClass,
		&res.PriceCents, &res.Status, &res.Code, &res.CreatedAt, &res.UpdatedAt,
	)
	return res, err
}

// HasActiveSeatConflict reports whether a non-cancelled reservation
// other than excludeID already claims the seat on the flight. This is
// the read-path scan used by the admission check; it takes no locks.
func (r *ReservationRepo) HasActiveSeatConflict(ctx context.Context, flightID uint64, seat string, excludeID uint64) (bool, error) {
	const q = `SELECT id FROM reservations
	           WHERE flight_id = ? AND seat = ? AND status <> 'CANCELLED' AND id <> ?
	           LIMIT 1`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, flightID, seat, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// seatConflictTx is the locking variant of the scan, run inside the
// write transaction so two concurrent creates for the same seat
// serialize on the row instead of both observing "free".
func seatConflictTx(ctx context.Context, tx *sql.Tx, flightID uint64, seat string, excludeID uint64) (bool, error) {
	const q = `SELECT id FROM reservations
	           WHERE flight_id = ? AND seat = ? AND status <> 'CANCELLED' AND id <> ?
	           LIMIT 1 FOR UPDATE`
	var id uint64
	err := tx.QueryRowContext(ctx, q, flightID, seat, excludeID).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// mapReservationDupErr translates a MySQL 1062 on one of the
// reservation unique indexes into the matching sentinel. A 1213
// deadlock maps to ErrSeatTaken too: two admitted creates for the
// same free seat gap-lock the empty range and deadlock on
// insert-intention, InnoDB kills one, and the survivor owns the seat,
// so the victim reports a seat conflict rather than a storage
// failure.
func mapReservationDupErr(err error) error {
	if isDeadlock(err) {
		return ErrSeatTaken
	}
	if !isDuplicateKey(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "uq_flight_active_seat"):
		return ErrSeatTaken
	case strings.Contains(msg, "idempotency"):
		return ErrIdemKeyExists
	default:
		return ErrDuplicate
	}
}

// Create inserts a new reservation. The conflict scan and the insert
// run in one transaction; if idemKey is non-empty it is recorded in
// idempotency_keys inside the same transaction so a replayed request
// can never produce a second row. The generated ID, timestamps and
// defaults are read back into res before commit.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation, idemKey string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	taken, err := seatConflictTx(ctx, tx, res.FlightID, res.Seat, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrSeatTaken
	}

	const ins = `INSERT INTO reservations (passenger_id, flight_id, seat, fare_class, price_cents, status, code)
	             VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, ins,
		res.PassengerID, res.FlightID, res.Seat, res.FareClass, res.PriceCents, res.Status, res.Code)
	if err != nil {
		return mapReservationDupErr(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)

	if idemKey != "" {
		const idem = `INSERT INTO idempotency_keys (idem_key, reservation_id) VALUES (?, ?)`
		if _, err := tx.ExecContext(ctx, idem, idemKey, res.ID); err != nil {
			return mapReservationDupErr(err)
		}
	}

	// Read the row back to populate timestamps and defaults.
	sel := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	*res, err = scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns a reservation or ErrNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// GetByCode returns a reservation by its human-readable code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE code = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, code))
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// FindByIdemKey returns the reservation previously created under the
// given idempotency key, or ErrNotFound.
func (r *ReservationRepo) FindByIdemKey(ctx context.Context, key string) (model.Reservation, error) {
	q := `SELECT ` + prefixCols("r.") + ` FROM reservations r
	      JOIN idempotency_keys ik ON ik.reservation_id = r.id
	      WHERE ik.idem_key = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, key))
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

func prefixCols(p string) string {
	cols := strings.Split(reservationCols, ", ")
	for i := range cols {
		cols[i] = p + cols[i]
	}
	return strings.Join(cols, ", ")
}

// ReservationPatch carries the fields a PUT may change. Nil fields
// are left untouched. Status transitions are direct field updates;
// no state machine is enforced.
type ReservationPatch struct {
	Seat       *string
	FareClass  *string
	PriceCents *uint32
	Status     *string
}

// Update applies a partial update under a row lock on the reservation
// id, so concurrent updates to the same reservation apply in arrival
// order. When the patch changes the seat, the conflict scan re-runs
// inside the same transaction excluding the row's own id.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, patch ReservationPatch) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the row first; this also yields the current seat.
	sel := `SELECT ` + reservationCols + ` FROM reservations WHERE id = ? FOR UPDATE`
	cur, err := scanReservation(tx.QueryRowContext(ctx, sel, id))
	if err == sql.ErrNoRows {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}

	if patch.Seat != nil && *patch.Seat != cur.Seat {
		taken, err := seatConflictTx(ctx, tx, cur.FlightID, *patch.Seat, id)
		if err != nil {
			return model.Reservation{}, err
		}
		if taken {
			return model.Reservation{}, ErrSeatTaken
		}
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if patch.Seat != nil {
		sets = append(sets, "seat = ?")
		args = append(args, *patch.Seat)
	}
	if patch.FareClass != nil {
		sets = append(sets, "fare_class = ?")
		args = append(args, *patch.FareClass)
	}
	if patch.PriceCents != nil {
		sets = append(sets, "price_cents = ?")
		args = append(args, *patch.PriceCents)
	}
	if patch.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *patch.Status)
	}
	if len(sets) > 0 {
		args = append(args, id)
		upd := `UPDATE reservations SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
		if _, err := tx.ExecContext(ctx, upd, args...); err != nil {
			return model.Reservation{}, mapReservationDupErr(err)
		}
	}

	after, err := scanReservation(tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	return after, nil
}

// Delete removes a reservation permanently. No tombstone is kept and
// no cross-service cleanup happens.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReservationFilter narrows List results. Zero IDs mean "any".
type ReservationFilter struct {
	FlightID    uint64
	PassengerID uint64
	Skip        int
	Limit       int
}

// List returns reservations matching the filter, newest first,
// paginated via skip/limit.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations`
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if f.FlightID != 0 {
		where = append(where, "flight_id = ?")
		args = append(args, f.FlightID)
	}
	if f.PassengerID != 0 {
		where = append(where, "passenger_id = ?")
		args = append(args, f.PassengerID)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	q += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, f.Skip)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
