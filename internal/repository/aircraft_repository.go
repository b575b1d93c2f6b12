package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dcastano/airline-backoffice/internal/model"
)

// AircraftRepo provides CRUD operations over the `aircraft` table.
type AircraftRepo struct {
	db *sql.DB
}

// NewAircraftRepo returns an AircraftRepo bound to the given database.
func NewAircraftRepo(db *sql.DB) *AircraftRepo { return &AircraftRepo{db: db} }

const aircraftCols = `id, tail_number, model, passenger_capacity, cargo_capacity_kg, status, last_inspection_at, next_inspection_at, created_at, updated_at`

func scanAircraft(row rowScanner) (model.Aircraft, error) {
	var a model.Aircraft
	var last, next sql.NullTime
	err := row.Scan(&a.ID, &a.TailNumber, &a.Model, &a.PassengerCapacity, &a.CargoCapacityKg,
		&a.Status, &last, &next, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return a, err
	}
	if last.Valid {
		t := last.Time
		a.LastInspectionAt = &t
	}
	if next.Valid {
		t := next.Time
		a.NextInspectionAt = &t
	}
	return a, nil
}

// Create inserts an aircraft. A tail number collision returns ErrDuplicate.
func (r *AircraftRepo) Create(ctx context.Context, a *model.Aircraft) error {
	const q = `INSERT INTO aircraft (tail_number, model, passenger_capacity, cargo_capacity_kg, status, last_inspection_at, next_inspection_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, a.TailNumber, a.Model, a.PassengerCapacity, a.CargoCapacityKg,
		a.Status, a.LastInspectionAt, a.NextInspectionAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	*a, err = scanAircraft(r.db.QueryRowContext(ctx, `SELECT `+aircraftCols+` FROM aircraft WHERE id = ?`, id))
	return err
}

// GetByID returns an aircraft or ErrNotFound.
func (r *AircraftRepo) GetByID(ctx context.Context, id uint64) (model.Aircraft, error) {
	a, err := scanAircraft(r.db.QueryRowContext(ctx, `SELECT `+aircraftCols+` FROM aircraft WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Aircraft{}, ErrNotFound
	}
	return a, err
}

// GetByTailNumber returns an aircraft by its unique tail number.
func (r *AircraftRepo) GetByTailNumber(ctx context.Context, tail string) (model.Aircraft, error) {
	a, err := scanAircraft(r.db.QueryRowContext(ctx, `SELECT `+aircraftCols+` FROM aircraft WHERE tail_number = ?`, tail))
	if err == sql.ErrNoRows {
		return model.Aircraft{}, ErrNotFound
	}
	return a, err
}

// ListByStatus returns aircraft in the given status, ordered by id,
// paginated via skip/limit.
func (r *AircraftRepo) ListByStatus(ctx context.Context, status string, skip, limit int) ([]model.Aircraft, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+aircraftCols+` FROM aircraft WHERE status = ? ORDER BY id LIMIT ? OFFSET ?`,
		status, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Aircraft, 0)
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// StartMaintenance moves an aircraft into MAINTENANCE, stamping the
// inspection as of now and recording the next scheduled one when
// given. Returns the updated row.
func (r *AircraftRepo) StartMaintenance(ctx context.Context, id uint64, next *time.Time) (model.Aircraft, error) {
	const q = `UPDATE aircraft SET status = ?, last_inspection_at = CURRENT_TIMESTAMP, next_inspection_at = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, model.AircraftMaintenance, next, id)
	if err != nil {
		return model.Aircraft{}, err
	}
	if n, err := result.RowsAffected(); err != nil {
		return model.Aircraft{}, err
	} else if n == 0 {
		return model.Aircraft{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Update overwrites the mutable fields of an aircraft row.
func (r *AircraftRepo) Update(ctx context.Context, a *model.Aircraft) error {
	const q = `UPDATE aircraft SET tail_number = ?, model = ?, passenger_capacity = ?, cargo_capacity_kg = ?,
	           status = ?, last_inspection_at = ?, next_inspection_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, a.TailNumber, a.Model, a.PassengerCapacity, a.CargoCapacityKg,
		a.Status, a.LastInspectionAt, a.NextInspectionAt, a.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, a.ID); err != nil {
			return err
		}
	}
	var scanErr error
	*a, scanErr = scanAircraft(r.db.QueryRowContext(ctx, `SELECT `+aircraftCols+` FROM aircraft WHERE id = ?`, a.ID))
	return scanErr
}

// Delete removes an aircraft.
func (r *AircraftRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM aircraft WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns aircraft ordered by id, paginated via skip/limit.
func (r *AircraftRepo) List(ctx context.Context, skip, limit int) ([]model.Aircraft, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+aircraftCols+` FROM aircraft ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Aircraft, 0)
	for rows.Next() {
		a, err := scanAircraft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
