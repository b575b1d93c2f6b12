package repository

import (
	"context"
	"database/sql"

	"github.com/dcastano/airline-backoffice/internal/model"
)

// LayoverRepo provides CRUD operations over the `layovers` table.
// Flight and airport references are weak and validated remotely by
// the handler before a write reaches this repository.
type LayoverRepo struct {
	db *sql.DB
}

// NewLayoverRepo returns a LayoverRepo bound to the given database.
func NewLayoverRepo(db *sql.DB) *LayoverRepo { return &LayoverRepo{db: db} }

const layoverCols = `id, flight_id, airport_id, sequence, arrives_at, departs_at, duration_min, kind, status, terminal, gate, created_at, updated_at`

func scanLayover(row rowScanner) (model.Layover, error) {
	var l model.Layover
	var terminal, gate sql.NullString
	err := row.Scan(&l.ID, &l.FlightID, &l.AirportID, &l.Sequence, &l.ArrivesAt, &l.DepartsAt,
		&l.DurationMin, &l.Kind, &l.Status, &terminal, &gate, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	if terminal.Valid {
		s := terminal.String
		l.Terminal = &s
	}
	if gate.Valid {
		s := gate.String
		l.Gate = &s
	}
	return l, nil
}

// Create inserts a layover and reads the full row back.
func (r *LayoverRepo) Create(ctx context.Context, l *model.Layover) error {
	const q = `INSERT INTO layovers (flight_id, airport_id, sequence, arrives_at, departs_at, duration_min, kind, status, terminal, gate)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, l.FlightID, l.AirportID, l.Sequence,
		l.ArrivesAt.UTC(), l.DepartsAt.UTC(), l.DurationMin, l.Kind, l.Status, l.Terminal, l.Gate)
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
	*l, err = scanLayover(r.db.QueryRowContext(ctx, `SELECT `+layoverCols+` FROM layovers WHERE id = ?`, id))
	return err
}

// GetByID returns a layover or ErrNotFound.
func (r *LayoverRepo) GetByID(ctx context.Context, id uint64) (model.Layover, error) {
	l, err := scanLayover(r.db.QueryRowContext(ctx, `SELECT `+layoverCols+` FROM layovers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Layover{}, ErrNotFound
	}
	return l, err
}

// Update overwrites the mutable fields of a layover row.
func (r *LayoverRepo) Update(ctx context.Context, l *model.Layover) error {
	const q = `UPDATE layovers SET flight_id = ?, airport_id = ?, sequence = ?, arrives_at = ?, departs_at = ?,
	           duration_min = ?, kind = ?, status = ?, terminal = ?, gate = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, l.FlightID, l.AirportID, l.Sequence,
		l.ArrivesAt.UTC(), l.DepartsAt.UTC(), l.DurationMin, l.Kind, l.Status, l.Terminal, l.Gate, l.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, l.ID); err != nil {
			return err
		}
	}
	var scanErr error
	*l, scanErr = scanLayover(r.db.QueryRowContext(ctx, `SELECT `+layoverCols+` FROM layovers WHERE id = ?`, l.ID))
	return scanErr
}

// ListByAirport returns the layovers scheduled at an airport, ordered
// by arrival, paginated via skip/limit.
func (r *LayoverRepo) ListByAirport(ctx context.Context, airportID uint64, skip, limit int) ([]model.Layover, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+layoverCols+` FROM layovers WHERE airport_id = ? ORDER BY arrives_at, id LIMIT ? OFFSET ?`,
		airportID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Layover, 0)
	for rows.Next() {
		l, err := scanLayover(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// UpdateStatus changes only the status of a layover and returns the
// updated row.
func (r *LayoverRepo) UpdateStatus(ctx context.Context, id uint64, status string) (model.Layover, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE layovers SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return model.Layover{}, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// A no-op update also reports zero rows; confirm existence.
		if _, err := r.GetByID(ctx, id); err != nil {
			return model.Layover{}, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a layover.
func (r *LayoverRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM layovers WHERE id = ?`, id)
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

// List returns layovers, optionally filtered by flight, ordered by
// flight and sequence, paginated via skip/limit.
func (r *LayoverRepo) List(ctx context.Context, flightID uint64, skip, limit int) ([]model.Layover, error) {
	if limit <= 0 {
		limit = 100
	}
	q := `SELECT ` + layoverCols + ` FROM layovers`
	args := make([]any, 0, 3)
	if flightID != 0 {
		q += ` WHERE flight_id = ?`
		args = append(args, flightID)
	}
	q += ` ORDER BY flight_id, sequence LIMIT ? OFFSET ?`
	args = append(args, limit, skip)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Layover, 0)
	for rows.Next() {
		l, err := scanLayover(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
