package repository

import (
	"context"
	"database/sql"

	"github.com/dcastano/airline-backoffice/internal/model"
)

// AirportRepo provides CRUD operations over airports and their owned
// terminals and runways. Terminals and runways are real foreign keys
// (same service, same schema) and are deleted with their airport.
type AirportRepo struct {
	db *sql.DB
}

// NewAirportRepo returns an AirportRepo bound to the given database.
func NewAirportRepo(db *sql.DB) *AirportRepo { return &AirportRepo{db: db} }

const airportCols = `id, iata_code, name, city, country, latitude, longitude, timezone, status, created_at, updated_at`

func scanAirport(row rowScanner) (model.Airport, error) {
	var a model.Airport
	err := row.Scan(&a.ID, &a.IATACode, &a.Name, &a.City, &a.Country,
		&a.Latitude, &a.Longitude, &a.Timezone, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create inserts an airport. An IATA code collision returns ErrDuplicate.
func (r *AirportRepo) Create(ctx context.Context, a *model.Airport) error {
	const q = `INSERT INTO airports (iata_code, name, city, country, latitude, longitude, timezone, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, a.IATACode, a.Name, a.City, a.Country,
		a.Latitude, a.Longitude, a.Timezone, a.Status)
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
	*a, err = scanAirport(r.db.QueryRowContext(ctx, `SELECT `+airportCols+` FROM airports WHERE id = ?`, id))
	return err
}

// GetByID returns an airport or ErrNotFound.
func (r *AirportRepo) GetByID(ctx context.Context, id uint64) (model.Airport, error) {
	a, err := scanAirport(r.db.QueryRowContext(ctx, `SELECT `+airportCols+` FROM airports WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Airport{}, ErrNotFound
	}
	return a, err
}

// GetByCode returns an airport by its unique IATA code.
func (r *AirportRepo) GetByCode(ctx context.Context, code string) (model.Airport, error) {
	a, err := scanAirport(r.db.QueryRowContext(ctx, `SELECT `+airportCols+` FROM airports WHERE iata_code = ?`, code))
	if err == sql.ErrNoRows {
		return model.Airport{}, ErrNotFound
	}
	return a, err
}

// Update overwrites the mutable fields of an airport row.
func (r *AirportRepo) Update(ctx context.Context, a *model.Airport) error {
	const q = `UPDATE airports SET iata_code = ?, name = ?, city = ?, country = ?, latitude = ?,
	           longitude = ?, timezone = ?, status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, a.IATACode, a.Name, a.City, a.Country,
		a.Latitude, a.Longitude, a.Timezone, a.Status, a.ID)
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
	*a, scanErr = scanAirport(r.db.QueryRowContext(ctx, `SELECT `+airportCols+` FROM airports WHERE id = ?`, a.ID))
	return scanErr
}

// Delete removes an airport; terminals and runways go with it via FK cascade.
func (r *AirportRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM airports WHERE id = ?`, id)
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

// List returns airports ordered by id, paginated via skip/limit.
func (r *AirportRepo) List(ctx context.Context, skip, limit int) ([]model.Airport, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+airportCols+` FROM airports ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Airport, 0)
	for rows.Next() {
		a, err := scanAirport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateTerminal inserts a terminal under an airport. The airport
// must exist (FK), otherwise the driver error is surfaced as ErrNotFound.
func (r *AirportRepo) CreateTerminal(ctx context.Context, t *model.Terminal) error {
	const q = `INSERT INTO terminals (airport_id, name, passenger_capacity, status) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, t.AirportID, t.Name, t.PassengerCapacity, t.Status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	const sel = `SELECT id, airport_id, name, passenger_capacity, status, created_at, updated_at FROM terminals WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, id).Scan(&t.ID, &t.AirportID, &t.Name, &t.PassengerCapacity,
		&t.Status, &t.CreatedAt, &t.UpdatedAt)
}

// ListTerminals returns all terminals of an airport.
func (r *AirportRepo) ListTerminals(ctx context.Context, airportID uint64) ([]model.Terminal, error) {
	const q = `SELECT id, airport_id, name, passenger_capacity, status, created_at, updated_at
	           FROM terminals WHERE airport_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, airportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Terminal, 0)
	for rows.Next() {
		var t model.Terminal
		if err := rows.Scan(&t.ID, &t.AirportID, &t.Name, &t.PassengerCapacity, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CreateRunway inserts a runway under an airport.
func (r *AirportRepo) CreateRunway(ctx context.Context, rw *model.Runway) error {
	const q = `INSERT INTO runways (airport_id, designator, length_m, width_m, surface, status) VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, rw.AirportID, rw.Designator, rw.LengthM, rw.WidthM, rw.Surface, rw.Status)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	const sel = `SELECT id, airport_id, designator, length_m, width_m, surface, status, created_at, updated_at FROM runways WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, id).Scan(&rw.ID, &rw.AirportID, &rw.Designator, &rw.LengthM,
		&rw.WidthM, &rw.Surface, &rw.Status, &rw.CreatedAt, &rw.UpdatedAt)
}

// ListRunways returns all runways of an airport.
func (r *AirportRepo) ListRunways(ctx context.Context, airportID uint64) ([]model.Runway, error) {
	const q = `SELECT id, airport_id, designator, length_m, width_m, surface, status, created_at, updated_at
	           FROM runways WHERE airport_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, airportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Runway, 0)
	for rows.Next() {
		var rw model.Runway
		if err := rows.Scan(&rw.ID, &rw.AirportID, &rw.Designator, &rw.LengthM, &rw.WidthM, &rw.Surface, &rw.Status, &rw.CreatedAt, &rw.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rw)
	}
	return out, rows.Err()
}
