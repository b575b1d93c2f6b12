package repository

import (
	"context"
	"database/sql"

	"github.com/dcastano/airline-backoffice/internal/model"
)

// FlightRepo provides CRUD operations over flights and their crew
// assignments. Airport and aircraft references are weak; the handler
// verifies them against the remote directories before calling Create
// or Update.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

const flightCols = `id, flight_number, departs_at, arrives_at, origin_airport_id, destination_airport_id, aircraft_id, status, created_at, updated_at`

func scanFlight(row rowScanner) (model.Flight, error) {
	var f model.Flight
	err := row.Scan(&f.ID, &f.FlightNumber, &f.DepartsAt, &f.ArrivesAt,
		&f.OriginAirportID, &f.DestinationAirportID, &f.AircraftID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// Create inserts a flight. A flight number collision returns ErrDuplicate.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	const q = `INSERT INTO flights (flight_number, departs_at, arrives_at, origin_airport_id, destination_airport_id, aircraft_id, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, f.FlightNumber, f.DepartsAt.UTC(), f.ArrivesAt.UTC(),
		f.OriginAirportID, f.DestinationAirportID, f.AircraftID, f.Status)
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
	*f, err = scanFlight(r.db.QueryRowContext(ctx, `SELECT `+flightCols+` FROM flights WHERE id = ?`, id))
	return err
}

// GetByID returns a flight or ErrNotFound.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (model.Flight, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx, `SELECT `+flightCols+` FROM flights WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Flight{}, ErrNotFound
	}
	return f, err
}

// GetByNumber returns a flight by its unique flight number.
func (r *FlightRepo) GetByNumber(ctx context.Context, number string) (model.Flight, error) {
	f, err := scanFlight(r.db.QueryRowContext(ctx, `SELECT `+flightCols+` FROM flights WHERE flight_number = ?`, number))
	if err == sql.ErrNoRows {
		return model.Flight{}, ErrNotFound
	}
	return f, err
}

// ListByStatus returns flights in the given status, ordered by
// departure, paginated via skip/limit.
func (r *FlightRepo) ListByStatus(ctx context.Context, status string, skip, limit int) ([]model.Flight, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+flightCols+` FROM flights WHERE status = ? ORDER BY departs_at, id LIMIT ? OFFSET ?`,
		status, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a flight row.
func (r *FlightRepo) Update(ctx context.Context, f *model.Flight) error {
	const q = `UPDATE flights SET flight_number = ?, departs_at = ?, arrives_at = ?, origin_airport_id = ?,
	           destination_airport_id = ?, aircraft_id = ?, status = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, f.FlightNumber, f.DepartsAt.UTC(), f.ArrivesAt.UTC(),
		f.OriginAirportID, f.DestinationAirportID, f.AircraftID, f.Status, f.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, err := r.GetByID(ctx, f.ID); err != nil {
			return err
		}
	}
	var scanErr error
	*f, scanErr = scanFlight(r.db.QueryRowContext(ctx, `SELECT `+flightCols+` FROM flights WHERE id = ?`, f.ID))
	return scanErr
}

// Delete removes a flight; crew assignments cascade with it.
func (r *FlightRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
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

// List returns flights ordered by departure, paginated via skip/limit.
func (r *FlightRepo) List(ctx context.Context, skip, limit int) ([]model.Flight, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+flightCols+` FROM flights ORDER BY departs_at, id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// AssignCrew inserts a crew assignment for a flight. A missing flight
// surfaces as ErrNotFound via the FK check.
func (r *FlightRepo) AssignCrew(ctx context.Context, ca *model.CrewAssignment) error {
	const q = `INSERT INTO crew_assignments (flight_id, staff_id, role) VALUES (?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, ca.FlightID, ca.StaffID, ca.Role)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	const sel = `SELECT id, flight_id, staff_id, role, created_at, updated_at FROM crew_assignments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, id).Scan(&ca.ID, &ca.FlightID, &ca.StaffID, &ca.Role, &ca.CreatedAt, &ca.UpdatedAt)
}

// ListCrew returns the crew assigned to a flight.
func (r *FlightRepo) ListCrew(ctx context.Context, flightID uint64) ([]model.CrewAssignment, error) {
	const q = `SELECT id, flight_id, staff_id, role, created_at, updated_at
	           FROM crew_assignments WHERE flight_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.CrewAssignment, 0)
	for rows.Next() {
		var ca model.CrewAssignment
		if err := rows.Scan(&ca.ID, &ca.FlightID, &ca.StaffID, &ca.Role, &ca.CreatedAt, &ca.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ca)
	}
	return out, rows.Err()
}

// RemoveCrew deletes one crew assignment from a flight.
func (r *FlightRepo) RemoveCrew(ctx context.Context, flightID, assignmentID uint64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM crew_assignments WHERE id = ? AND flight_id = ?`, assignmentID, flightID)
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
