package repository

import (
	"context"
	"database/sql"

	"github.com/dcastano/airline-backoffice/internal/model"
)

// PassengerRepo provides CRUD operations over the `passengers` table.
type PassengerRepo struct {
	db *sql.DB
}

// NewPassengerRepo returns a PassengerRepo bound to the given database.
func NewPassengerRepo(db *sql.DB) *PassengerRepo { return &PassengerRepo{db: db} }

const passengerCols = `id, first_name, last_name, nationality, passport_number, date_of_birth, created_at, updated_at`

func scanPassenger(row rowScanner) (model.Passenger, error) {
	var p model.Passenger
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Nationality, &p.PassportNumber,
		&p.DateOfBirth, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a passenger and reads the full row back. A passport
// number collision returns ErrDuplicate.
func (r *PassengerRepo) Create(ctx context.Context, p *model.Passenger) error {
	const q = `INSERT INTO passengers (first_name, last_name, nationality, passport_number, date_of_birth)
	           VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, p.FirstName, p.LastName, p.Nationality, p.PassportNumber, p.DateOfBirth)
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
	*p, err = scanPassenger(r.db.QueryRowContext(ctx, `SELECT `+passengerCols+` FROM passengers WHERE id = ?`, id))
	return err
}

// GetByID returns a passenger or ErrNotFound.
func (r *PassengerRepo) GetByID(ctx context.Context, id uint64) (model.Passenger, error) {
	p, err := scanPassenger(r.db.QueryRowContext(ctx, `SELECT `+passengerCols+` FROM passengers WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return model.Passenger{}, ErrNotFound
	}
	return p, err
}

// Update overwrites the mutable fields of a passenger.
func (r *PassengerRepo) Update(ctx context.Context, p *model.Passenger) error {
	const q = `UPDATE passengers SET first_name = ?, last_name = ?, nationality = ?, passport_number = ?, date_of_birth = ?
	           WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, p.FirstName, p.LastName, p.Nationality, p.PassportNumber, p.DateOfBirth, p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// Zero rows may also mean an identical no-op update; confirm existence.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	var scanErr error
	*p, scanErr = scanPassenger(r.db.QueryRowContext(ctx, `SELECT `+passengerCols+` FROM passengers WHERE id = ?`, p.ID))
	return scanErr
}

// Delete removes a passenger. Reservations referencing it are weak
// and remain untouched.
func (r *PassengerRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM passengers WHERE id = ?`, id)
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

// List returns passengers ordered by id, paginated via skip/limit.
func (r *PassengerRepo) List(ctx context.Context, skip, limit int) ([]model.Passenger, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+passengerCols+` FROM passengers ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Passenger, 0)
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
