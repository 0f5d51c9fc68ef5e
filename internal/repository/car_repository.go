package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// ErrCarNotFound is returned when a car does not exist or belongs to
// another user.
var ErrCarNotFound = errors.New("car not found")

// CarRepo persists rows of the 'cars' table.
type CarRepo struct{ DB *sql.DB }

func NewCarRepo(db *sql.DB) *CarRepo { return &CarRepo{DB: db} }

// Create registers a car for a driver and returns it.
func (r *CarRepo) Create(ctx context.Context, userID uint64, plate, carModel string) (model.Car, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO cars (user_id, plate, model) VALUES (?,?,?)",
		userID, plate, carModel)
	if err != nil {
		return model.Car{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Car{}, err
	}
	return r.GetByIDAndUser(ctx, uint64(id), userID)
}

// GetByIDAndUser fetches a car only if owned by userID.
func (r *CarRepo) GetByIDAndUser(ctx context.Context, id, userID uint64) (model.Car, error) {
	var c model.Car
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,plate,model,created_at,updated_at FROM cars WHERE id=? AND user_id=? LIMIT 1",
		id, userID).Scan(&c.ID, &c.UserID, &c.Plate, &c.Model, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrCarNotFound
	}
	return c, err
}

// ListByUser lists a driver's cars.
func (r *CarRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Car, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,user_id,plate,model,created_at,updated_at FROM cars WHERE user_id=? ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Car{}
	for rows.Next() {
		var c model.Car
		if err := rows.Scan(&c.ID, &c.UserID, &c.Plate, &c.Model, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a driver's car.  Cars referenced by bookings are
// protected by the foreign key.
func (r *CarRepo) Delete(ctx context.Context, id, userID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM cars WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCarNotFound
	}
	return nil
}

// OwnedBy reports whether car id belongs to userID.
func (r *CarRepo) OwnedBy(ctx context.Context, id, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM cars WHERE id=? AND user_id=? LIMIT 1", id, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
