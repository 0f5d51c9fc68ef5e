package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// ErrStationNotFound is returned when a station does not exist or is
// not visible to the caller.
var ErrStationNotFound = errors.New("station not found")

// StationRepo persists rows of the 'stations' table.
type StationRepo struct{ DB *sql.DB }

func NewStationRepo(db *sql.DB) *StationRepo { return &StationRepo{DB: db} }

const stationCols = "id,operator_id,name,address,is_active,created_at,updated_at"

func scanStation(row *sql.Row) (model.Station, error) {
	var s model.Station
	err := row.Scan(&s.ID, &s.OperatorID, &s.Name, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrStationNotFound
	}
	return s, err
}

// Create inserts a station for the given operator and returns it.
func (r *StationRepo) Create(ctx context.Context, operatorID uint64, name, address string) (model.Station, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO stations (operator_id, name, address) VALUES (?,?,?)",
		operatorID, name, address)
	if err != nil {
		return model.Station{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Station{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a station regardless of owner.
func (r *StationRepo) GetByID(ctx context.Context, id uint64) (model.Station, error) {
	return scanStation(r.DB.QueryRowContext(ctx,
		"SELECT "+stationCols+" FROM stations WHERE id=? LIMIT 1", id))
}

// GetByIDAndOperator fetches a station only if owned by operatorID.
func (r *StationRepo) GetByIDAndOperator(ctx context.Context, id, operatorID uint64) (model.Station, error) {
	return scanStation(r.DB.QueryRowContext(ctx,
		"SELECT "+stationCols+" FROM stations WHERE id=? AND operator_id=? LIMIT 1", id, operatorID))
}

// ListByOperator lists all stations owned by an operator.
func (r *StationRepo) ListByOperator(ctx context.Context, operatorID uint64) ([]model.Station, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+stationCols+" FROM stations WHERE operator_id=? ORDER BY id", operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStations(rows)
}

// ListActive lists all active stations for public browsing.
func (r *StationRepo) ListActive(ctx context.Context) ([]model.Station, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+stationCols+" FROM stations WHERE is_active=1 ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectStations(rows)
}

func collectStations(rows *sql.Rows) ([]model.Station, error) {
	out := []model.Station{}
	for rows.Next() {
		var s model.Station
		if err := rows.Scan(&s.ID, &s.OperatorID, &s.Name, &s.Address, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update changes name, address and active flag of a station owned by
// operatorID and returns the fresh row.
func (r *StationRepo) Update(ctx context.Context, id, operatorID uint64, name, address string, isActive bool) (model.Station, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE stations SET name=?, address=?, is_active=? WHERE id=? AND operator_id=?",
		name, address, isActive, id, operatorID)
	if err != nil {
		return model.Station{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Station{}, err
	}
	if n == 0 {
		// Either the station does not exist or someone else owns it;
		// distinguish so handlers can answer 403 vs 404.
		if _, err := r.GetByID(ctx, id); err == nil {
			return model.Station{}, ErrForbidden
		}
		return model.Station{}, ErrStationNotFound
	}
	return r.GetByIDAndOperator(ctx, id, operatorID)
}

// Delete removes a station owned by operatorID.  Stations with ports
// still attached are protected by the foreign key and reported as a
// conflict.
func (r *StationRepo) Delete(ctx context.Context, id, operatorID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM stations WHERE id=? AND operator_id=?", id, operatorID)
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
		if _, err := r.GetByID(ctx, id); err == nil {
			return ErrForbidden
		}
		return ErrStationNotFound
	}
	return nil
}
