package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// ErrPortNotFound is returned when a charging port does not exist.
var ErrPortNotFound = errors.New("charging port not found")

// isFKViolation reports whether err is a MySQL foreign key error
// (1451 row referenced on delete, 1452 missing parent on insert).
func isFKViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "1451") || strings.Contains(msg, "1452")
}

// PortRepo persists rows of the 'charging_ports' table.
type PortRepo struct{ DB *sql.DB }

func NewPortRepo(db *sql.DB) *PortRepo { return &PortRepo{DB: db} }

const portCols = "id,station_id,label,connector_type,power_kw,energy_used,is_active,created_at,updated_at"

func scanPort(row *sql.Row) (model.ChargingPort, error) {
	var p model.ChargingPort
	err := row.Scan(&p.ID, &p.StationID, &p.Label, &p.ConnectorType, &p.PowerKW, &p.EnergyUsed, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPortNotFound
	}
	return p, err
}

// Create inserts a port under a station the operator owns.
func (r *PortRepo) Create(ctx context.Context, stationID, operatorID uint64, label, connectorType string, powerKW float64) (model.ChargingPort, error) {
	// Ownership is checked via the join rather than a separate read so
	// a concurrent station delete cannot slip a port in.
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO charging_ports (station_id, label, connector_type, power_kw)
		 SELECT s.id, ?, ?, ? FROM stations s WHERE s.id=? AND s.operator_id=?`,
		label, connectorType, powerKW, stationID, operatorID)
	if err != nil {
		return model.ChargingPort{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.ChargingPort{}, err
	}
	if n == 0 {
		return model.ChargingPort{}, ErrStationNotFound
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.ChargingPort{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a port by id.
func (r *PortRepo) GetByID(ctx context.Context, id uint64) (model.ChargingPort, error) {
	return scanPort(r.DB.QueryRowContext(ctx,
		"SELECT "+portCols+" FROM charging_ports WHERE id=? LIMIT 1", id))
}

// GetByIDAndOperator fetches a port only if its station is owned by operatorID.
func (r *PortRepo) GetByIDAndOperator(ctx context.Context, id, operatorID uint64) (model.ChargingPort, error) {
	return scanPort(r.DB.QueryRowContext(ctx,
		`SELECT p.id,p.station_id,p.label,p.connector_type,p.power_kw,p.energy_used,p.is_active,p.created_at,p.updated_at
		 FROM charging_ports p JOIN stations s ON s.id=p.station_id
		 WHERE p.id=? AND s.operator_id=? LIMIT 1`, id, operatorID))
}

// ListByStation lists all ports attached to a station.
func (r *PortRepo) ListByStation(ctx context.Context, stationID uint64) ([]model.ChargingPort, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+portCols+" FROM charging_ports WHERE station_id=? ORDER BY id", stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.ChargingPort{}
	for rows.Next() {
		var p model.ChargingPort
		if err := rows.Scan(&p.ID, &p.StationID, &p.Label, &p.ConnectorType, &p.PowerKW, &p.EnergyUsed, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update changes the mutable fields of a port owned (via its station)
// by operatorID.  energy_used is deliberately not touched here; it only
// moves when a booking completes.
func (r *PortRepo) Update(ctx context.Context, id, operatorID uint64, label, connectorType string, powerKW float64, isActive bool) (model.ChargingPort, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE charging_ports p JOIN stations s ON s.id=p.station_id
		 SET p.label=?, p.connector_type=?, p.power_kw=?, p.is_active=?
		 WHERE p.id=? AND s.operator_id=?`,
		label, connectorType, powerKW, isActive, id, operatorID)
	if err != nil {
		return model.ChargingPort{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.ChargingPort{}, err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err == nil {
			return model.ChargingPort{}, ErrForbidden
		}
		return model.ChargingPort{}, ErrPortNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a port owned by operatorID.  Ports referenced by
// bookings are protected by the foreign key.
func (r *PortRepo) Delete(ctx context.Context, id, operatorID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE p FROM charging_ports p JOIN stations s ON s.id=p.station_id
		 WHERE p.id=? AND s.operator_id=?`, id, operatorID)
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
		return ErrPortNotFound
	}
	return nil
}

// Exists reports whether an active port with the given id exists.
func (r *PortRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM charging_ports WHERE id=? AND is_active=1 LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddEnergyTx bumps the lifetime energy counter of a port inside the
// caller's transaction so the counter and the booking status commit
// together.
func (r *PortRepo) AddEnergyTx(ctx context.Context, tx *sql.Tx, id uint64, deltaKWH float64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE charging_ports SET energy_used = energy_used + ? WHERE id=?", deltaKWH, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPortNotFound
	}
	return nil
}
