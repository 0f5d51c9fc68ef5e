package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/ev-charge-booking/internal/booking"
	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// BookingRepo persists rows of the 'bookings' table.  It implements
// booking.Store; the transactional methods are the ones the service
// calls inside its unit of work.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

const bookingCols = "id,user_id,car_id,port_id,start_time,duration_minutes,status,created_at,updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, b *model.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.CarID, &b.PortID, &b.StartTime, &b.DurationMinutes, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	out := []model.Booking{}
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ActiveForPortTx returns the PENDING and ACTIVE bookings on a port,
// read inside the caller's transaction so the overlap check and the
// insert see one consistent snapshot.
func (r *BookingRepo) ActiveForPortTx(ctx context.Context, tx *sql.Tx, portID uint64) ([]model.Booking, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE port_id=? AND status IN ('PENDING','ACTIVE')",
		portID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ActiveForPort is the non-transactional read used for availability
// previews.
func (r *BookingRepo) ActiveForPort(ctx context.Context, portID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE port_id=? AND status IN ('PENDING','ACTIVE')",
		portID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// InsertTx persists a new booking and reads the row back so the caller
// gets database-assigned id and timestamps.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO bookings (user_id, car_id, port_id, start_time, duration_minutes, status) VALUES (?,?,?,?,?,?)",
		b.UserID, b.CarID, b.PortID, b.StartTime, b.DurationMinutes, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=?", id), b)
}

// GetForUpdateTx loads a booking with a row lock so the transition
// decision holds until commit.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(tx.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? FOR UPDATE", id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Get loads a booking without locking.
func (r *BookingRepo) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(r.DB.QueryRowContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE id=? LIMIT 1", id), &b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateStatusTx persists a status change inside the caller's
// transaction.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}

// ListByUser returns a driver's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+bookingCols+" FROM bookings WHERE user_id=? ORDER BY start_time DESC, id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByPortAndRange returns the bookings on a port whose window
// intersects [from, to).  Windows are half-open, so a booking ending
// exactly at 'from' or starting exactly at 'to' is excluded.
func (r *BookingRepo) ListByPortAndRange(ctx context.Context, portID uint64, from, to time.Time) ([]model.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingCols+` FROM bookings
		 WHERE port_id=?
		   AND start_time < ?
		   AND DATE_ADD(start_time, INTERVAL duration_minutes MINUTE) > ?
		 ORDER BY start_time, id`,
		portID, to, from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// OverdueIDs returns PENDING and ACTIVE bookings whose window end is at
// or before asOf, oldest first so the expiry sweep drains backlog in
// order.
func (r *BookingRepo) OverdueIDs(ctx context.Context, asOf time.Time) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id FROM bookings
		 WHERE status IN ('PENDING','ACTIVE')
		   AND DATE_ADD(start_time, INTERVAL duration_minutes MINUTE) <= ?
		 ORDER BY start_time, id`,
		asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
