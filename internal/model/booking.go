package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  The
// allowed transitions between states are enforced by the booking
// package; the database stores the raw string value.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"   // created, waiting for the window to start
	BookingActive    BookingStatus = "ACTIVE"    // the car is plugged in and charging
	BookingCompleted BookingStatus = "COMPLETED" // charging finished normally
	BookingCancelled BookingStatus = "CANCELLED" // cancelled by the driver before start
	BookingExpired   BookingStatus = "EXPIRED"   // window passed without completion
)

// ParseBookingStatus normalizes a raw string into a BookingStatus.  The
// second return value reports whether the input named a known status.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingActive, BookingCompleted, BookingCancelled, BookingExpired:
		return BookingStatus(s), true
	}
	return "", false
}

// Booking records a reservation of one charging port by one driver for a
// contiguous time window.  The window is immutable after creation; the
// end time is always derived from StartTime plus DurationMinutes and is
// never stored separately, so the two cannot drift apart.  Bookings are
// never physically deleted: cancellation and expiry are terminal
// statuses, not removals.
//
// Fields:
//  ID              – primary key identifier, immutable after insert.
//  UserID          – driver who made the booking.
//  CarID           – car the booking is for.
//  PortID          – charging port being reserved.
//  StartTime       – UTC start of the booking window.
//  DurationMinutes – length of the window in minutes, always > 0.
//  Status          – lifecycle state, see BookingStatus.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Booking struct {
	ID              uint64        `json:"id"`               // bookings.id
	UserID          uint64        `json:"user_id"`          // bookings.user_id
	CarID           uint64        `json:"car_id"`           // bookings.car_id
	PortID          uint64        `json:"port_id"`          // bookings.port_id
	StartTime       time.Time     `json:"start_time"`       // bookings.start_time (UTC)
	DurationMinutes int           `json:"duration_minutes"` // bookings.duration_minutes
	Status          BookingStatus `json:"status"`           // bookings.status
	CreatedAt       time.Time     `json:"created_at"`       // bookings.created_at
	UpdatedAt       time.Time     `json:"updated_at"`       // bookings.updated_at
}

// EndTime returns the derived exclusive end of the booking window.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
