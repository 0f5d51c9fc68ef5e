// Package queue defines the message payloads exchanged over the broker
// and the background consumer that turns them into an audit log.
package queue

// Queue names.  The routing key equals the queue name; everything goes
// through the default exchange.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCompletedQueue = "booking.completed"
)

// BookingCreatedEvent is published after a booking commits as PENDING.
type BookingCreatedEvent struct {
	BookingID       uint64 `json:"booking_id"`
	UserID          uint64 `json:"user_id"`
	CarID           uint64 `json:"car_id"`
	PortID          uint64 `json:"port_id"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	CreatedAt       string `json:"created_at"`
}

// BookingCompletedEvent is published after a charging session finishes
// and the port's energy counter has been credited.
type BookingCompletedEvent struct {
	BookingID       uint64  `json:"booking_id"`
	UserID          uint64  `json:"user_id"`
	PortID          uint64  `json:"port_id"`
	DurationMinutes int     `json:"duration_minutes"`
	EnergyKWH       float64 `json:"energy_kwh"`
	CompletedAt     string  `json:"completed_at"`
}
