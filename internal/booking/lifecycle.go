package booking

import "github.com/iliyamo/ev-charge-booking/internal/model"

// RatedRateKWHPerHour is the fixed charging rate used to credit energy
// to a port when a booking completes.  Energy accounting is based on
// the reserved window, not on live meter readings from the hardware.
const RatedRateKWHPerHour = 7.0

// CanTransition reports whether a booking may move from one status to
// another.  The normal path is PENDING -> ACTIVE -> COMPLETED.  A
// PENDING booking may also be completed directly (the driver charged
// without ever reporting arrival) or cancelled before its window
// starts.  PENDING and ACTIVE bookings may be expired by the overdue
// sweeper.  COMPLETED, CANCELLED and EXPIRED are terminal and have no
// outgoing transitions; repeating the current status is also rejected.
func CanTransition(from, to model.BookingStatus) bool {
	switch from {
	case model.BookingPending:
		switch to {
		case model.BookingActive, model.BookingCompleted, model.BookingCancelled, model.BookingExpired:
			return true
		}
	case model.BookingActive:
		switch to {
		case model.BookingCompleted, model.BookingExpired:
			return true
		}
	}
	return false
}

// Terminal reports whether a status has no outgoing transitions.
func Terminal(s model.BookingStatus) bool {
	switch s {
	case model.BookingCompleted, model.BookingCancelled, model.BookingExpired:
		return true
	}
	return false
}

// EnergyForDuration converts a booking window length into the energy
// credited to the port on the ACTIVE -> COMPLETED transition, in kWh.
// Only that edge accrues energy: a booking completed straight from
// PENDING never entered active charging and credits nothing.
func EnergyForDuration(durationMinutes int) float64 {
	return float64(durationMinutes) * RatedRateKWHPerHour / 60.0
}
