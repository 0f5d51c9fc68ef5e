// Package booking implements the reservation core: overlap detection
// on charging ports, the booking lifecycle state machine, and the
// energy accrual applied when an active booking completes.  It talks to
// persistence only through the narrow Store, Directory and TxRunner
// interfaces so the rules are testable without a database.
package booking

import (
	"errors"
	"fmt"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// Sentinel errors returned by the booking service.  Handlers translate
// them into HTTP responses; anything not in this taxonomy is treated as
// a transient store failure and surfaces as a 500 without partial state
// (every mutation runs inside a single transaction).
var (
	// ErrSlotUnavailable is returned when the requested window
	// overlaps a PENDING or ACTIVE booking on the same port.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrBookingAlreadyStarted is returned when a driver tries to
	// cancel a booking whose start time has already passed.
	ErrBookingAlreadyStarted = errors.New("booking already started")

	// ErrStartTimeInPast is returned by validation before any overlap
	// check when the requested start time is in the past.
	ErrStartTimeInPast = errors.New("start time is in the past")

	// ErrInvalidDuration is returned when the requested duration is
	// not a positive number of minutes.
	ErrInvalidDuration = errors.New("duration must be at least one minute")

	// Not-found conditions for the records a booking references.
	ErrBookingNotFound = errors.New("booking not found")
	ErrPortNotFound    = errors.New("charging port not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrCarNotFound     = errors.New("car not found")
)

// InvalidTransitionError reports a status change rejected by the guard
// table.  It carries both statuses for diagnostics.
type InvalidTransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}
