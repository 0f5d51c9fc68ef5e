package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// Store is the persistence contract the service needs for bookings.
// The *Tx methods participate in the transaction passed to them; the
// plain methods read with the repository's own handle.  Implemented by
// repository.BookingRepo.
type Store interface {
	// ActiveForPortTx returns the bookings on a port whose status is
	// PENDING or ACTIVE (CANCELLED and EXPIRED are excluded).
	ActiveForPortTx(ctx context.Context, tx *sql.Tx, portID uint64) ([]model.Booking, error)
	// ActiveForPort is the non-transactional variant used for
	// read-only availability checks.
	ActiveForPort(ctx context.Context, portID uint64) ([]model.Booking, error)
	// InsertTx persists a new booking and populates its ID and
	// timestamps.
	InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error
	// GetForUpdateTx loads a booking with a row lock, returning
	// ErrBookingNotFound when it does not exist.
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error)
	// Get loads a booking without locking.
	Get(ctx context.Context, id uint64) (*model.Booking, error)
	// UpdateStatusTx persists a status change.
	UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status model.BookingStatus) error
	// ListByUser returns all bookings of one driver, newest first.
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	// ListByPortAndRange returns bookings on a port whose window
	// intersects [from, to).
	ListByPortAndRange(ctx context.Context, portID uint64, from, to time.Time) ([]model.Booking, error)
	// OverdueIDs returns PENDING and ACTIVE bookings whose window end
	// is at or before asOf.
	OverdueIDs(ctx context.Context, asOf time.Time) ([]uint64, error)
}

// Directory resolves the records a booking references and owns the
// port energy counter.  Implemented by repository.Directory.
type Directory interface {
	UserExists(ctx context.Context, id uint64) (bool, error)
	CarOwnedBy(ctx context.Context, carID, userID uint64) (bool, error)
	PortExists(ctx context.Context, id uint64) (bool, error)
	// AddPortEnergyTx increments the port's cumulative energy counter
	// inside the given transaction.
	AddPortEnergyTx(ctx context.Context, tx *sql.Tx, portID uint64, deltaKWH float64) error
}

// TxRunner is the unit-of-work boundary: fn runs inside one
// transaction which is committed when fn returns nil and rolled back
// otherwise.  Implemented by repository.TxRunner over *sql.DB.
type TxRunner interface {
	RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// Events receives notifications after a booking mutation has been
// committed.  Implementations must not block the request path; failures
// are the implementation's problem, never the caller's.  May be nil.
type Events interface {
	BookingCreated(ctx context.Context, b *model.Booking)
	BookingCompleted(ctx context.Context, b *model.Booking, energyKWH float64)
}

// CreateRequest carries the input of Create.  Status is not part of the
// request: every booking starts life as PENDING.
type CreateRequest struct {
	UserID          uint64
	CarID           uint64
	PortID          uint64
	StartTime       time.Time
	DurationMinutes int
}

// Service wires the reservation rules to their collaborators.  All
// dependencies are injected once at process start.
type Service struct {
	store  Store
	dir    Directory
	txs    TxRunner
	events Events
	locks  *portLocks
	now    func() time.Time
}

// NewService constructs the booking service.  events may be nil when no
// broker is configured.
func NewService(store Store, dir Directory, txs TxRunner, events Events) *Service {
	if store == nil || dir == nil || txs == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		store:  store,
		dir:    dir,
		txs:    txs,
		events: events,
		locks:  newPortLocks(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the request, verifies the referenced records exist,
// and inserts a PENDING booking if no PENDING or ACTIVE booking on the
// same port overlaps the requested window.  The overlap check and the
// insert run as one critical section under the port's lock and inside
// one transaction, so two concurrent conflicting creates cannot both
// succeed.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*model.Booking, error) {
	if req.DurationMinutes < 1 {
		return nil, ErrInvalidDuration
	}
	start := req.StartTime.UTC()
	if start.Before(s.now()) {
		return nil, ErrStartTimeInPast
	}

	ok, err := s.dir.UserExists(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	ok, err = s.dir.CarOwnedBy(ctx, req.CarID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCarNotFound
	}
	ok, err = s.dir.PortExists(ctx, req.PortID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPortNotFound
	}

	lock := s.locks.get(req.PortID)
	lock.Lock()
	defer lock.Unlock()

	want := WindowFor(start, req.DurationMinutes)
	var created *model.Booking
	err = s.txs.RunTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.store.ActiveForPortTx(ctx, tx, req.PortID)
		if err != nil {
			return err
		}
		for i := range existing {
			if want.Overlaps(WindowOf(&existing[i])) {
				return ErrSlotUnavailable
			}
		}
		b := &model.Booking{
			UserID:          req.UserID,
			CarID:           req.CarID,
			PortID:          req.PortID,
			StartTime:       start,
			DurationMinutes: req.DurationMinutes,
			Status:          model.BookingPending,
		}
		if err := s.store.InsertTx(ctx, tx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.BookingCreated(ctx, created)
	}
	return created, nil
}

// Conflicts returns the PENDING and ACTIVE bookings on a port that
// overlap the given window.  It is a read-only diagnostic; Create
// re-checks under the port lock before inserting.
func (s *Service) Conflicts(ctx context.Context, portID uint64, start time.Time, durationMinutes int) ([]model.Booking, error) {
	if durationMinutes < 1 {
		return nil, ErrInvalidDuration
	}
	existing, err := s.store.ActiveForPort(ctx, portID)
	if err != nil {
		return nil, err
	}
	want := WindowFor(start.UTC(), durationMinutes)
	conflicts := make([]model.Booking, 0)
	for i := range existing {
		if want.Overlaps(WindowOf(&existing[i])) {
			conflicts = append(conflicts, existing[i])
		}
	}
	return conflicts, nil
}

// Transition moves a booking to a new status after checking the guard
// table.  PENDING -> CANCELLED additionally requires the window not to
// have started.  ACTIVE -> COMPLETED credits the port's energy counter
// in the same transaction as the status change, so no observer sees one
// mutation without the other.  A rejected transition leaves the booking
// untouched.
func (s *Service) Transition(ctx context.Context, bookingID uint64, to model.BookingStatus) (*model.Booking, error) {
	var (
		out     *model.Booking
		accrued float64
	)
	err := s.txs.RunTx(ctx, func(tx *sql.Tx) error {
		b, err := s.store.GetForUpdateTx(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if !CanTransition(b.Status, to) {
			return &InvalidTransitionError{From: b.Status, To: to}
		}
		if b.Status == model.BookingPending && to == model.BookingCancelled {
			if !s.now().Before(b.StartTime) {
				return ErrBookingAlreadyStarted
			}
		}
		if b.Status == model.BookingActive && to == model.BookingCompleted {
			accrued = EnergyForDuration(b.DurationMinutes)
			if err := s.dir.AddPortEnergyTx(ctx, tx, b.PortID, accrued); err != nil {
				return err
			}
		}
		if err := s.store.UpdateStatusTx(ctx, tx, b.ID, to); err != nil {
			return err
		}
		b.Status = to
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.events != nil && to == model.BookingCompleted {
		s.events.BookingCompleted(ctx, out, accrued)
	}
	return out, nil
}

// Cancel moves a PENDING booking to CANCELLED.  It is the only
// transition drivers reach through a dedicated endpoint.
func (s *Service) Cancel(ctx context.Context, bookingID uint64) error {
	_, err := s.Transition(ctx, bookingID, model.BookingCancelled)
	return err
}

// Get loads a single booking, returning ErrBookingNotFound when absent.
func (s *Service) Get(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	return s.store.Get(ctx, bookingID)
}

// ListByUser returns all bookings created by one driver.
func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListByPortAndRange returns the bookings on a port whose window
// intersects [from, to).
func (s *Service) ListByPortAndRange(ctx context.Context, portID uint64, from, to time.Time) ([]model.Booking, error) {
	return s.store.ListByPortAndRange(ctx, portID, from.UTC(), to.UTC())
}

// ExpireOverdue transitions every PENDING or ACTIVE booking whose
// window has fully elapsed to EXPIRED, going through the same guard as
// any other transition.  Bookings that race with a concurrent
// transition are skipped.  It returns the number of bookings expired.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	ids, err := s.store.OverdueIDs(ctx, s.now())
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, id := range ids {
		if _, err := s.Transition(ctx, id, model.BookingExpired); err != nil {
			var it *InvalidTransitionError
			if errors.Is(err, ErrBookingNotFound) || errors.As(err, &it) {
				continue // lost the race to another transition
			}
			return expired, err
		}
		expired++
	}
	return expired, nil
}
