package booking

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// fakeStore is an in-memory Store.  Its own mutex only protects the
// map; it deliberately does not serialize check-then-insert sequences,
// so racing creates are only safe when the service holds the port lock.
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: make(map[uint64]*model.Booking)}
}

func (f *fakeStore) snapshot(b *model.Booking) *model.Booking {
	cp := *b
	return &cp
}

func (f *fakeStore) ActiveForPortTx(ctx context.Context, tx *sql.Tx, portID uint64) ([]model.Booking, error) {
	return f.ActiveForPort(ctx, portID)
}

func (f *fakeStore) ActiveForPort(_ context.Context, portID uint64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.bookings {
		if b.PortID != portID {
			continue
		}
		if b.Status == model.BookingPending || b.Status == model.BookingActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertTx(_ context.Context, _ *sql.Tx, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	f.bookings[b.ID] = f.snapshot(b)
	return nil
}

func (f *fakeStore) GetForUpdateTx(ctx context.Context, _ *sql.Tx, id uint64) (*model.Booking, error) {
	return f.Get(ctx, id)
}

func (f *fakeStore) Get(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return f.snapshot(b), nil
}

func (f *fakeStore) UpdateStatusTx(_ context.Context, _ *sql.Tx, id uint64, status model.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByPortAndRange(_ context.Context, portID uint64, from, to time.Time) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Booking
	w := Window{Start: from, Duration: to.Sub(from)}
	for _, b := range f.bookings {
		if b.PortID == portID && w.Overlaps(WindowOf(b)) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) OverdueIDs(_ context.Context, asOf time.Time) ([]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uint64
	for id, b := range f.bookings {
		if b.Status != model.BookingPending && b.Status != model.BookingActive {
			continue
		}
		if !b.EndTime().After(asOf) {
			out = append(out, id)
		}
	}
	return out, nil
}

// fakeDirectory resolves existence from fixed sets and accumulates
// port energy in memory.
type fakeDirectory struct {
	mu     sync.Mutex
	users  map[uint64]bool
	cars   map[uint64]uint64 // car id -> owner user id
	ports  map[uint64]bool
	energy map[uint64]float64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:  map[uint64]bool{1: true},
		cars:   map[uint64]uint64{10: 1},
		ports:  map[uint64]bool{100: true, 101: true},
		energy: make(map[uint64]float64),
	}
}

func (f *fakeDirectory) UserExists(_ context.Context, id uint64) (bool, error) {
	return f.users[id], nil
}

func (f *fakeDirectory) CarOwnedBy(_ context.Context, carID, userID uint64) (bool, error) {
	owner, ok := f.cars[carID]
	return ok && owner == userID, nil
}

func (f *fakeDirectory) PortExists(_ context.Context, id uint64) (bool, error) {
	return f.ports[id], nil
}

func (f *fakeDirectory) AddPortEnergyTx(_ context.Context, _ *sql.Tx, portID uint64, deltaKWH float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.energy[portID] += deltaKWH
	return nil
}

// fakeTxRunner runs the function directly; the fakes have no real
// transactions to roll back.
type fakeTxRunner struct{}

func (fakeTxRunner) RunTx(_ context.Context, fn func(tx *sql.Tx) error) error {
	return fn(nil)
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeDirectory, time.Time) {
	t.Helper()
	store := newFakeStore()
	dir := newFakeDirectory()
	svc := NewService(store, dir, fakeTxRunner{}, nil)
	now := time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, store, dir, now
}

func TestCreateValidation(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now.Add(time.Hour), DurationMinutes: 0})
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("zero duration: err = %v, want ErrInvalidDuration", err)
	}

	_, err = svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now.Add(-time.Minute), DurationMinutes: 60})
	if !errors.Is(err, ErrStartTimeInPast) {
		t.Fatalf("past start: err = %v, want ErrStartTimeInPast", err)
	}

	// Starting exactly now is allowed.
	if _, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now, DurationMinutes: 60}); err != nil {
		t.Fatalf("start == now: err = %v, want nil", err)
	}
}

func TestCreateUnknownReferences(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()
	start := now.Add(time.Hour)

	tests := []struct {
		name string
		req  CreateRequest
		want error
	}{
		{"unknown user", CreateRequest{UserID: 99, CarID: 10, PortID: 100, StartTime: start, DurationMinutes: 60}, ErrUserNotFound},
		{"unknown car", CreateRequest{UserID: 1, CarID: 99, PortID: 100, StartTime: start, DurationMinutes: 60}, ErrCarNotFound},
		{"car of another user", CreateRequest{UserID: 1, CarID: 11, PortID: 100, StartTime: start, DurationMinutes: 60}, ErrCarNotFound},
		{"unknown port", CreateRequest{UserID: 1, CarID: 10, PortID: 999, StartTime: start, DurationMinutes: 60}, ErrPortNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateOverlapConflicts(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()
	at := func(minutes int) time.Time { return now.Add(time.Duration(minutes) * time.Minute) }

	// [10:00, 11:00) on port 100.
	first, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: at(60), DurationMinutes: 60})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if first.Status != model.BookingPending {
		t.Fatalf("new booking status = %s, want PENDING", first.Status)
	}

	// Overlapping [10:30, 11:30) is rejected.
	_, err = svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: at(90), DurationMinutes: 60})
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("overlapping create: err = %v, want ErrSlotUnavailable", err)
	}

	// Touching [11:00, 12:00) succeeds.
	if _, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: at(120), DurationMinutes: 60}); err != nil {
		t.Fatalf("touching create: err = %v, want nil", err)
	}

	// The same overlapping window is fine on a different port.
	if _, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 101, StartTime: at(90), DurationMinutes: 60}); err != nil {
		t.Fatalf("other port create: err = %v, want nil", err)
	}
}

func TestCreateIgnoresTerminalBookings(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()
	start := now.Add(time.Hour)

	b, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: start, DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The cancelled booking no longer blocks the slot.
	if _, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: start, DurationMinutes: 60}); err != nil {
		t.Fatalf("rebook after cancel: err = %v, want nil", err)
	}
}

func TestConcurrentCreatesOnSamePortSerialized(t *testing.T) {
	svc, store, _, now := newTestService(t)
	ctx := context.Background()
	start := now.Add(time.Hour)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(ctx, CreateRequest{
				UserID: 1, CarID: 10, PortID: 100,
				StartTime: start, DurationMinutes: 60,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrSlotUnavailable):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("%d creates succeeded for the same window, want exactly 1", succeeded)
	}
	active, _ := store.ActiveForPort(ctx, 100)
	if len(active) != 1 {
		t.Fatalf("store holds %d active bookings, want 1", len(active))
	}
}

func TestCancelTimeGuard(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now.Add(30 * time.Minute), DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Move the clock past the start time: cancellation is rejected.
	svc.now = func() time.Time { return now.Add(31 * time.Minute) }
	if err := svc.Cancel(ctx, b.ID); !errors.Is(err, ErrBookingAlreadyStarted) {
		t.Fatalf("late cancel: err = %v, want ErrBookingAlreadyStarted", err)
	}
	got, _ := svc.Get(ctx, b.ID)
	if got.Status != model.BookingPending {
		t.Fatalf("status after rejected cancel = %s, want PENDING", got.Status)
	}

	// Before the start time it succeeds.
	svc.now = func() time.Time { return now }
	if err := svc.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	got, _ = svc.Get(ctx, b.ID)
	if got.Status != model.BookingCancelled {
		t.Fatalf("status after cancel = %s, want CANCELLED", got.Status)
	}
}

func TestTransitionEnergyAccrual(t *testing.T) {
	svc, _, dir, now := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now.Add(time.Hour), DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Transition(ctx, b.ID, model.BookingActive); err != nil {
		t.Fatalf("to ACTIVE: %v", err)
	}
	if _, err := svc.Transition(ctx, b.ID, model.BookingCompleted); err != nil {
		t.Fatalf("to COMPLETED: %v", err)
	}
	if got := dir.energy[100]; math.Abs(got-7.0) > 1e-9 {
		t.Fatalf("port energy = %v, want 7.0", got)
	}

	// Completing straight from PENDING accrues nothing.
	b2, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 101, StartTime: now.Add(time.Hour), DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Transition(ctx, b2.ID, model.BookingCompleted); err != nil {
		t.Fatalf("PENDING to COMPLETED: %v", err)
	}
	if got := dir.energy[101]; got != 0 {
		t.Fatalf("port energy after PENDING completion = %v, want 0", got)
	}
}

func TestTransitionRejections(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now.Add(time.Hour), DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Transition(ctx, b.ID, model.BookingActive); err != nil {
		t.Fatalf("to ACTIVE: %v", err)
	}

	// ACTIVE cannot be cancelled.
	_, err = svc.Transition(ctx, b.ID, model.BookingCancelled)
	var it *InvalidTransitionError
	if !errors.As(err, &it) {
		t.Fatalf("ACTIVE to CANCELLED: err = %v, want InvalidTransitionError", err)
	}
	if it.From != model.BookingActive || it.To != model.BookingCancelled {
		t.Fatalf("InvalidTransitionError = %+v", it)
	}
	// The rejected transition left the status alone.
	got, _ := svc.Get(ctx, b.ID)
	if got.Status != model.BookingActive {
		t.Fatalf("status after rejection = %s, want ACTIVE", got.Status)
	}

	// Terminal statuses reject every target.
	if _, err := svc.Transition(ctx, b.ID, model.BookingCompleted); err != nil {
		t.Fatalf("to COMPLETED: %v", err)
	}
	for _, target := range []model.BookingStatus{
		model.BookingPending, model.BookingActive, model.BookingCompleted,
		model.BookingCancelled, model.BookingExpired,
	} {
		if _, err := svc.Transition(ctx, b.ID, target); !errors.As(err, &it) {
			t.Errorf("COMPLETED to %s: err = %v, want InvalidTransitionError", target, err)
		}
	}

	// Unknown booking is a distinct error.
	if _, err := svc.Transition(ctx, 9999, model.BookingActive); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("unknown booking: err = %v, want ErrBookingNotFound", err)
	}
}

func TestConflictsDiagnostics(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()
	start := now.Add(time.Hour)

	b, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: start, DurationMinutes: 60})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	conflicts, err := svc.Conflicts(ctx, 100, start.Add(30*time.Minute), 60)
	if err != nil {
		t.Fatalf("conflicts: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0].ID != b.ID {
		t.Fatalf("conflicts = %+v, want the existing booking", conflicts)
	}

	conflicts, err = svc.Conflicts(ctx, 100, start.Add(60*time.Minute), 60)
	if err != nil {
		t.Fatalf("conflicts: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("touching window reported %d conflicts, want 0", len(conflicts))
	}
}

func TestExpireOverdue(t *testing.T) {
	svc, _, _, now := newTestService(t)
	ctx := context.Background()

	pending, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 100, StartTime: now.Add(time.Hour), DurationMinutes: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	active, err := svc.Create(ctx, CreateRequest{UserID: 1, CarID: 10, PortID: 101, StartTime: now.Add(time.Hour), DurationMinutes: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Transition(ctx, active.ID, model.BookingActive); err != nil {
		t.Fatalf("to ACTIVE: %v", err)
	}

	// Nothing is overdue yet.
	n, err := svc.ExpireOverdue(ctx)
	if err != nil || n != 0 {
		t.Fatalf("ExpireOverdue = (%d, %v), want (0, nil)", n, err)
	}

	// Jump past both window ends.
	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	n, err = svc.ExpireOverdue(ctx)
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if n != 2 {
		t.Fatalf("ExpireOverdue expired %d bookings, want 2", n)
	}
	for _, id := range []uint64{pending.ID, active.ID} {
		got, _ := svc.Get(ctx, id)
		if got.Status != model.BookingExpired {
			t.Errorf("booking %d status = %s, want EXPIRED", id, got.Status)
		}
	}

	// A second sweep finds nothing: EXPIRED is terminal.
	n, err = svc.ExpireOverdue(ctx)
	if err != nil || n != 0 {
		t.Fatalf("second sweep = (%d, %v), want (0, nil)", n, err)
	}
}
