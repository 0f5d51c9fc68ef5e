// Package expiry runs the background sweep that expires bookings whose
// window has fully elapsed.
package expiry

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/ev-charge-booking/internal/booking"
)

// Sweeper periodically expires overdue bookings.  Each tick goes
// through the regular transition guard, so a booking that was cancelled
// or completed in the meantime is simply skipped.
type Sweeper struct {
	Bookings *booking.Service
	Interval time.Duration
}

func NewSweeper(bookings *booking.Service, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{Bookings: bookings, Interval: interval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.  An
// error in one sweep is logged and the next tick tries again.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Bookings.ExpireOverdue(ctx)
			if err != nil {
				log.Printf("expiry-sweeper: sweep failed after %d expirations: %v", n, err)
				continue
			}
			if n > 0 {
				log.Printf("expiry-sweeper: expired %d overdue booking(s)", n)
			}
		}
	}
}
