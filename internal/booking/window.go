package booking

import (
	"time"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

// Window is the half-open time interval [Start, Start+Duration) that a
// booking occupies on a charging port.  Half-open semantics mean a
// window that ends exactly when another begins does not conflict with
// it, so back-to-back bookings on the same port are allowed.
type Window struct {
	Start    time.Time
	Duration time.Duration
}

// WindowFor builds the window for a start time and a duration given in
// whole minutes, the granularity bookings are created with.
func WindowFor(start time.Time, durationMinutes int) Window {
	return Window{Start: start, Duration: time.Duration(durationMinutes) * time.Minute}
}

// WindowOf returns the window occupied by an existing booking.
func WindowOf(b *model.Booking) Window {
	return WindowFor(b.StartTime, b.DurationMinutes)
}

// End returns the exclusive end of the window.
func (w Window) End() time.Time {
	return w.Start.Add(w.Duration)
}

// Overlaps reports whether two windows intersect.  Two windows [s1,e1)
// and [s2,e2) overlap iff s1 < e2 && s2 < e1; touching edges (e1 == s2)
// are not an overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End()) && o.Start.Before(w.End())
}
