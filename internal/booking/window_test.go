package booking

import (
	"testing"
	"time"
)

func TestWindowEnd(t *testing.T) {
	start := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	w := WindowFor(start, 90)
	want := start.Add(90 * time.Minute)
	if !w.End().Equal(want) {
		t.Fatalf("End() = %v, want %v", w.End(), want)
	}
}

func TestWindowOverlaps(t *testing.T) {
	base := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	at := func(minutes int) time.Time { return base.Add(time.Duration(minutes) * time.Minute) }

	tests := []struct {
		name string
		a, b Window
		want bool
	}{
		{
			name: "identical windows",
			a:    WindowFor(at(0), 60),
			b:    WindowFor(at(0), 60),
			want: true,
		},
		{
			name: "partial overlap",
			a:    WindowFor(at(0), 60),
			b:    WindowFor(at(30), 60),
			want: true,
		},
		{
			name: "contained window",
			a:    WindowFor(at(0), 120),
			b:    WindowFor(at(30), 30),
			want: true,
		},
		{
			name: "touching end to start is not a conflict",
			a:    WindowFor(at(0), 60),
			b:    WindowFor(at(60), 60),
			want: false,
		},
		{
			name: "touching start to end is not a conflict",
			a:    WindowFor(at(60), 60),
			b:    WindowFor(at(0), 60),
			want: false,
		},
		{
			name: "disjoint windows",
			a:    WindowFor(at(0), 30),
			b:    WindowFor(at(120), 30),
			want: false,
		},
		{
			name: "one minute overlap",
			a:    WindowFor(at(0), 61),
			b:    WindowFor(at(60), 60),
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tt.want)
			}
		})
	}
}
