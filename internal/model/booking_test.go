package model

import (
	"testing"
	"time"
)

func TestParseBookingStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "ACTIVE", "COMPLETED", "CANCELLED", "EXPIRED"} {
		got, ok := ParseBookingStatus(s)
		if !ok || string(got) != s {
			t.Errorf("ParseBookingStatus(%q) = (%q, %v)", s, got, ok)
		}
	}
	for _, s := range []string{"", "pending", "DONE", "ACTIVE "} {
		if _, ok := ParseBookingStatus(s); ok {
			t.Errorf("ParseBookingStatus(%q) accepted", s)
		}
	}
}

func TestBookingEndTime(t *testing.T) {
	start := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	b := Booking{StartTime: start, DurationMinutes: 90}
	want := time.Date(2030, 5, 1, 11, 30, 0, 0, time.UTC)
	if got := b.EndTime(); !got.Equal(want) {
		t.Errorf("EndTime() = %v, want %v", got, want)
	}
}
