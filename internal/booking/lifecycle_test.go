package booking

import (
	"math"
	"testing"

	"github.com/iliyamo/ev-charge-booking/internal/model"
)

func TestCanTransition(t *testing.T) {
	all := []model.BookingStatus{
		model.BookingPending,
		model.BookingActive,
		model.BookingCompleted,
		model.BookingCancelled,
		model.BookingExpired,
	}

	allowed := map[model.BookingStatus]map[model.BookingStatus]bool{
		model.BookingPending: {
			model.BookingActive:    true,
			model.BookingCompleted: true,
			model.BookingCancelled: true,
			model.BookingExpired:   true,
		},
		model.BookingActive: {
			model.BookingCompleted: true,
			model.BookingExpired:   true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	all := []model.BookingStatus{
		model.BookingPending,
		model.BookingActive,
		model.BookingCompleted,
		model.BookingCancelled,
		model.BookingExpired,
	}
	for _, from := range []model.BookingStatus{model.BookingCompleted, model.BookingCancelled, model.BookingExpired} {
		if !Terminal(from) {
			t.Errorf("Terminal(%s) = false, want true", from)
		}
		for _, to := range all {
			if CanTransition(from, to) {
				t.Errorf("CanTransition(%s, %s) = true, want false", from, to)
			}
		}
	}
	for _, s := range []model.BookingStatus{model.BookingPending, model.BookingActive} {
		if Terminal(s) {
			t.Errorf("Terminal(%s) = true, want false", s)
		}
	}
}

func TestEnergyForDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    float64
	}{
		{60, 7.0},
		{30, 3.5},
		{90, 10.5},
		{1, 7.0 / 60.0},
	}
	for _, tt := range tests {
		got := EnergyForDuration(tt.minutes)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EnergyForDuration(%d) = %v, want %v", tt.minutes, got, tt.want)
		}
	}
}
