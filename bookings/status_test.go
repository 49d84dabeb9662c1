package bookings

import (
	"testing"

	"voyago/models"
)

func TestAllowedTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{models.BookingPending, models.BookingConfirmed, true},
		{models.BookingPending, models.BookingCancelled, true},
		{models.BookingPending, models.BookingPaid, true},
		{models.BookingConfirmed, models.BookingCancelled, true},
		{models.BookingConfirmed, models.BookingPaid, true},
		{models.BookingConfirmed, models.BookingPending, false},
		{models.BookingCancelled, models.BookingPending, false},
		{models.BookingCancelled, models.BookingConfirmed, false},
		{models.BookingCancelled, models.BookingPaid, false},
		{models.BookingPaid, models.BookingCancelled, false},
		{models.BookingPaid, models.BookingPending, false},
		{"bogus", models.BookingConfirmed, false},
		{models.BookingPending, "bogus", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{models.BookingCancelled, models.BookingPaid} {
		for _, to := range []string{models.BookingPending, models.BookingConfirmed, models.BookingCancelled, models.BookingPaid} {
			if CanTransition(terminal, to) {
				t.Errorf("%q must be terminal, but allows -> %q", terminal, to)
			}
		}
	}
}

func TestAmount(t *testing.T) {
	if got := Amount(299, 3); got != 897 {
		t.Errorf("Amount(299, 3) = %v, want 897", got)
	}
	if got := Amount(150.50, 2); got != 301 {
		t.Errorf("Amount(150.50, 2) = %v, want 301", got)
	}
	if got := Amount(100, 1); got != 100 {
		t.Errorf("Amount(100, 1) = %v, want 100", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{models.BookingPending, models.BookingConfirmed, models.BookingCancelled, models.BookingPaid} {
		if !ValidStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if ValidStatus("refunded") {
		t.Error("unknown status must be invalid")
	}
}
