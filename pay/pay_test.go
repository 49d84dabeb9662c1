package pay

import (
	"testing"

	"voyago/models"
)

func TestSettleState(t *testing.T) {
	cases := []struct {
		status  string
		payable bool
		replay  bool
	}{
		{models.BookingPending, true, false},
		{models.BookingConfirmed, true, false},
		{models.BookingPaid, false, true},
		{models.BookingCancelled, false, false},
	}
	for _, tc := range cases {
		payable, replay := settleState(tc.status)
		if payable != tc.payable || replay != tc.replay {
			t.Errorf("settleState(%s) = (%v, %v), want (%v, %v)",
				tc.status, payable, replay, tc.payable, tc.replay)
		}
	}
}

// A booking cancelled after the intent was minted must reject the
// confirm instead of settling; it is neither payable nor a replay, and
// markBookingPaid reports no write for the same reason.
func TestCancelledBookingIsNotSettleable(t *testing.T) {
	payable, replay := settleState(models.BookingCancelled)
	if payable {
		t.Error("cancelled booking reported payable")
	}
	if replay {
		t.Error("cancelled booking reported as replay; confirm would answer OK")
	}
}
