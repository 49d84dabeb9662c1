package bookings

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

// The reservation guard is what keeps two concurrent bookings against a
// single remaining slot from both succeeding: the filter only matches
// while the date still holds enough capacity, so the second
// FindOneAndUpdate finds no document and the booking is rejected.
func TestReserveFilterGuardsCapacityAndLock(t *testing.T) {
	filter := reserveFilter("t1", "2026-07-04", 3)

	if filter["tourid"] != "t1" {
		t.Errorf("tourid = %v", filter["tourid"])
	}
	slots, ok := filter["availability.2026-07-04"].(bson.M)
	if !ok {
		t.Fatalf("missing capacity guard: %v", filter)
	}
	if slots["$gte"] != 3 {
		t.Errorf("capacity guard = %v, want $gte 3", slots)
	}
	locked, ok := filter["lockedDates.2026-07-04"].(bson.M)
	if !ok {
		t.Fatalf("missing lock guard: %v", filter)
	}
	if locked["$ne"] != true {
		t.Errorf("lock guard = %v, want $ne true", locked)
	}
}

func TestReserveFilterRejectsZeroSlotDates(t *testing.T) {
	// A date with 0 remaining slots can never satisfy $gte groupSize
	// for any groupSize >= 1.
	filter := reserveFilter("t1", "2026-07-04", 1)
	slots := filter["availability.2026-07-04"].(bson.M)
	if min, _ := slots["$gte"].(int); min < 1 {
		t.Errorf("guard must require at least one slot, got $gte %v", min)
	}
}

func TestReserveAndReleaseAreSymmetric(t *testing.T) {
	reserve := reserveUpdate("2026-07-04", 4)["$inc"].(bson.M)
	release := releaseUpdate("2026-07-04", 4)["$inc"].(bson.M)

	if reserve["availability.2026-07-04"] != -4 || release["availability.2026-07-04"] != 4 {
		t.Errorf("slot delta mismatch: reserve %v release %v", reserve, release)
	}
	if reserve["bookingCount"] != 1 || release["bookingCount"] != -1 {
		t.Errorf("bookingCount delta mismatch: reserve %v release %v", reserve, release)
	}
}
