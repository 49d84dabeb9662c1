package models

import "testing"

func TestDateStatusBuckets(t *testing.T) {
	tour := Tour{
		Availability: map[string]int{
			"2026-10-01": 0,
			"2026-10-02": 1,
			"2026-10-03": 4,
			"2026-10-04": 5,
			"2026-10-05": 12,
		},
		LockedDates: map[string]bool{"2026-10-05": true},
	}

	cases := map[string]string{
		"2026-10-01": "unavailable",
		"2026-10-02": "limited",
		"2026-10-03": "limited",
		"2026-10-04": "available",
		"2026-10-05": "unavailable", // locked beats remaining slots
		"2026-12-25": "unavailable", // date never offered
	}
	for date, want := range cases {
		if got := tour.DateStatus(date); got != want {
			t.Errorf("DateStatus(%s) = %s, want %s", date, got, want)
		}
	}
}
