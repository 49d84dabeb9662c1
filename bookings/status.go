package bookings

import "voyago/models"

// transitions is the authoritative booking status machine. Anything
// not listed here is rejected, no matter who asks; cancelled and paid
// have no outgoing edges.
var transitions = map[string][]string{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled, models.BookingPaid},
	models.BookingConfirmed: {models.BookingCancelled, models.BookingPaid},
	models.BookingCancelled: {},
	models.BookingPaid:      {},
}

func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four booking statuses.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// Amount is the only place a booking total is computed.
func Amount(price float64, groupSize int) float64 {
	return price * float64(groupSize)
}
