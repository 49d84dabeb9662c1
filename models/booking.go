package models

import "time"

// Booking statuses. Transitions are enforced by bookings.CanTransition:
// pending -> confirmed | cancelled | paid
// confirmed -> cancelled | paid
// cancelled, paid are terminal.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingPaid      = "paid"
)

type Booking struct {
	BookingID       string    `json:"bookingid" bson:"bookingid"`
	UserID          string    `json:"userid" bson:"userid"`
	TourID          string    `json:"tourid" bson:"tourid"`
	Date            string    `json:"date" bson:"date"` // "2006-01-02"
	GroupSize       int       `json:"groupSize" bson:"groupSize"`
	Amount          float64   `json:"amount" bson:"amount"` // tour price x groupSize, server-computed
	Status          string    `json:"status" bson:"status"`
	SpecialRequests string    `json:"specialRequests,omitempty" bson:"specialRequests,omitempty"`
	PaymentID       string    `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// BookingStats backs the admin dashboard counters.
type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Confirmed int64 `json:"confirmed"`
	Cancelled int64 `json:"cancelled"`
	Paid      int64 `json:"paid"`
}
