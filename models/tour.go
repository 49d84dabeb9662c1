package models

import "time"

type Tour struct {
	TourID       string  `json:"tourid" bson:"tourid"`
	Title        string  `json:"title" bson:"title"`
	Description  string  `json:"description" bson:"description"`
	Location     string  `json:"location" bson:"location"`
	Price        float64 `json:"price" bson:"price"`
	Duration     int     `json:"duration" bson:"duration"` // days
	MaxGroupSize int     `json:"maxGroupSize" bson:"maxGroupSize"`
	ImageURL     string  `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	ThumbURL     string  `json:"thumbUrl,omitempty" bson:"thumbUrl,omitempty"`
	Rating       float64 `json:"rating" bson:"rating"`
	ReviewCount  int     `json:"reviewCount" bson:"reviewCount"`
	BookingCount int     `json:"bookingCount" bson:"bookingCount"`

	// Availability maps "2006-01-02" dates to remaining slots.
	// Slots are only ever mutated through the guarded $inc in bookings,
	// so a value can never drop below zero.
	Availability map[string]int  `json:"availability,omitempty" bson:"availability,omitempty"`
	LockedDates  map[string]bool `json:"lockedDates,omitempty" bson:"lockedDates,omitempty"`

	CreatedBy string    `json:"createdBy" bson:"createdBy"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DateStatus buckets a date's remaining slots the way the catalog
// renders them: locked or empty dates are unavailable, 1-4 limited,
// 5 and up available.
func (t *Tour) DateStatus(date string) string {
	if t.LockedDates[date] {
		return "unavailable"
	}
	slots := t.Availability[date]
	switch {
	case slots <= 0:
		return "unavailable"
	case slots < 5:
		return "limited"
	default:
		return "available"
	}
}
