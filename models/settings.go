package models

import "time"

// AdminSettings is the single global preferences document,
// read and written wholesale by the admin settings page.
type AdminSettings struct {
	Notifications NotificationSettings `json:"notifications" bson:"notifications"`
	Security      SecuritySettings     `json:"security" bson:"security"`
	General       GeneralSettings      `json:"general" bson:"general"`
	Booking       BookingPolicy        `json:"booking" bson:"booking"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
	UpdatedBy     string               `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}

type NotificationSettings struct {
	NewBookings          bool `json:"newBookings" bson:"newBookings"`
	BookingCancellations bool `json:"bookingCancellations" bson:"bookingCancellations"`
	LowAvailability      bool `json:"lowAvailability" bson:"lowAvailability"`
	Reviews              bool `json:"reviews" bson:"reviews"`
}

type SecuritySettings struct {
	RequireTwoFactor bool `json:"requireTwoFactor" bson:"requireTwoFactor"`
	SessionTimeout   int  `json:"sessionTimeout" bson:"sessionTimeout"` // minutes
}

type GeneralSettings struct {
	Language string `json:"language" bson:"language"`
	Timezone string `json:"timezone" bson:"timezone"`
	Currency string `json:"currency" bson:"currency"`
}

type BookingPolicy struct {
	MaxGroupSize       int `json:"maxGroupSize" bson:"maxGroupSize"`
	MinAdvanceBooking  int `json:"minAdvanceBooking" bson:"minAdvanceBooking"`   // days
	CancellationPeriod int `json:"cancellationPeriod" bson:"cancellationPeriod"` // hours
}

// DefaultAdminSettings mirrors the defaults seeded before the global
// document first exists.
func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		Notifications: NotificationSettings{
			NewBookings:          true,
			BookingCancellations: true,
			LowAvailability:      true,
			Reviews:              true,
		},
		Security: SecuritySettings{
			RequireTwoFactor: false,
			SessionTimeout:   30,
		},
		General: GeneralSettings{
			Language: "en",
			Timezone: "UTC",
			Currency: "USD",
		},
		Booking: BookingPolicy{
			MaxGroupSize:       15,
			MinAdvanceBooking:  2,
			CancellationPeriod: 24,
		},
	}
}
