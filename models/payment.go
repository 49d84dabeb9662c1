package models

import "time"

// Payment statuses.
const (
	PaymentCreated   = "created"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

// Payment is one intent against a booking. ClientSecret is handed to the
// caller once at creation and must be echoed back on confirm.
type Payment struct {
	PaymentID    string    `json:"paymentid" bson:"paymentid"`
	BookingID    string    `json:"bookingid" bson:"bookingid"`
	UserID       string    `json:"userid" bson:"userid"`
	Amount       float64   `json:"amount" bson:"amount"`
	Currency     string    `json:"currency" bson:"currency"`
	Status       string    `json:"status" bson:"status"`
	ClientSecret string    `json:"-" bson:"client_secret"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IdempotencyRecord backs the Idempotency-Key middleware on mutating
// payment routes.
type IdempotencyRecord struct {
	Key         string                 `bson:"key"`
	Method      string                 `bson:"method"`
	Path        string                 `bson:"path"`
	UserID      string                 `bson:"user_id,omitempty"`
	RequestHash string                 `bson:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty"`
	CreatedAt   time.Time              `bson:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at"`
}
