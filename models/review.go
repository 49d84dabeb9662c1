package models

import "time"

type Review struct {
	ReviewID  string    `json:"reviewid" bson:"reviewid"`
	TourID    string    `json:"tourid" bson:"tourid"`
	UserID    string    `json:"userid" bson:"userid"`
	Rating    int       `json:"rating" bson:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty" bson:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Index is an indexing event published to the search worker whenever a
// tour is created, updated or deleted.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"` // POST, PUT, DELETE
	EntityId   string `json:"entity_id"`
}
