package models

import "time"

type WishlistEntry struct {
	EntryID string    `json:"entryid" bson:"entryid"`
	UserID  string    `json:"userid" bson:"userid"`
	TourID  string    `json:"tourid" bson:"tourid"`
	AddedAt time.Time `json:"addedAt" bson:"addedAt"`
}

// WishlistItem is an entry joined with its tour summary for listings.
type WishlistItem struct {
	EntryID string    `json:"entryid"`
	AddedAt time.Time `json:"addedAt"`
	Tour    Tour      `json:"tour"`
}
