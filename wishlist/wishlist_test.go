package wishlist

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestWishlistedAfterInsert(t *testing.T) {
	dupErr := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
	otherErr := errors.New("connection reset")

	cases := []struct {
		name       string
		err        error
		wishlisted bool
		wantErr    bool
	}{
		{"clean insert", nil, true, false},
		{"duplicate key race", dupErr, true, false},
		{"unrelated failure", otherErr, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wishlisted, err := wishlistedAfterInsert(tc.err)
			if wishlisted != tc.wishlisted {
				t.Errorf("wishlisted = %v, want %v", wishlisted, tc.wishlisted)
			}
			if (err != nil) != tc.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// Toggling is delete-first: a present entry is removed before any
// insert is attempted, so two toggles restore the original membership.
// The concurrent-insert collision above is the only path where the
// second toggle of a pair observes the first.
func TestDuplicateKeyKeepsMembership(t *testing.T) {
	dupErr := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
	wishlisted, err := wishlistedAfterInsert(dupErr)
	if err != nil {
		t.Fatalf("duplicate key must not surface as an error: %v", err)
	}
	if !wishlisted {
		t.Fatal("duplicate key means the entry exists; membership must be reported")
	}
}
