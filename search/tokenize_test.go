package search

import (
	"reflect"
	"testing"
)

func TestTokenizeDropsStopwordsAndDuplicates(t *testing.T) {
	got := Tokenize("The Temples of Bali and the Bali coast")
	want := []string{"temples", "bali", "coast"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	if got := Tokenize("   "); got != nil {
		t.Errorf("whitespace-only input should yield nil, got %v", got)
	}
}

func TestTokenizeLowercases(t *testing.T) {
	got := Tokenize("KYOTO Walking TOUR")
	want := []string{"kyoto", "walking", "tour"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize = %v, want %v", got, want)
	}
}
