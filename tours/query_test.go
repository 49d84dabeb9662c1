package tours

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParseQueryDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours", nil)
	q := ParseQuery(r)

	if q.SortField() != "title" {
		t.Errorf("default sort field = %q, want title", q.SortField())
	}
	if q.Limit != defaultPageSize {
		t.Errorf("default limit = %d, want %d", q.Limit, defaultPageSize)
	}
	if len(q.Filter()) != 0 {
		t.Errorf("empty query should produce empty filter, got %v", q.Filter())
	}
}

func TestFilterCombinesLocationAndPriceRange(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?location=Bali&minPrice=100&maxPrice=500&duration=3", nil)
	q := ParseQuery(r)
	filter := q.Filter()

	if filter["location"] != "Bali" {
		t.Errorf("location filter = %v", filter["location"])
	}
	if filter["duration"] != 3 {
		t.Errorf("duration filter = %v", filter["duration"])
	}
	price, ok := filter["price"].(bson.M)
	if !ok {
		t.Fatalf("price filter missing: %v", filter)
	}
	if price["$gte"] != 100.0 || price["$lte"] != 500.0 {
		t.Errorf("price range = %v", price)
	}
}

func TestUnknownSortFieldFallsBack(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?sortBy=popularity", nil)
	q := ParseQuery(r)
	if q.SortField() != "title" {
		t.Errorf("sort field = %q, want title fallback", q.SortField())
	}
}

func TestCursorPredicateAscending(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?sortBy=price&afterValue=299&afterId=t42", nil)
	q := ParseQuery(r)

	cursor, ok := q.cursorFilter()
	if !ok {
		t.Fatal("cursor should apply when both afterValue and afterId are set")
	}
	or, ok := cursor["$or"].([]bson.M)
	if !ok || len(or) != 2 {
		t.Fatalf("cursor = %v", cursor)
	}
	if gt, _ := or[0]["price"].(bson.M); gt["$gt"] != 299.0 {
		t.Errorf("strict branch = %v", or[0])
	}
	if or[1]["price"] != 299.0 {
		t.Errorf("tiebreak branch should pin the sort value, got %v", or[1])
	}
	if id, _ := or[1]["tourid"].(bson.M); id["$gt"] != "t42" {
		t.Errorf("tiebreak branch id predicate = %v", or[1])
	}
}

func TestCursorPredicateDescending(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?sortBy=rating&order=desc&afterValue=4.5&afterId=t9", nil)
	q := ParseQuery(r)

	cursor, ok := q.cursorFilter()
	if !ok {
		t.Fatal("cursor should apply")
	}
	or := cursor["$or"].([]bson.M)
	if lt, _ := or[0]["rating"].(bson.M); lt["$lt"] != 4.5 {
		t.Errorf("descending cursor must use $lt, got %v", or[0])
	}
}

func TestCursorIgnoredWhenIncomplete(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?afterId=t1", nil)
	q := ParseQuery(r)
	if _, ok := q.cursorFilter(); ok {
		t.Error("cursor must require both afterValue and afterId")
	}
}

func TestCursorIgnoredOnBadNumericValue(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?sortBy=price&afterValue=abc&afterId=t1", nil)
	q := ParseQuery(r)
	if _, ok := q.cursorFilter(); ok {
		t.Error("non-numeric cursor value for price sort must be dropped")
	}
}

func TestLimitCapped(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/tours/tours?limit=500", nil)
	q := ParseQuery(r)
	// The parsed Limit itself must carry the cap: the listing compares
	// row count against q.Limit to decide whether to emit a cursor, so
	// a clamp applied only at query time would suppress pagination for
	// oversized requests.
	if q.Limit != maxPageSize {
		t.Errorf("parsed limit = %d, want cap %d", q.Limit, maxPageSize)
	}
	opts := q.Options()
	if *opts.Limit != maxPageSize {
		t.Errorf("query limit = %d, want cap %d", *opts.Limit, maxPageSize)
	}
}
