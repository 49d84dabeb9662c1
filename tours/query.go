package tours

import (
	"net/http"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultPageSize = 9
	maxPageSize     = 50
)

// Allowed order fields. Anything else falls back to title.
var sortFields = map[string]bool{
	"price":  true,
	"rating": true,
	"title":  true,
}

// Query is the one shared builder every listing goes through, so
// filter, sort and cursor semantics stay identical across pages.
type Query struct {
	Location string
	Duration int
	MinPrice float64
	MaxPrice float64
	SortBy   string
	Desc     bool
	Limit    int64

	// Cursor: the sort-field value and tourid of the last item of the
	// previous page. Both must be set for the cursor to apply.
	AfterValue string
	AfterID    string
}

// ParseQuery builds a Query from listing query parameters.
func ParseQuery(r *http.Request) Query {
	q := Query{
		Location:   r.URL.Query().Get("location"),
		SortBy:     r.URL.Query().Get("sortBy"),
		Desc:       r.URL.Query().Get("order") == "desc",
		Limit:      defaultPageSize,
		AfterValue: r.URL.Query().Get("afterValue"),
		AfterID:    r.URL.Query().Get("afterId"),
	}
	if v := r.URL.Query().Get("duration"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			q.Duration = n
		}
	}
	if v := r.URL.Query().Get("minPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			q.MinPrice = f
		}
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			q.MaxPrice = f
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			q.Limit = n
		}
	}
	// Clamp here rather than in Options so the full-page check against
	// q.Limit sees the effective page size and still emits a cursor.
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	return q
}

// SortField normalizes SortBy against the allowed set.
func (q *Query) SortField() string {
	if sortFields[q.SortBy] {
		return q.SortBy
	}
	return "title"
}

func (q *Query) sortDir() int {
	if q.Desc {
		return -1
	}
	return 1
}

// Filter assembles the match document: equality on location/duration,
// range on price, plus the cursor predicate when present.
func (q *Query) Filter() bson.M {
	filter := bson.M{}
	if q.Location != "" {
		filter["location"] = q.Location
	}
	if q.Duration > 0 {
		filter["duration"] = q.Duration
	}
	price := bson.M{}
	if q.MinPrice > 0 {
		price["$gte"] = q.MinPrice
	}
	if q.MaxPrice > 0 {
		price["$lte"] = q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if cursor, ok := q.cursorFilter(); ok {
		filter["$and"] = []bson.M{cursor}
	}
	return filter
}

// cursorFilter emits the start-after predicate: strictly past the last
// sort value, or equal on the sort value and past the tourid tiebreak.
func (q *Query) cursorFilter() (bson.M, bool) {
	if q.AfterValue == "" || q.AfterID == "" {
		return nil, false
	}

	field := q.SortField()
	var value interface{} = q.AfterValue
	if field == "price" || field == "rating" {
		f, err := strconv.ParseFloat(q.AfterValue, 64)
		if err != nil {
			return nil, false
		}
		value = f
	}

	op, idOp := "$gt", "$gt"
	if q.Desc {
		op, idOp = "$lt", "$lt"
	}
	return bson.M{"$or": []bson.M{
		{field: bson.M{op: value}},
		{field: value, "tourid": bson.M{idOp: q.AfterID}},
	}}, true
}

// Options yields sort and limit. The tourid tiebreak keeps the order
// total, so the cursor never skips or repeats rows.
func (q *Query) Options() *options.FindOptions {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	dir := q.sortDir()
	return options.Find().
		SetSort(bson.D{{Key: q.SortField(), Value: dir}, {Key: "tourid", Value: dir}}).
		SetLimit(limit)
}
