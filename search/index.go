package search

import (
	"context"
	"strings"

	"voyago/models"
	"voyago/rdx"
)

const (
	tokenKeyPrefix = "search:token:"
	docKeyPrefix   = "search:doc:"
)

// IndexTour writes the tour's tokens into the inverted index. The
// per-document token set makes later removal possible without a scan.
func IndexTour(ctx context.Context, tour models.Tour) error {
	if err := RemoveTour(ctx, tour.TourID); err != nil {
		return err
	}

	tokens := Tokenize(strings.Join([]string{tour.Title, tour.Location, tour.Description}, " "))
	if len(tokens) == 0 {
		return nil
	}

	pipe := rdx.Conn.Pipeline()
	for _, token := range tokens {
		pipe.SAdd(ctx, tokenKeyPrefix+token, tour.TourID)
	}
	members := make([]interface{}, len(tokens))
	for i, t := range tokens {
		members[i] = t
	}
	pipe.SAdd(ctx, docKeyPrefix+tour.TourID, members...)
	_, err := pipe.Exec(ctx)
	return err
}

// RemoveTour erases a tour from every token set it was indexed under.
func RemoveTour(ctx context.Context, tourID string) error {
	tokens, err := rdx.Conn.SMembers(ctx, docKeyPrefix+tourID).Result()
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	pipe := rdx.Conn.Pipeline()
	for _, token := range tokens {
		pipe.SRem(ctx, tokenKeyPrefix+token, tourID)
	}
	pipe.Del(ctx, docKeyPrefix+tourID)
	_, err = pipe.Exec(ctx)
	return err
}

// Lookup intersects the token sets, smallest set first, and returns up
// to limit matching tour ids.
func Lookup(ctx context.Context, query string, limit int) ([]string, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = tokenKeyPrefix + t
	}

	ids, err := rdx.Conn.SInter(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
