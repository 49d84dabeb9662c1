package search

import (
	"context"
	"net/http"
	"strings"
	"time"

	"voyago/rdx"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
)

const (
	recentKeyPrefix = "recent_searches:"
	maxRecent       = 5
	recentTTL       = 90 * 24 * time.Hour
)

// SaveRecent records a search term at the head of the caller's recent
// list, deduped and capped at five entries.
func SaveRecent(ctx context.Context, userID, term string) error {
	term = strings.TrimSpace(term)
	if userID == "" || term == "" {
		return nil
	}
	key := recentKeyPrefix + userID

	pipe := rdx.Conn.Pipeline()
	pipe.LRem(ctx, key, 0, term)
	pipe.LPush(ctx, key, term)
	pipe.LTrim(ctx, key, 0, maxRecent-1)
	pipe.Expire(ctx, key, recentTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetRecentSearches returns the caller's recent terms, newest first.
func GetRecentSearches(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	terms, err := rdx.Conn.LRange(r.Context(), recentKeyPrefix+userID, 0, maxRecent-1).Result()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recent searches")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"recent": terms})
}

// ClearRecentSearches wipes the caller's recent list.
func ClearRecentSearches(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	if err := rdx.RdxDel(recentKeyPrefix + userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear recent searches")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
