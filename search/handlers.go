package search

import (
	"context"
	"log"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const searchLimit = 25

// SearchTours resolves a free-text query through the redis token index
// and hydrates the matching tours from Mongo. Authenticated callers
// get the term pushed onto their recent list.
func SearchTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query().Get("q")
	if query == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "q is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ids, err := Lookup(ctx, query, searchLimit)
	if err != nil {
		log.Printf("search lookup failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	tours := []models.Tour{}
	if len(ids) > 0 {
		cur, err := db.ToursCollection.Find(ctx, bson.M{"tourid": bson.M{"$in": ids}})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
			return
		}
		defer cur.Close(ctx)
		if err := cur.All(ctx, &tours); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Search failed")
			return
		}
	}

	if userID := utils.GetUserIDFromRequest(r); userID != "" {
		if err := SaveRecent(ctx, userID, query); err != nil {
			log.Printf("recent search save failed: %v", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"query": query, "tours": tours})
}

// Reindex walks the whole catalog into the token index. Admin only;
// used after restoring redis or changing tokenization.
func Reindex(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	cur, err := db.ToursCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Reindex failed")
		return
	}
	defer cur.Close(ctx)

	indexed := 0
	for cur.Next(ctx) {
		var tour models.Tour
		if err := cur.Decode(&tour); err != nil {
			continue
		}
		if err := IndexTour(ctx, tour); err != nil {
			log.Printf("reindex of tour %s failed: %v", tour.TourID, err)
			continue
		}
		indexed++
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"indexed": indexed})
}
