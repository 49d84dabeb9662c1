package wishlist

import (
	"context"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Toggle adds the tour to the caller's wishlist if absent and removes
// it if present. Toggling twice restores the original membership; the
// unique (userid, tourid) index absorbs concurrent inserts.
func Toggle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	tourID := ps.ByName("tourid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.WishlistsCollection.DeleteOne(ctx, bson.M{"userid": userID, "tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Wishlist update failed")
		return
	}
	if res.DeletedCount > 0 {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"wishlisted": false})
		return
	}

	// Not present: the tour must exist before we pin it.
	count, err := db.ToursCollection.CountDocuments(ctx, bson.M{"tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Wishlist update failed")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	entry := models.WishlistEntry{
		EntryID: utils.GenerateRandomDigitString(16),
		UserID:  userID,
		TourID:  tourID,
		AddedAt: time.Now(),
	}
	_, err = db.WishlistsCollection.InsertOne(ctx, entry)
	wishlisted, err := wishlistedAfterInsert(err)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Wishlist update failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"wishlisted": wishlisted})
}

// wishlistedAfterInsert maps an insert result onto the membership state
// reported to the caller. A duplicate key means a concurrent toggle
// already created the entry, so membership holds either way and the
// second toggle of a pair still lands on the opposite state.
func wishlistedAfterInsert(err error) (bool, error) {
	if err == nil || mongo.IsDuplicateKeyError(err) {
		return true, nil
	}
	return false, err
}

// List returns the caller's wishlist joined with tour summaries,
// newest first. Entries whose tour has since been deleted are skipped.
func List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.WishlistsCollection.Find(ctx, bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "addedAt", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch wishlist")
		return
	}
	defer cur.Close(ctx)

	var entries []models.WishlistEntry
	if err := cur.All(ctx, &entries); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read wishlist")
		return
	}

	items := make([]models.WishlistItem, 0, len(entries))
	for _, entry := range entries {
		var tour models.Tour
		if err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": entry.TourID}).Decode(&tour); err != nil {
			continue
		}
		items = append(items, models.WishlistItem{
			EntryID: entry.EntryID,
			AddedAt: entry.AddedAt,
			Tour:    tour,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"wishlist": items})
}

// Contains reports whether a tour is on the caller's wishlist.
func Contains(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	tourID := ps.ByName("tourid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.WishlistsCollection.CountDocuments(ctx, bson.M{"userid": userID, "tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Wishlist lookup failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"wishlisted": count > 0})
}
