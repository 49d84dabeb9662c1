package reviews

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddReview creates or replaces the caller's review for a tour. One
// review per (user, tour); posting again overwrites the old one.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	input.Comment = strings.TrimSpace(input.Comment)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	count, err := db.ToursCollection.CountDocuments(ctx, bson.M{"tourid": tourID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	now := time.Now()
	review := models.Review{
		ReviewID:  utils.GenerateRandomString(14),
		TourID:    tourID,
		UserID:    userID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = db.ReviewsCollection.ReplaceOne(ctx,
		bson.M{"tourid": tourID, "userid": userID},
		review,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save review")
		return
	}

	recomputeRating(ctx, tourID)
	utils.SendResponse(w, http.StatusCreated, review, "Review saved", nil)
}

// GetReviews lists a tour's reviews, newest first.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ReviewsCollection.Find(ctx,
		bson.M{"tourid": tourID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100),
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}
	defer cur.Close(ctx)

	var reviews []models.Review
	if err := cur.All(ctx, &reviews); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read reviews")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reviews": reviews})
}

// DeleteReview removes the caller's own review.
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"tourid": tourID, "userid": userID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	recomputeRating(ctx, tourID)
	utils.SendResponse(w, http.StatusOK, nil, "Review deleted", nil)
}

// recomputeRating refreshes the tour's cached mean rating and review
// count from the reviews collection. Best effort; the tour document
// stays readable with a stale aggregate if this fails.
func recomputeRating(ctx context.Context, tourID string) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tourid": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"rating": bson.M{"$avg": "$rating"},
			"count":  bson.M{"$sum": 1},
		}}},
	}
	cur, err := db.ReviewsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("reviews: aggregate failed for %s: %v", tourID, err)
		return
	}
	defer cur.Close(ctx)

	rating, count := 0.0, 0
	if cur.Next(ctx) {
		var row struct {
			Rating float64 `bson:"rating"`
			Count  int     `bson:"count"`
		}
		if err := cur.Decode(&row); err == nil {
			rating, count = row.Rating, row.Count
		}
	}

	_, err = db.ToursCollection.UpdateOne(ctx,
		bson.M{"tourid": tourID},
		bson.M{"$set": bson.M{"rating": rating, "reviewCount": count}},
	)
	if err != nil {
		log.Printf("reviews: rating update failed for %s: %v", tourID, err)
	}
}
