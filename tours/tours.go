package tours

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"voyago/db"
	"voyago/filemgr"
	"voyago/models"
	"voyago/mq"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetTours lists the catalog through the shared query builder and
// returns a cursor for the next page.
func GetTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := ParseQuery(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.ToursCollection.Find(ctx, q.Filter(), q.Options())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tours")
		return
	}
	defer cur.Close(ctx)

	var tours []models.Tour
	if err := cur.All(ctx, &tours); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read tours")
		return
	}

	resp := utils.M{"tours": tours}
	if n := len(tours); n > 0 && int64(n) == q.Limit {
		last := tours[n-1]
		var afterValue string
		switch q.SortField() {
		case "price":
			afterValue = strconv.FormatFloat(last.Price, 'f', -1, 64)
		case "rating":
			afterValue = strconv.FormatFloat(last.Rating, 'f', -1, 64)
		default:
			afterValue = last.Title
		}
		resp["nextCursor"] = utils.M{"afterValue": afterValue, "afterId": last.TourID}
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": tourID}).Decode(&tour)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tour")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tour": tour})
}

// CreateTour takes a multipart form so the tour image rides along with
// the fields. Admin only (routes gate on manage_tours).
func CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	tour := models.Tour{
		TourID:      utils.GenerateRandomDigitString(14),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		CreatedBy:   utils.GetUserIDFromRequest(r),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	tour.Price, _ = strconv.ParseFloat(r.FormValue("price"), 64)
	tour.Duration, _ = strconv.Atoi(r.FormValue("duration"))
	tour.MaxGroupSize, _ = strconv.Atoi(r.FormValue("maxGroupSize"))

	if tour.Title == "" || tour.Location == "" || tour.Price <= 0 || tour.Duration <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "title, location, price and duration are required")
		return
	}
	if tour.MaxGroupSize <= 0 {
		tour.MaxGroupSize = 15
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if !utils.ValidateImageFileType(w, header) {
			return
		}
		imageURL, thumbURL, err := filemgr.SaveTourImage(file, header)
		if err != nil {
			log.Printf("tour image save failed: %v", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Image upload failed")
			return
		}
		tour.ImageURL = imageURL
		tour.ThumbURL = thumbURL
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := db.ToursCollection.InsertOne(ctx, tour); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create tour")
		return
	}

	mq.Emit(ctx, "tour-created", models.Index{EntityType: "tour", Method: "POST", EntityId: tour.TourID})

	utils.SendResponse(w, http.StatusCreated, tour, "Tour created", nil)
}

func EditTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	var input struct {
		Title        *string  `json:"title"`
		Description  *string  `json:"description"`
		Location     *string  `json:"location"`
		Price        *float64 `json:"price"`
		Duration     *int     `json:"duration"`
		MaxGroupSize *int     `json:"maxGroupSize"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Location != nil {
		set["location"] = *input.Location
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "price must be positive")
			return
		}
		set["price"] = *input.Price
	}
	if input.Duration != nil {
		set["duration"] = *input.Duration
	}
	if input.MaxGroupSize != nil {
		set["maxGroupSize"] = *input.MaxGroupSize
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ToursCollection.UpdateOne(ctx, bson.M{"tourid": tourID}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update tour")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	mq.Emit(ctx, "tour-updated", models.Index{EntityType: "tour", Method: "PUT", EntityId: tourID})

	utils.SendResponse(w, http.StatusOK, nil, "Tour updated", nil)
}

// UploadTourImage replaces the tour image after creation.
func UploadTourImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()
	if !utils.ValidateImageFileType(w, header) {
		return
	}

	imageURL, thumbURL, err := filemgr.SaveTourImage(file, header)
	if err != nil {
		log.Printf("tour image save failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Image upload failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ToursCollection.UpdateOne(ctx, bson.M{"tourid": tourID}, bson.M{"$set": bson.M{
		"imageUrl":   imageURL,
		"thumbUrl":   thumbURL,
		"updated_at": time.Now(),
	}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update tour")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{"imageUrl": imageURL, "thumbUrl": thumbURL}, "Image updated", nil)
}

func DeleteTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// Refuse deletion while live bookings exist against the tour.
	count, err := db.BookingsCollection.CountDocuments(ctx, bson.M{
		"tourid": tourID,
		"status": bson.M{"$in": []string{models.BookingPending, models.BookingConfirmed, models.BookingPaid}},
	})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check bookings")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict,
			fmt.Sprintf("tour has %d active bookings", count))
		return
	}

	res, err := db.ToursCollection.DeleteOne(ctx, bson.M{"tourid": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete tour")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	_, _ = db.WishlistsCollection.DeleteMany(ctx, bson.M{"tourid": tourID})

	mq.Emit(ctx, "tour-deleted", models.Index{EntityType: "tour", Method: "DELETE", EntityId: tourID})

	w.WriteHeader(http.StatusNoContent)
}
