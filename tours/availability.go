package tours

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voyago/db"
	"voyago/live"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetAvailability reports remaining slots and rendered status per date.
func GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch availability")
		return
	}

	type dateInfo struct {
		Slots  int    `json:"slots"`
		Locked bool   `json:"locked"`
		Status string `json:"status"`
	}
	dates := make(map[string]dateInfo, len(tour.Availability))
	for date, slots := range tour.Availability {
		dates[date] = dateInfo{
			Slots:  slots,
			Locked: tour.LockedDates[date],
			Status: tour.DateStatus(date),
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"tourid": tourID, "dates": dates})
}

// SetSlots sets remaining slots for one or more dates wholesale. This
// is the admin calendar editor; customer bookings never come through
// here, they decrement atomically in the bookings package.
func SetSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	var input struct {
		Slots map[string]int `json:"slots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || len(input.Slots) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "slots map is required")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	for date, slots := range input.Slots {
		date = utils.NormalizeDate(date)
		if _, err := time.Parse("2006-01-02", date); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid date: "+date)
			return
		}
		if slots < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "slots must not be negative")
			return
		}
		set["availability."+date] = slots
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ToursCollection.UpdateOne(ctx, bson.M{"tourid": tourID}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update slots")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
		return
	}

	for date := range input.Slots {
		live.BroadcastAvailability(tourID, utils.NormalizeDate(date))
	}

	utils.SendResponse(w, http.StatusOK, nil, "Slots updated", nil)
}

// ToggleLock flips a date's locked flag. Locked dates reject bookings
// regardless of remaining slots.
func ToggleLock(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tourID := ps.ByName("tourid")

	var input struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "date is required")
		return
	}
	date := utils.NormalizeDate(input.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": tourID},
	).Decode(&tour)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tour")
		return
	}

	locked := !tour.LockedDates[date]
	_, err = db.ToursCollection.UpdateOne(ctx, bson.M{"tourid": tourID}, bson.M{"$set": bson.M{
		"lockedDates." + date: locked,
		"updated_at":          time.Now(),
	}})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to toggle lock")
		return
	}

	live.BroadcastAvailability(tourID, date)

	utils.SendResponse(w, http.StatusOK, utils.M{"date": date, "locked": locked}, "Lock toggled", nil)
}
