package bookings

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voyago/db"
	"voyago/live"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListBookings is the admin view: all bookings, optional status/tour
// filters, newest first.
func ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" && status != "all" {
		if !ValidStatus(status) {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown status")
			return
		}
		filter["status"] = status
	}
	if tourID := r.URL.Query().Get("tourid"); tourID != "" {
		filter["tourid"] = tourID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.BookingsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read bookings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}

// GetBookingStats returns the dashboard counters per status.
func GetBookingStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var stats models.BookingStats
	counts := map[string]*int64{
		models.BookingPending:   &stats.Pending,
		models.BookingConfirmed: &stats.Confirmed,
		models.BookingCancelled: &stats.Cancelled,
		models.BookingPaid:      &stats.Paid,
	}
	for status, dst := range counts {
		n, err := db.BookingsCollection.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to count bookings")
			return
		}
		*dst = n
		stats.Total += n
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// ChangeStatus applies an admin status change through the transition
// table. Cancelling restores the reserved slots.
func ChangeStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingid")

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Status == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "status is required")
		return
	}
	if !ValidStatus(input.Status) {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}

	if !CanTransition(booking.Status, input.Status) {
		utils.RespondWithError(w, http.StatusConflict,
			"cannot transition from "+booking.Status+" to "+input.Status)
		return
	}

	// Guard on the current status; a concurrent change loses cleanly.
	res, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"bookingid": bookingID, "status": booking.Status},
		bson.M{"$set": bson.M{"status": input.Status, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update booking")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "booking status changed, retry")
		return
	}

	if input.Status == models.BookingCancelled {
		if _, err := db.ToursCollection.UpdateOne(ctx,
			bson.M{"tourid": booking.TourID},
			releaseUpdate(booking.Date, booking.GroupSize)); err != nil {
			log.Printf("slot release failed for tour %s date %s: %v", booking.TourID, booking.Date, err)
		}
		live.BroadcastAvailability(booking.TourID, booking.Date)
	}

	utils.SendResponse(w, http.StatusOK, utils.M{"status": input.Status}, "Booking updated", nil)
}
