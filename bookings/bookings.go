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

// reserveFilter matches the tour only while the date still has enough
// slots and is not locked. Paired with reserveUpdate in a single
// FindOneAndUpdate this is the compare-and-swap that keeps slots from
// going negative under concurrent bookings.
func reserveFilter(tourID, date string, groupSize int) bson.M {
	return bson.M{
		"tourid":               tourID,
		"availability." + date: bson.M{"$gte": groupSize},
		"lockedDates." + date:  bson.M{"$ne": true},
	}
}

func reserveUpdate(date string, groupSize int) bson.M {
	return bson.M{"$inc": bson.M{
		"availability." + date: -groupSize,
		"bookingCount":         1,
	}}
}

func releaseUpdate(date string, groupSize int) bson.M {
	return bson.M{"$inc": bson.M{
		"availability." + date: groupSize,
		"bookingCount":         -1,
	}}
}

// bookingPolicy loads the admin booking policy, falling back to
// defaults when the global settings document is absent.
func bookingPolicy(ctx context.Context) models.BookingPolicy {
	var settings models.AdminSettings
	err := db.SettingsCollection.FindOne(ctx, bson.M{}).Decode(&settings)
	if err != nil {
		return models.DefaultAdminSettings().Booking
	}
	if settings.Booking.MaxGroupSize <= 0 {
		settings.Booking = models.DefaultAdminSettings().Booking
	}
	return settings.Booking
}

// CreateBooking reserves capacity and records the booking. The slot
// decrement happens first, atomically; the booking document is only
// inserted once the reservation holds, and the decrement is compensated
// if the insert fails.
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		TourID          string `json:"tourid"`
		Date            string `json:"date"`
		GroupSize       int    `json:"groupSize"`
		SpecialRequests string `json:"specialRequests"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if input.TourID == "" || input.Date == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "tourid and date are required")
		return
	}
	if input.GroupSize < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "groupSize must be at least 1")
		return
	}

	date := utils.NormalizeDate(input.Date)
	tourDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	policy := bookingPolicy(ctx)
	minStart := time.Now().AddDate(0, 0, policy.MinAdvanceBooking)
	if tourDate.Before(minStart.Truncate(24 * time.Hour)) {
		utils.RespondWithError(w, http.StatusBadRequest, "date is too soon to book")
		return
	}

	var tour models.Tour
	if err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": input.TourID}).Decode(&tour); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Tour not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tour")
		return
	}

	maxGroup := tour.MaxGroupSize
	if policy.MaxGroupSize > 0 && policy.MaxGroupSize < maxGroup {
		maxGroup = policy.MaxGroupSize
	}
	if input.GroupSize > maxGroup {
		utils.RespondWithError(w, http.StatusBadRequest, "groupSize exceeds the maximum for this tour")
		return
	}

	// Atomic conditional decrement keyed by (tourid, date).
	err = db.ToursCollection.FindOneAndUpdate(ctx,
		reserveFilter(input.TourID, date, input.GroupSize),
		reserveUpdate(date, input.GroupSize),
	).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithJSON(w, http.StatusConflict, utils.M{
				"ok":     false,
				"reason": "date-unavailable",
			})
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to reserve slots")
		return
	}

	now := time.Now()
	booking := models.Booking{
		BookingID:       utils.GenerateRandomDigitString(18),
		UserID:          userID,
		TourID:          input.TourID,
		Date:            date,
		GroupSize:       input.GroupSize,
		Amount:          Amount(tour.Price, input.GroupSize),
		Status:          models.BookingPending,
		SpecialRequests: input.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := db.BookingsCollection.InsertOne(ctx, booking); err != nil {
		// Give the reserved slots back before reporting failure.
		if _, rbErr := db.ToursCollection.UpdateOne(ctx,
			bson.M{"tourid": input.TourID},
			releaseUpdate(date, input.GroupSize)); rbErr != nil {
			log.Printf("slot rollback failed for tour %s date %s: %v", input.TourID, date, rbErr)
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	live.BroadcastAvailability(input.TourID, date)

	utils.SendResponse(w, http.StatusCreated, booking, "Booking created", nil)
}

// GetMyBookings lists the caller's bookings, newest first.
func GetMyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"userid": userID}
	if status := r.URL.Query().Get("status"); status != "" && ValidStatus(status) {
		filter["status"] = status
	}

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

func GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := loadOwnBooking(w, r, ps.ByName("bookingid"))
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": booking})
}

// CancelBooking lets the owner cancel within the policy window. The
// status flip is guarded on the current status so a concurrent admin
// change cannot double-release the slots.
func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := loadOwnBooking(w, r, ps.ByName("bookingid"))
	if !ok {
		return
	}

	if !CanTransition(booking.Status, models.BookingCancelled) {
		utils.RespondWithError(w, http.StatusConflict, "booking cannot be cancelled from status "+booking.Status)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	policy := bookingPolicy(ctx)
	tourDate, err := time.Parse("2006-01-02", booking.Date)
	if err == nil {
		cutoff := tourDate.Add(-time.Duration(policy.CancellationPeriod) * time.Hour)
		if time.Now().After(cutoff) {
			utils.RespondWithError(w, http.StatusConflict, "cancellation window has closed")
			return
		}
	}

	res, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"bookingid": booking.BookingID, "status": booking.Status},
		bson.M{"$set": bson.M{"status": models.BookingCancelled, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}
	if res.ModifiedCount == 0 {
		utils.RespondWithError(w, http.StatusConflict, "booking status changed, retry")
		return
	}

	if _, err := db.ToursCollection.UpdateOne(ctx,
		bson.M{"tourid": booking.TourID},
		releaseUpdate(booking.Date, booking.GroupSize)); err != nil {
		log.Printf("slot release failed for tour %s date %s: %v", booking.TourID, booking.Date, err)
	}

	live.BroadcastAvailability(booking.TourID, booking.Date)

	utils.SendResponse(w, http.StatusOK, nil, "Booking cancelled", nil)
}

// loadOwnBooking fetches a booking and enforces ownership.
func loadOwnBooking(w http.ResponseWriter, r *http.Request, bookingID string) (models.Booking, bool) {
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		}
		return models.Booking{}, false
	}
	if booking.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your booking")
		return models.Booking{}, false
	}
	return booking, true
}
