package pay

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voyago/bookings"
	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateIntent mints a payment intent for one of the caller's
// bookings. The client secret is returned exactly once; the card flow
// happens client-side against the processor and Confirm closes the
// loop.
func CreateIntent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		BookingID string `json:"bookingid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.BookingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "bookingid is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": input.BookingID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}
	if booking.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your booking")
		return
	}
	if !bookings.CanTransition(booking.Status, models.BookingPaid) {
		utils.RespondWithError(w, http.StatusConflict, "booking is not payable from status "+booking.Status)
		return
	}

	now := time.Now()
	payment := models.Payment{
		PaymentID:    "pi_" + uuid.NewString(),
		BookingID:    booking.BookingID,
		UserID:       userID,
		Amount:       booking.Amount,
		Currency:     "USD",
		Status:       models.PaymentCreated,
		ClientSecret: uuid.NewString(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := db.PaymentsCollection.InsertOne(ctx, payment); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create payment intent")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"paymentid":    payment.PaymentID,
		"clientSecret": payment.ClientSecret,
		"amount":       payment.Amount,
		"currency":     payment.Currency,
	})
}

// ConfirmPayment verifies the client secret, settles the payment and
// marks the booking paid. Replays land on the already-succeeded branch
// and return OK, so the endpoint is idempotent even without the
// Idempotency-Key header.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	var input struct {
		PaymentID    string `json:"paymentid"`
		ClientSecret string `json:"clientSecret"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.PaymentID == "" || input.ClientSecret == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "paymentid and clientSecret are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var payment models.Payment
	err := db.PaymentsCollection.FindOne(ctx, bson.M{"paymentid": input.PaymentID}).Decode(&payment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Payment not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch payment")
		return
	}
	if payment.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Not your payment")
		return
	}
	if payment.ClientSecret != input.ClientSecret {
		utils.RespondWithError(w, http.StatusUnauthorized, "client secret mismatch")
		return
	}

	// The booking may have been cancelled between intent and confirm;
	// settling then would take money for a booking whose slots are
	// already released.
	var booking models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": payment.BookingID}).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch booking")
		return
	}
	if payable, replay := settleState(booking.Status); !payable && !replay {
		utils.RespondWithError(w, http.StatusConflict, "booking is not payable from status "+booking.Status)
		return
	}

	if payment.Status != models.PaymentSucceeded {
		_, err = db.PaymentsCollection.UpdateOne(ctx,
			bson.M{"paymentid": payment.PaymentID},
			bson.M{"$set": bson.M{"status": models.PaymentSucceeded, "updated_at": time.Now()}},
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to settle payment")
			return
		}
	}

	// Mark the booking paid. If this write is lost the reconciler
	// repairs it from the succeeded payment record.
	if _, err := markBookingPaid(ctx, payment.BookingID, payment.PaymentID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Payment recorded, booking update pending")
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{
		"paymentid": payment.PaymentID,
		"status":    models.PaymentSucceeded,
	}, "Payment confirmed", nil)
}

// settleState classifies a booking's status for settlement: payable
// means the paid transition is still allowed, replay means the booking
// is already paid and a repeated confirm is a no-op success.
func settleState(status string) (payable, replay bool) {
	if status == models.BookingPaid {
		return false, true
	}
	return bookings.CanTransition(status, models.BookingPaid), false
}

// markBookingPaid transitions a booking to paid, tolerating replays.
// The bool reports whether the booking document was actually written.
func markBookingPaid(ctx context.Context, bookingID, paymentID string) (bool, error) {
	var booking models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking)
	if err != nil {
		return false, err
	}
	if payable, _ := settleState(booking.Status); !payable {
		return false, nil
	}

	res, err := db.BookingsCollection.UpdateOne(ctx,
		bson.M{"bookingid": bookingID, "status": booking.Status},
		bson.M{"$set": bson.M{
			"status":     models.BookingPaid,
			"paymentId":  paymentID,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
