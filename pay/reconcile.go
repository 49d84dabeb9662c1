package pay

import (
	"context"
	"log"
	"time"

	"voyago/db"
	"voyago/models"

	"go.mongodb.org/mongo-driver/bson"
)

// StartReconciler repairs the gap between a payment that succeeded and
// a booking whose confirming write was dropped: any succeeded payment
// whose booking is not paid gets its booking re-marked. Runs until the
// context is cancelled.
func StartReconciler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := reconcileOnce(ctx); err != nil {
				log.Printf("payment reconcile: %v", err)
			} else if n > 0 {
				log.Printf("payment reconcile: repaired %d bookings", n)
			}
		}
	}
}

func reconcileOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cur, err := db.PaymentsCollection.Find(ctx, bson.M{"status": models.PaymentSucceeded})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	repaired := 0
	for cur.Next(ctx) {
		var payment models.Payment
		if err := cur.Decode(&payment); err != nil {
			continue
		}

		var booking models.Booking
		err := db.BookingsCollection.FindOne(ctx,
			bson.M{"bookingid": payment.BookingID}).Decode(&booking)
		if err != nil {
			log.Printf("payment %s references missing booking %s", payment.PaymentID, payment.BookingID)
			continue
		}
		if booking.Status == models.BookingPaid {
			continue
		}

		wrote, err := markBookingPaid(ctx, payment.BookingID, payment.PaymentID)
		if err != nil {
			log.Printf("repair of booking %s failed: %v", payment.BookingID, err)
			continue
		}
		if wrote {
			repaired++
		}
	}
	return repaired, cur.Err()
}
