package bookings

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

func receiptSecret() []byte {
	if s := os.Getenv("RECEIPT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("voyago-receipt")
}

// signReceipt produces the QR payload: bookingid|tourid|date|signature.
// Scanners verify the HMAC against the same secret.
func signReceipt(bookingID, tourID, date string) string {
	data := fmt.Sprintf("%s|%s|%s", bookingID, tourID, date)
	h := hmac.New(sha256.New, receiptSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintReceipt renders a PDF receipt with an embedded QR for a paid
// booking. Owner only.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := loadOwnBooking(w, r, ps.ByName("bookingid"))
	if !ok {
		return
	}
	if booking.Status != models.BookingPaid {
		utils.RespondWithError(w, http.StatusConflict, "receipt is only available for paid bookings")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	if err := db.ToursCollection.FindOne(ctx, bson.M{"tourid": booking.TourID}).Decode(&tour); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch tour")
		return
	}

	qrPNG, err := qrcode.Encode(signReceipt(booking.BookingID, booking.TourID, booking.Date), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Tour Booking Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking: %s", booking.BookingID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Tour: %s", tour.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Location: %s", tour.Location))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s", booking.Date))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Group size: %d", booking.GroupSize))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Amount paid: $%.2f", booking.Amount))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Payment ref: %s", booking.PaymentID))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("receipt-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("receipt-qr", 80, pdf.GetY(), 50, 50, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=receipt-%s.pdf", booking.BookingID))
	if err := pdf.Output(w); err != nil {
		http.Error(w, "Failed to render PDF", http.StatusInternalServerError)
	}
}
