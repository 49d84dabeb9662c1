package settings

import (
	"context"
	"encoding/json"
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

// The admin settings live in one global document, read and written
// wholesale.
var globalFilter = bson.M{"_id": "global"}

// GetSettings returns the global settings document, or the defaults
// when it has never been written.
func GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var settings models.AdminSettings
	err := db.SettingsCollection.FindOne(ctx, globalFilter).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithJSON(w, http.StatusOK, models.DefaultAdminSettings())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch settings")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings replaces the global document with the submitted one.
func UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var settings models.AdminSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if settings.Booking.MaxGroupSize < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "booking.maxGroupSize must be at least 1")
		return
	}
	if settings.Booking.MinAdvanceBooking < 0 || settings.Booking.CancellationPeriod < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "booking windows must not be negative")
		return
	}
	if settings.Security.SessionTimeout < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "security.sessionTimeout must be at least 1 minute")
		return
	}

	settings.UpdatedAt = time.Now()
	settings.UpdatedBy = utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := db.SettingsCollection.ReplaceOne(ctx, globalFilter, settings,
		options.Replace().SetUpsert(true))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	utils.SendResponse(w, http.StatusOK, settings, "Settings saved", nil)
}
