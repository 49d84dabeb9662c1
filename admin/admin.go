package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"voyago/db"
	"voyago/models"
	"voyago/roles"
	"voyago/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetDashboard returns the headline counters for the admin landing
// page.
func GetDashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tours, err := db.ToursCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	users, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	bookings, err := db.BookingsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	pending, err := db.BookingsCollection.CountDocuments(ctx, bson.M{"status": models.BookingPending})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"tours":           tours,
		"users":           users,
		"bookings":        bookings,
		"pendingBookings": pending,
	})
}

// ListUsers pages through users for the admin user manager.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cur, err := db.UserCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(100))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer cur.Close(ctx)

	var users []models.UserSummary
	if err := cur.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to read users")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"users": users})
}

// SetUserRole grants or revokes a role. This replaces the one-off
// bootstrap script that used to mirror an admin claim into the user
// document.
func SetUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	targetID := ps.ByName("id")

	var input struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Role == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "role is required")
		return
	}
	if !roles.IsValidRole(input.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, "unknown role")
		return
	}

	// An admin cannot demote themselves; that path locks everyone out.
	if targetID == utils.GetUserIDFromRequest(r) && input.Role != roles.RoleAdmin {
		utils.RespondWithError(w, http.StatusConflict, "cannot change your own role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": targetID},
		bson.M{"$set": bson.M{"role": input.Role, "updated_at": time.Now()}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.SendResponse(w, http.StatusOK, utils.M{"userid": targetID, "role": input.Role}, "Role updated", nil)
}
