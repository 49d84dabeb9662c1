package middleware

import (
	"testing"
	"time"

	"voyago/globals"

	"github.com/golang-jwt/jwt/v5"
)

func signTestToken(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestValidateJWTRoundTrip(t *testing.T) {
	token := signTestToken(t, &Claims{
		Username: "mira",
		UserID:   "u123",
		Role:     "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})

	claims, err := ValidateJWT("Bearer " + token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.UserID != "u123" || claims.Role != "user" {
		t.Errorf("claims = %+v, want userID u123 role user", claims)
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	token := signTestToken(t, &Claims{
		UserID: "u123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	if _, err := ValidateJWT("Bearer " + token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateJWTRejectsMissingBearerPrefix(t *testing.T) {
	if _, err := ValidateJWT("not-a-bearer-token"); err == nil {
		t.Fatal("expected bad header format to be rejected")
	}
}
