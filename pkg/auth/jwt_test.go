package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "pearl@example.com")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken returned error: %v", err)
	}
	if claims.User.ID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.User.ID)
	}
	if claims.User.Email != "pearl@example.com" {
		t.Fatalf("expected email to round-trip, got %q", claims.User.Email)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatal("expected token expiry in the future")
	}
}

func TestTokenPayloadNestsUserObject(t *testing.T) {
	token, err := GenerateToken(42, "ann@example.com")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token segments, got %d", len(parts))
	}
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decoding payload: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshaling payload: %v", err)
	}

	user, ok := payload["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected a nested user object, got payload %v", payload)
	}
	if user["id"] != float64(42) {
		t.Fatalf("expected user.id 42, got %v", user["id"])
	}
	if user["email"] != "ann@example.com" {
		t.Fatalf("expected user.email to round-trip, got %v", user["email"])
	}
	if _, ok := payload["exp"]; !ok {
		t.Fatal("expected an exp claim in the payload")
	}
	if _, ok := payload["user_id"]; ok {
		t.Fatal("identity must not leak as a flat user_id claim")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	savedTTL := tokenTTL
	tokenTTL = -time.Minute
	token, err := GenerateToken(7, "old@example.com")
	tokenTTL = savedTTL
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	claims := Claims{
		User: TokenUser{ID: 9, Email: "mallory@example.com"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-secret"))
	if err != nil {
		t.Fatalf("signing forged token: %v", err)
	}

	if _, err := ValidateToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(1, "honest@example.com")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	tampered := token[:len(token)-4] + "AAAA"
	if tampered == token {
		tampered = token[:len(token)-4] + "BBBB"
	}

	if _, err := ValidateToken(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
