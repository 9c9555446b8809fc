package auth

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpiredToken is returned when a token's expiry has passed.
	ErrExpiredToken = errors.New("token expired")
	// ErrInvalidToken is returned for malformed tokens or bad signatures.
	ErrInvalidToken = errors.New("invalid token")
)

var (
	jwtSecret = []byte(getEnv("JWT_SECRET", "dev-secret-change-me"))
	tokenTTL  = time.Duration(getEnvInt("JWT_EXP_SECONDS", 3600)) * time.Second
)

// Configure overrides the signing secret and token TTL. Called once at
// startup, before any token is issued or validated.
func Configure(secret string, ttl time.Duration) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if ttl > 0 {
		tokenTTL = ttl
	}
}

// TokenUser is the identity object nested in a token payload.
type TokenUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// Claims carries the identity embedded in an access token. The identity
// lives under a "user" key so clients decode `{user: {id, email}, exp}`.
type Claims struct {
	User TokenUser `json:"user"`
	jwt.RegisteredClaims
}

// GenerateToken issues a signed HS256 token carrying the user's identity,
// expiring tokenTTL from now.
func GenerateToken(userID uint, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		User: TokenUser{ID: userID, Email: email},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ValidateToken verifies the signature and expiry of a token and returns the
// embedded claims. Expired tokens map to ErrExpiredToken, everything else that
// fails verification to ErrInvalidToken.
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
