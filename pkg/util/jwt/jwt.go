package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The identity provider signs per-request session tokens with a shared
// HS256 secret; the subject claim carries the external auth id. This
// package verifies those tokens and, for dev tooling and tests, can mint
// them as well.

var secret []byte

// Init sets the shared verification secret. Call once at startup.
func Init(s string) {
	secret = []byte(s)
}

// Claims are the session-token claims asserted per request.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateSessionToken mints a session token for the given external auth id.
// Used by tests and local tooling; in production the identity provider
// issues these.
func GenerateSessionToken(externalID string, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "unitcom",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseSessionToken verifies a session token and returns the external auth id.
func ParseSessionToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", fmt.Errorf("invalid session token")
	}
	return claims.Subject, nil
}
