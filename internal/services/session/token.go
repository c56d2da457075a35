package session

import (
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether a stored bearer token is a JWT whose exp
// claim is already in the past. The signature is deliberately not verified:
// the backend owns token validation, this only avoids a doomed round-trip
// at rehydration time. Tokens that are not JWTs, or carry no exp claim,
// count as not expired and go to the backend for the real verdict.
func tokenExpired(raw string, now time.Time) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return false
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Time.Before(now)
}
