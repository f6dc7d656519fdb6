// Package security inspects the bearer token handed out by the backend. The
// console never holds the signing key, so claims are read without verifying
// the signature and are only used to skip a doomed round trip.
package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the registered claims the console cares about.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
	HasExpiry bool
}

// InspectToken parses token as a JWT without verifying it. ok is false for
// opaque tokens.
func InspectToken(token string) (TokenClaims, bool) {
	if token == "" {
		return TokenClaims{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return TokenClaims{}, false
	}

	out := TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
		out.HasExpiry = true
	}
	return out, true
}

// TokenExpiry reports the exp claim of a JWT. ok is false when the token is
// opaque or carries no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims, ok := InspectToken(token)
	if !ok || !claims.HasExpiry {
		return time.Time{}, false
	}
	return claims.ExpiresAt, true
}

// Expired reports whether token is a JWT whose expiry is at or before now.
func Expired(token string, now time.Time) bool {
	exp, ok := TokenExpiry(token)
	return ok && !exp.After(now)
}
