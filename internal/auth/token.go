package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether token can no longer be used at now.
//
// The signature is not verified: the API does that. Only the exp claim is
// read, and the token counts as expired from the exp second onwards. A token
// without exp never expires here. A token that cannot be decoded is expired.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return true
	}
	if exp.IsZero() {
		return false
	}
	return !now.Before(exp)
}

// ExpiresAt returns the exp claim of token.
// ok is false if the token cannot be decoded. A zero time means no exp claim.
func ExpiresAt(token string) (exp time.Time, ok bool) {
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	nd, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, false
	}
	if nd == nil {
		return time.Time{}, true
	}
	return nd.Time, true
}
