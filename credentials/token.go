package credentials

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reports the expiry claim of a JWT access token without verifying
// its signature — verification is the remote service's job; the client only
// uses the claim to refresh proactively. The second return is false when the
// token is not a JWT or carries no expiry, in which case the token is assumed
// live until the service rejects it.
func ExpiresAt(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ExpiresWithin reports whether the token's expiry claim falls inside the
// given window from now. Tokens with unknown expiry report false.
func ExpiresWithin(token string, window time.Duration, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return exp.Before(now.Add(window))
}
