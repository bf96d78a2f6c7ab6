package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspect decodes the claims of a JWT without verifying its signature.
// It returns false for opaque or malformed tokens. The result must only
// drive presentation decisions such as cookie lifetime or role hints, never
// authorization on its own.
func Inspect(tokenStr string) (Claims, bool) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return Claims{}, false
	}
	return claims, true
}

// ExpiresAt returns the exp claim of tokenStr, if any.
func ExpiresAt(tokenStr string) (time.Time, bool) {
	claims, ok := Inspect(tokenStr)
	if !ok || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// CookieMaxAge returns a function that shortens the cookie lifetime to the
// token's own remaining validity. Tokens without exp keep lifetime.
func CookieMaxAge(now func() time.Time) func(tokenStr string, lifetime time.Duration) time.Duration {
	if now == nil {
		now = time.Now
	}
	return func(tokenStr string, lifetime time.Duration) time.Duration {
		exp, ok := ExpiresAt(tokenStr)
		if !ok {
			return lifetime
		}
		remaining := exp.Sub(now())
		if remaining < lifetime {
			return remaining
		}
		return lifetime
	}
}
