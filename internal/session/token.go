package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim out of an access token without verifying
// the signature. The client never holds the signing key; the server is the
// one that decides whether the token is actually good.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("token has no expiry claim")
	}
	return exp.Time, nil
}

// ExpiresSoon reports whether the token is inside the refresh window. An
// unreadable token counts as expiring, which pushes the caller toward a
// refresh instead of a doomed request.
func ExpiresSoon(token string, gap time.Duration) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return time.Until(exp) < gap
}
