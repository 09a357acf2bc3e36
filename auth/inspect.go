package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsJWTLike reports whether a token has JWT structure. The backend's
// tokens are opaque to the session layer; inspection is diagnostic only.
func IsJWTLike(token string) bool {
	t := strings.TrimSpace(token)
	if t == "" {
		return false
	}
	// JWTs have 3 base64url segments separated by '.'.
	return strings.Count(t, ".") >= 2
}

// Decode parses a token's claims without verifying the signature. The
// server is the only party that can verify; clients use this to display
// identity hints and expiry, never to make trust decisions.
func Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, fmt.Errorf("auth: cannot decode token: %w", err)
	}
	return claims, nil
}

// Expired reports whether a decodable token carries an exp claim in the
// past. Opaque or claim-less tokens report false; only the backend can
// judge those.
func Expired(token string) bool {
	claims, err := Decode(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
