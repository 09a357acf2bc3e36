// Package auth provides token introspection helpers for the mechshop SDK.
package auth

import "github.com/golang-jwt/jwt/v5"

// Claims encodes the JWT claims the backend embeds into bearer tokens.
//
// This is a DTO matching the server's token contract; the SDK keeps it
// local rather than sharing types with the backend.
type Claims struct {
	UserID   string `json:"sub,omitempty"`
	Email    string `json:"email,omitempty"`
	UserType string `json:"user_type,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`

	jwt.RegisteredClaims
}
