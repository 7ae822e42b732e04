package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the HBnB API puts in its access tokens.
type Claims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// PeekClaims decodes a JWT without verifying it. The signing key belongs to the
// API, so the result is only good for logging; it never grants anything.
func PeekClaims(token string) (*Claims, bool) {
	if token == "" {
		return nil, false
	}
	c := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil, false
	}
	return c, true
}

// Subject returns the token's "sub" claim, or "" when it cannot be read.
func Subject(token string) string {
	c, ok := PeekClaims(token)
	if !ok {
		return ""
	}
	return c.Subject
}
