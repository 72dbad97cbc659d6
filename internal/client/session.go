package client

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session is the authenticated identity handed to the Client. It is built
// once from the login response and passed around explicitly; nothing in this
// package reads tokens from ambient storage.
type Session struct {
	Token    string
	Role     string
	Username string
}

// ExpiresSoon reports whether the session token expires within the given
// window. The claims are read without signature verification since the
// consumer side never holds the server secret; a token that fails to parse
// is reported as expiring so the caller re-authenticates.
func (s *Session) ExpiresSoon(within time.Duration) bool {
	if s == nil || s.Token == "" {
		return true
	}
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < within
}
