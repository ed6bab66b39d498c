// Package tokenx inspects bearer tokens issued by the backend without
// verifying them. The client treats the token as an opaque credential; the
// only reason to look inside is to tell the user when their session will
// lapse. Verification is the backend's job.
package tokenx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrOpaque reports a token that is not a parseable JWT. Such tokens are
// still perfectly valid credentials; they just carry no readable claims.
var ErrOpaque = errors.New("tokenx: token is opaque")

// Claims are the subset of backend token claims the client cares about.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user, when the backend includes it
	Email string `json:"email,omitempty"`

	// Role of the authenticated user
	Role string `json:"role,omitempty"`
}

// Peek decodes the claims of token without signature verification.
// Returns ErrOpaque when token is not a structurally valid JWT.
func Peek(token string) (*Claims, error) {
	parser := jwt.NewParser()

	var claims Claims
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil, ErrOpaque
	}

	return &claims, nil
}

// ExpiresAt returns the expiry of token, if it is a JWT carrying one.
// The boolean is false for opaque tokens and JWTs without an exp claim.
func ExpiresAt(token string) (time.Time, bool) {
	claims, err := Peek(token)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether token carries an exp claim in the past. Opaque
// tokens are never reported expired; the backend decides their fate.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return now.After(exp)
}
