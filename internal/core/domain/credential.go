package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StoredCredential is the complete persisted session record. Login and
// refresh always produce a full replacement, so writes are last-writer-wins
// and no merge logic exists anywhere.
type StoredCredential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// Claims is the decoded payload of a Xerpia access token.
type Claims struct {
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ExpiresAtTime returns the token expiry, or the zero time when the claim
// is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Expired reports whether the token is expired at the given instant.
// A token without an exp claim is treated as expired.
func (c *Claims) Expired(now time.Time) bool {
	exp := c.ExpiresAtTime()
	return exp.IsZero() || !now.Before(exp)
}

// LoginResponse is the body of POST /login. RefreshToken is optional; a
// server that issues one alongside the access token enables the silent
// refresh flow without a separate exchange.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// RefreshRequest is the body sent to POST /refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshData is the payload returned by a successful POST /refresh.
type RefreshData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}
