package ports

import (
	"context"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// Authorizer exposes the read side of the session used by navigation
// guards. Both methods are pure state reads and perform no I/O.
type Authorizer interface {
	// IsAuthenticated reports whether a non-expired access token is
	// present. Re-evaluated on every call since expiry is time-dependent.
	IsAuthenticated() bool

	// HasAnyRole reports whether the current user's role is in roles.
	// Always false when logged out.
	HasAnyRole(roles ...domain.Role) bool
}

// TokenSource is consumed by the HTTP transport to attach bearer tokens
// and to coordinate token refresh after a 401.
type TokenSource interface {
	// AccessToken returns the current access token, or "" when logged out.
	AccessToken() string

	// RefreshToken exchanges the stored refresh token for a new access
	// token. On failure the implementation has already forced a logout
	// before returning.
	RefreshToken(ctx context.Context) (string, error)
}
