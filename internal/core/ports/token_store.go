package ports

import "github.com/xerpia/erp-console/internal/core/domain"

// TokenStore persists the access token, refresh token and cached user
// profile across process restarts. Implementations never return an error
// for "not found"; absent or malformed entries read back as zero values.
// Only the Authenticator writes to the store.
type TokenStore interface {
	// Save replaces the complete stored credential.
	Save(cred domain.StoredCredential) error

	// AccessToken returns the stored access token, or "" when absent.
	AccessToken() string

	// RefreshToken returns the stored refresh token, or "" when absent.
	RefreshToken() string

	// CachedUser returns the stored user profile, or nil when absent
	// or undecodable.
	CachedUser() *domain.User

	// Clear removes all three entries. After Clear returns no partial
	// state is observable.
	Clear() error
}
