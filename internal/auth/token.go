package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/xerpia/erp-console/internal/core/domain"
)

var errEmptyToken = errors.New("empty access token")

// decodeToken extracts the claims of an access token without verifying its
// signature. The client never holds the signing secret; the server is the
// sole authority on token validity, the client only reads identity and
// expiry out of the payload.
func decodeToken(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, errEmptyToken
	}
	claims := &domain.Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// userFromClaims builds the session user from a decoded token. Missing
// optional fields default to empty strings and a missing role defaults to
// employee; a token is rejected only when it cannot be decoded at all.
func userFromClaims(claims *domain.Claims) *domain.User {
	role := claims.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	return &domain.User{
		ID:        claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Role:      role,
		IsActive:  true,
	}
}
