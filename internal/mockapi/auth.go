package mockapi

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// authHandler serves the anonymous auth endpoints: login, refresh, register.
type authHandler struct {
	store      *Store
	jwtSecret  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// Login authenticates a user and returns a signed access token plus an
// opaque refresh token.
func (h *authHandler) Login(c echo.Context) error {
	var req domain.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.Authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.signToken(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.LoginResponse{
		Token:        token,
		RefreshToken: h.store.IssueRefreshToken(user.ID, h.refreshTTL),
	})
}

// Refresh exchanges a refresh token for a rotated credential pair.
func (h *authHandler) Refresh(c echo.Context) error {
	var req domain.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.store.RedeemRefreshToken(req.RefreshToken)
	if err != nil {
		// The envelope carries success=false either way; the status makes
		// the rejection visible to plain HTTP clients too.
		return c.JSON(http.StatusUnauthorized, domain.Envelope[any]{
			Success:    false,
			Message:    "invalid refresh token",
			StatusCode: http.StatusUnauthorized,
		})
	}

	token, err := h.signToken(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, domain.Envelope[domain.RefreshData]{
		Success: true,
		Data: domain.RefreshData{
			AccessToken:  token,
			RefreshToken: h.store.IssueRefreshToken(user.ID, h.refreshTTL),
			User:         user,
		},
	})
}

// Register creates a new user account.
func (h *authHandler) Register(c echo.Context) error {
	var req domain.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.store.CreateUser(req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, domain.Envelope[*domain.User]{
		Success: true,
		Data:    user,
	})
}

// signToken mints an HS256 access token carrying the user identity.
func (h *authHandler) signToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := domain.Claims{
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.accessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}
