package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCategory classifies a failed API interaction for display and metrics.
type ErrorCategory string

const (
	ErrNetworkUnreachable  ErrorCategory = "network_unreachable"
	ErrInvalidCredentials  ErrorCategory = "invalid_credentials"
	ErrForbidden           ErrorCategory = "forbidden"
	ErrNotFound            ErrorCategory = "not_found"
	ErrServerError         ErrorCategory = "server_error"
	ErrInvalidTokenPayload ErrorCategory = "invalid_token"
	ErrRefreshFailed       ErrorCategory = "refresh_failed"
	ErrBadRequest          ErrorCategory = "bad_request"
)

// userMessages maps each category to its user-facing message.
var userMessages = map[ErrorCategory]string{
	ErrNetworkUnreachable:  "cannot connect to server",
	ErrInvalidCredentials:  "invalid username or password",
	ErrForbidden:           "access denied",
	ErrNotFound:            "not found",
	ErrServerError:         "server error, try again later",
	ErrInvalidTokenPayload: "received an invalid session token",
	ErrRefreshFailed:       "session expired, please log in again",
	ErrBadRequest:          "invalid request",
}

// UserMessage returns the display string for the category.
func (c ErrorCategory) UserMessage() string {
	if msg, ok := userMessages[c]; ok {
		return msg
	}
	return "unexpected error"
}

// APIError is the single error type crossing the HTTP boundary. It is
// annotated once, at the transport/client layer, and re-raised to callers
// which are responsible for display.
type APIError struct {
	Category ErrorCategory
	Status   int    // HTTP status, 0 for transport-level failures
	Message  string // user-facing message
	Err      error  // underlying cause, may be nil
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Category, e.Err)
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Category, e.Status)
	}
	return string(e.Category)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError builds an APIError with the category's standard user message.
func NewAPIError(cat ErrorCategory, status int, cause error) *APIError {
	return &APIError{Category: cat, Status: status, Message: cat.UserMessage(), Err: cause}
}

// CategoryForStatus maps an HTTP status to an error category. login=true
// applies the login-specific reading of 401 (bad credentials rather than an
// expired session).
func CategoryForStatus(status int, login bool) ErrorCategory {
	switch {
	case status == http.StatusUnauthorized && login:
		return ErrInvalidCredentials
	case status == http.StatusUnauthorized:
		return ErrRefreshFailed
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServerError
	default:
		return ErrBadRequest
	}
}

// ErrorCategoryOf extracts the category from err, or empty when err is not
// an APIError.
func ErrorCategoryOf(err error) ErrorCategory {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Category
	}
	return ""
}

// Sentinel errors used by the mock API's in-memory stores.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrBadCredentials   = errors.New("invalid credentials")
	ErrProductNotFound  = errors.New("product not found")
	ErrProviderNotFound = errors.New("provider not found")
	ErrEntryNotFound    = errors.New("accounting entry not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrEntryUnbalanced  = errors.New("entry debits and credits do not balance")
)
