// Package auth implements the session core of the Xerpia console client:
// login/logout/refresh orchestration, access-token decoding, and the
// observable session state consumed by guards and views.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/core/ports"
	"github.com/xerpia/erp-console/internal/metrics"
	"github.com/xerpia/erp-console/pkg/logger"
)

// Authenticator drives the session lifecycle. It is the only writer of the
// token store and the session state.
type Authenticator struct {
	httpClient *http.Client // anonymous client: auth endpoints never carry a bearer token
	baseURL    string
	store      ports.TokenStore
	state      *State
	log        zerolog.Logger
	now        func() time.Time
	onLogout   func()
}

// Option customises an Authenticator.
type Option func(*Authenticator)

// WithHTTPClient replaces the HTTP client used for the auth endpoints.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Authenticator) { a.httpClient = c }
}

// WithLogger sets the structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Authenticator) { a.log = log }
}

// WithClock overrides the time source used for expiry checks. For tests.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) { a.now = now }
}

// WithLogoutHook registers a callback invoked after every logout, used by
// the UI layer to navigate back to the login entry point.
func WithLogoutHook(fn func()) Option {
	return func(a *Authenticator) { a.onLogout = fn }
}

// New returns an Authenticator talking to the API at baseURL and persisting
// credentials in store. The session starts logged out; call Initialize to
// restore a persisted session.
func New(baseURL string, store ports.TokenStore, opts ...Option) *Authenticator {
	a := &Authenticator{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		store:      store,
		state:      NewState(),
		log:        zerolog.Nop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State exposes the observable session state, read-only by convention.
func (a *Authenticator) State() *State { return a.state }

// CurrentUser returns the logged-in user, or nil.
func (a *Authenticator) CurrentUser() *domain.User {
	return a.state.Current().User
}

// AccessToken returns the stored access token, or "" when logged out.
func (a *Authenticator) AccessToken() string {
	return a.store.AccessToken()
}

// Initialize restores the session from the token store at startup. The
// session becomes authenticated only when a token is present, unexpired,
// and a cached user exists; any partial or corrupt state collapses to a
// clean logged-out session.
func (a *Authenticator) Initialize() {
	token := a.store.AccessToken()
	user := a.store.CachedUser()

	if token != "" && user != nil {
		if claims, err := decodeToken(token); err == nil && !claims.Expired(a.now()) {
			a.state.set(Session{User: user, Authenticated: true})
			a.log.Debug().Str("username", user.Username).Msg("session restored from store")
			return
		}
	}
	a.Logout()
}

// Login sends credentials to POST /login, decodes the returned access token
// into a user identity, persists the credential and publishes the new
// session.
func (a *Authenticator) Login(ctx context.Context, creds domain.LoginRequest) (Session, error) {
	requestID := logger.NewRequestID()

	var loginResp domain.LoginResponse
	if err := a.postJSON(ctx, "/login", requestID, creds, &loginResp, true); err != nil {
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		return a.state.Current(), err
	}

	if loginResp.Token == "" {
		// Transport-level success without a token is a hard failure: no
		// session is established.
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		a.log.Error().Str("request_id", requestID).Msg("login response carried no token")
		return a.state.Current(), domain.NewAPIError(domain.ErrInvalidTokenPayload, http.StatusOK, nil)
	}

	claims, err := decodeToken(loginResp.Token)
	if err != nil {
		// An undecodable token would leave a half-authenticated session;
		// collapse to logged out instead.
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		a.log.Error().Err(err).Str("request_id", requestID).Msg("access token decode failed")
		a.Logout()
		return a.state.Current(), domain.NewAPIError(domain.ErrInvalidTokenPayload, http.StatusOK, err)
	}

	user := userFromClaims(claims)
	refreshToken := loginResp.RefreshToken
	if refreshToken == "" {
		// Servers that issue refresh tokens only via /refresh leave the
		// stored one untouched.
		refreshToken = a.store.RefreshToken()
	}
	cred := domain.StoredCredential{
		AccessToken:  loginResp.Token,
		RefreshToken: refreshToken,
		User:         user,
	}
	if err := a.store.Save(cred); err != nil {
		metrics.LoginTotal.WithLabelValues("failure").Inc()
		a.Logout()
		return a.state.Current(), fmt.Errorf("persist credential: %w", err)
	}

	session := Session{User: user, Authenticated: true}
	a.state.set(session)
	metrics.LoginTotal.WithLabelValues("success").Inc()
	a.log.Info().
		Str("request_id", requestID).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("login succeeded")
	return session, nil
}

// Logout clears the token store, resets the session and signals the UI
// layer. Safe to call from any state, any number of times.
func (a *Authenticator) Logout() {
	if err := a.store.Clear(); err != nil {
		// Best effort: a failed clear must not leave the in-memory session
		// authenticated.
		a.log.Warn().Err(err).Msg("token store clear failed")
	}
	a.state.set(Session{})
	if a.onLogout != nil {
		a.onLogout()
	}
}

// Refresh exchanges the stored refresh token for a new credential. Any
// failure, transport-level or an unsuccessful envelope alike, means the
// session can no longer be trusted and forces a logout.
func (a *Authenticator) Refresh(ctx context.Context) (Session, error) {
	requestID := logger.NewRequestID()

	refreshToken := a.store.RefreshToken()
	if refreshToken == "" {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		a.Logout()
		return a.state.Current(), domain.NewAPIError(domain.ErrRefreshFailed, 0, nil)
	}

	var env domain.Envelope[*domain.RefreshData]
	err := a.postJSON(ctx, "/refresh", requestID, domain.RefreshRequest{RefreshToken: refreshToken}, &env, false)
	if err != nil || !env.Success || env.Data == nil || env.Data.AccessToken == "" {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		a.log.Warn().Err(err).Str("request_id", requestID).Msg("token refresh failed")
		a.Logout()
		return a.state.Current(), domain.NewAPIError(domain.ErrRefreshFailed, 0, err)
	}

	user := env.Data.User
	if user == nil {
		if claims, decErr := decodeToken(env.Data.AccessToken); decErr == nil {
			user = userFromClaims(claims)
		}
	}
	if user == nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		a.log.Warn().Str("request_id", requestID).Msg("refresh response carried no usable identity")
		a.Logout()
		return a.state.Current(), domain.NewAPIError(domain.ErrRefreshFailed, 0, nil)
	}

	cred := domain.StoredCredential{
		AccessToken:  env.Data.AccessToken,
		RefreshToken: env.Data.RefreshToken,
		User:         user,
	}
	if err := a.store.Save(cred); err != nil {
		metrics.RefreshTotal.WithLabelValues("failure").Inc()
		a.Logout()
		return a.state.Current(), fmt.Errorf("persist credential: %w", err)
	}

	session := Session{User: user, Authenticated: true}
	a.state.set(session)
	metrics.RefreshTotal.WithLabelValues("success").Inc()
	a.log.Debug().Str("request_id", requestID).Msg("token refreshed")
	return session, nil
}

// RefreshToken implements ports.TokenSource for the HTTP transport: it runs
// a refresh and hands back the new access token.
func (a *Authenticator) RefreshToken(ctx context.Context) (string, error) {
	if _, err := a.Refresh(ctx); err != nil {
		return "", err
	}
	return a.store.AccessToken(), nil
}

// Register creates a new account through POST /register. Registration does
// not establish a session.
func (a *Authenticator) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	requestID := logger.NewRequestID()

	var env domain.Envelope[*domain.User]
	if err := a.postJSON(ctx, "/register", requestID, req, &env, true); err != nil {
		return nil, err
	}
	if !env.Success || env.Data == nil {
		return nil, domain.NewAPIError(domain.ErrBadRequest, http.StatusOK, fmt.Errorf("%s", env.Message))
	}
	return env.Data, nil
}

// IsAuthenticated reports whether a non-expired access token is present.
// Expiry is time-dependent, so this is recomputed on every call rather
// than cached.
func (a *Authenticator) IsAuthenticated() bool {
	claims, err := decodeToken(a.store.AccessToken())
	if err != nil {
		return false
	}
	return !claims.Expired(a.now())
}

// HasAnyRole reports whether the current user's role is one of roles.
func (a *Authenticator) HasAnyRole(roles ...domain.Role) bool {
	return a.state.Current().User.HasAnyRole(roles...)
}

// postJSON sends an anonymous POST to the given auth endpoint and decodes
// the response body into out. HTTP and transport failures are annotated
// with their user-facing error category exactly once, here.
func (a *Authenticator) postJSON(ctx context.Context, path, requestID string, body, out any, login bool) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		apiErr := domain.NewAPIError(domain.ErrNetworkUnreachable, 0, err)
		metrics.RequestErrorsTotal.WithLabelValues(string(apiErr.Category)).Inc()
		a.log.Error().Err(err).Str("request_id", requestID).Str("path", path).Msg("auth request failed")
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cat := domain.CategoryForStatus(resp.StatusCode, login)
		apiErr := domain.NewAPIError(cat, resp.StatusCode, nil)
		metrics.RequestErrorsTotal.WithLabelValues(string(cat)).Inc()
		a.log.Warn().
			Str("request_id", requestID).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("auth request rejected")
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
