// Package transport implements the authenticating http.RoundTripper: it
// attaches bearer tokens to outbound requests and coordinates the 401
// refresh protocol so that at most one refresh call is in flight at a time.
package transport

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/xerpia/erp-console/internal/core/ports"
	"github.com/xerpia/erp-console/internal/metrics"
)

// authPaths are served anonymously; attaching a bearer token here would
// create a circular dependency between authentication and the thing being
// authenticated, and their 401s mean "bad credentials", not "stale token".
var authPaths = []string{"/login", "/register", "/refresh"}

// Authenticating is an http.RoundTripper that injects
// "Authorization: Bearer <token>" and retries a request once after a
// coordinated token refresh when it fails with 401.
type Authenticating struct {
	base   http.RoundTripper
	tokens ports.TokenSource
	group  singleflight.Group
	log    zerolog.Logger
}

// New wraps base (http.DefaultTransport when nil) with bearer injection and
// the 401 refresh protocol backed by tokens.
func New(base http.RoundTripper, tokens ports.TokenSource, log zerolog.Logger) *Authenticating {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authenticating{base: base, tokens: tokens, log: log}
}

// RoundTrip implements http.RoundTripper.
func (t *Authenticating) RoundTrip(req *http.Request) (*http.Response, error) {
	if isAuthEndpoint(req.URL.Path) {
		// Anonymous by contract; errors propagate unmodified.
		return t.base.RoundTrip(req)
	}

	token := t.tokens.AccessToken()
	resp, err := t.base.RoundTrip(withBearer(req, token))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || token == "" {
		return resp, nil
	}

	// A 401 on a request that carried a token means the token went stale.
	// All concurrent 401s funnel into one refresh call; every waiter gets
	// the token produced by that single call and replays exactly once.
	resp.Body.Close()

	fresh, refreshErr, _ := t.group.Do("refresh", func() (any, error) {
		// A refresh that completed after this request was sent already
		// produced a newer token; reuse it instead of refreshing again.
		if current := t.tokens.AccessToken(); current != "" && current != token {
			return current, nil
		}
		return t.tokens.RefreshToken(req.Context())
	})
	if refreshErr != nil {
		// The token source has already forced a logout.
		t.log.Warn().Err(refreshErr).Str("path", req.URL.Path).Msg("refresh after 401 failed")
		return nil, refreshErr
	}

	retry, err := rewindRequest(req)
	if err != nil {
		return nil, err
	}
	metrics.RequestRetriesTotal.Inc()
	t.log.Debug().Str("path", req.URL.Path).Msg("replaying request with refreshed token")
	return t.base.RoundTrip(withBearer(retry, fresh.(string)))
}

// withBearer returns a clone of req carrying the bearer token. The original
// request is never mutated, per the RoundTripper contract.
func withBearer(req *http.Request, token string) *http.Request {
	clone := req.Clone(req.Context())
	if token != "" {
		clone.Header.Set("Authorization", "Bearer "+token)
	}
	return clone
}

// rewindRequest rebuilds req with a fresh body so it can be sent again.
func rewindRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		clone.Body = body
	}
	return clone, nil
}

func isAuthEndpoint(path string) bool {
	for _, p := range authPaths {
		if strings.HasSuffix(path, p) {
			return true
		}
	}
	return false
}
