package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// stubTokens is a controllable TokenSource.
type stubTokens struct {
	mu           sync.Mutex
	token        string
	next         string
	refreshErr   error
	refreshDelay time.Duration
	refreshCalls int32
}

func (s *stubTokens) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *stubTokens) RefreshToken(ctx context.Context) (string, error) {
	atomic.AddInt32(&s.refreshCalls, 1)
	if s.refreshDelay > 0 {
		time.Sleep(s.refreshDelay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshErr != nil {
		s.token = "" // refresh failure forces logout
		return "", s.refreshErr
	}
	s.token = s.next
	return s.token, nil
}

func (s *stubTokens) calls() int32 { return atomic.LoadInt32(&s.refreshCalls) }

func newClient(tokens *stubTokens) *http.Client {
	return &http.Client{Transport: New(nil, tokens, zerolog.Nop())}
}

func TestBearerAttached(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("Authorization = %q, want Bearer tok-1", got)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := newClient(&stubTokens{token: "tok-1"})
	resp, err := client.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
}

func TestAuthEndpointsBypassProtocol(t *testing.T) {
	for _, path := range []string{"/login", "/register", "/refresh"} {
		t.Run(path, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "" {
					t.Fatalf("auth endpoint received Authorization header %q", got)
				}
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer srv.Close()

			tokens := &stubTokens{token: "tok-1", next: "tok-2"}
			client := newClient(tokens)

			resp, err := client.Post(srv.URL+"/api"+path, "application/json", strings.NewReader("{}"))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			resp.Body.Close()

			// The 401 propagates untouched and never triggers a refresh.
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", resp.StatusCode)
			}
			if tokens.calls() != 0 {
				t.Fatalf("refresh called %d times for auth endpoint", tokens.calls())
			}
		})
	}
}

func TestRetryAfterRefresh(t *testing.T) {
	var firstCalls, retryCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer fresh":
			atomic.AddInt32(&retryCalls, 1)
			_, _ = io.WriteString(w, `{"success":true,"data":[]}`)
		default:
			atomic.AddInt32(&firstCalls, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "stale", next: "fresh"}
	client := newClient(tokens)

	resp, err := client.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `"success":true`) {
		t.Fatalf("unexpected body %q", body)
	}
	if tokens.calls() != 1 {
		t.Fatalf("refresh called %d times, want 1", tokens.calls())
	}
	if atomic.LoadInt32(&firstCalls) != 1 || atomic.LoadInt32(&retryCalls) != 1 {
		t.Fatalf("server saw %d stale and %d fresh calls, want 1 and 1",
			firstCalls, retryCalls)
	}
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	const n = 8

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer fresh" {
			_, _ = io.WriteString(w, "ok")
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "stale", next: "fresh", refreshDelay: 50 * time.Millisecond}
	client := newClient(tokens)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(srv.URL + "/products")
			if err != nil {
				errs <- err
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				errs <- errors.New("request not replayed with fresh token")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent request failed: %v", err)
	}

	if got := tokens.calls(); got != 1 {
		t.Fatalf("refresh endpoint called %d times for %d concurrent 401s, want 1", got, n)
	}
}

func TestLate401ReusesFreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "Bearer fresh" {
			_, _ = io.WriteString(w, "ok")
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "stale", next: "fresh"}
	client := newClient(tokens)

	// First request refreshes.
	resp, err := client.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	resp.Body.Close()

	// Simulate a request that was sent with the stale token and comes back
	// 401 after the refresh completed: the transport must reuse the fresh
	// token instead of refreshing again.
	tripper := New(nil, tokens, zerolog.Nop())
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/products", nil)
	stale := withBearer(req, "stale")
	resp2, err := tripper.base.RoundTrip(stale)
	if err != nil {
		t.Fatalf("stale round trip failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected stale token to 401")
	}

	resp3, err := client.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("third request failed: %v", err)
	}
	resp3.Body.Close()

	if got := tokens.calls(); got != 1 {
		t.Fatalf("refresh called %d times, want exactly 1", got)
	}
}

func TestRefreshFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "stale", refreshErr: errors.New("refresh rejected")}
	client := newClient(tokens)

	_, err := client.Get(srv.URL + "/products")
	if err == nil {
		t.Fatalf("expected error when refresh fails")
	}
	if !strings.Contains(err.Error(), "refresh rejected") {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.AccessToken() != "" {
		t.Fatalf("token source should have dropped the session")
	}
}

func Test401WithoutTokenPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("unexpected Authorization header %q", got)
		}
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tokens := &stubTokens{}
	client := newClient(tokens)

	resp, err := client.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if tokens.calls() != 0 {
		t.Fatalf("token-less 401 must not trigger a refresh")
	}
}

func TestRequestBodyIsReplayed(t *testing.T) {
	const payload = `{"name":"Widget"}`

	var bodies []string
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tokens := &stubTokens{token: "stale", next: "fresh"}
	client := newClient(tokens)

	resp, err := client.Post(srv.URL+"/products", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if len(bodies) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(bodies))
	}
	for i, b := range bodies {
		if b != payload {
			t.Fatalf("request %d body = %q, want %q", i, b, payload)
		}
	}
}
