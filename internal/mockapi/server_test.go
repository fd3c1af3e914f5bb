package mockapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/xerpia/erp-console/internal/api"
	"github.com/xerpia/erp-console/internal/auth"
	"github.com/xerpia/erp-console/internal/core/domain"
	"github.com/xerpia/erp-console/internal/mockapi"
	"github.com/xerpia/erp-console/internal/tokenstore"
	"github.com/xerpia/erp-console/internal/transport"
)

const testSecret = "test-secret"

// stack wires the full client stack against an in-process mock server.
type stack struct {
	srv    *httptest.Server
	store  *tokenstore.FileStore
	auth   *auth.Authenticator
	client *api.Client
}

func newStack(t *testing.T) *stack {
	t.Helper()

	e, _ := mockapi.NewServer(mockapi.Config{JWTSecret: testSecret}, zerolog.Nop())
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	store := tokenstore.NewFileStore(t.TempDir() + "/credentials.json")
	authenticator := auth.New(srv.URL+"/api", store)

	httpClient := &http.Client{
		Transport: transport.New(nil, authenticator, zerolog.Nop()),
	}
	client := api.NewClient(srv.URL+"/api", httpClient, zerolog.Nop())

	return &stack{srv: srv, store: store, auth: authenticator, client: client}
}

// expiredToken signs an access token that is already past its expiry.
func expiredToken(t *testing.T, user *domain.User) string {
	t.Helper()
	claims := domain.Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestLoginEstablishesSessionAndPersists(t *testing.T) {
	s := newStack(t)

	session, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !session.Authenticated || session.User.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", session)
	}
	if s.store.AccessToken() == "" || s.store.RefreshToken() == "" {
		t.Fatalf("credential not persisted")
	}

	// The persisted state survives a "restart": a fresh authenticator over
	// the same store restores the session.
	restarted := auth.New(s.srv.URL+"/api", s.store)
	restarted.Initialize()
	if !restarted.State().Current().Authenticated {
		t.Fatalf("session not restored from store")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s := newStack(t)

	_, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	if got := domain.ErrorCategoryOf(err); got != domain.ErrInvalidCredentials {
		t.Fatalf("error category = %q, want %q", got, domain.ErrInvalidCredentials)
	}
}

func TestExpiredTokenIsRefreshedTransparently(t *testing.T) {
	s := newStack(t)

	session, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Swap in an expired access token while keeping the valid refresh token.
	stale := expiredToken(t, session.User)
	if err := s.store.Save(domain.StoredCredential{
		AccessToken:  stale,
		RefreshToken: s.store.RefreshToken(),
		User:         session.User,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// The CRUD call gets a 401, triggers one refresh, and completes with
	// data from the replayed request.
	products, err := s.client.Products().List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(products) == 0 {
		t.Fatalf("expected seeded products")
	}
	if s.store.AccessToken() == stale {
		t.Fatalf("access token was not rotated")
	}
	if !s.auth.State().Current().Authenticated {
		t.Fatalf("session must stay authenticated after silent refresh")
	}
}

func TestInvalidRefreshTokenEndsSession(t *testing.T) {
	s := newStack(t)

	session, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "123456",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := s.store.Save(domain.StoredCredential{
		AccessToken:  expiredToken(t, session.User),
		RefreshToken: "bogus",
		User:         session.User,
	}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	_, err = s.client.Products().List(context.Background(), nil)
	if err == nil {
		t.Fatalf("expected failure when refresh is rejected")
	}
	if s.auth.State().Current().Authenticated {
		t.Fatalf("session must end after failed refresh")
	}
	if s.store.AccessToken() != "" || s.store.RefreshToken() != "" {
		t.Fatalf("store must be cleared after failed refresh")
	}
}

func TestRBACForbidsEmployeeWrites(t *testing.T) {
	s := newStack(t)

	if _, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "employee",
		Password: "123456",
	}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	// Reads are open to any authenticated role.
	if _, err := s.client.Products().List(context.Background(), nil); err != nil {
		t.Fatalf("employee read failed: %v", err)
	}

	// Writes require admin or manager.
	_, err := s.client.Products().Create(context.Background(), domain.CreateProductRequest{
		Name:       "Gasket",
		SKU:        "G-900",
		Price:      3,
		Cost:       1,
		Stock:      10,
		MinStock:   2,
		CategoryID: "cat_1",
	})
	if got := domain.ErrorCategoryOf(err); got != domain.ErrForbidden {
		t.Fatalf("error category = %q, want %q", got, domain.ErrForbidden)
	}

	// User administration requires admin.
	_, err = s.client.Users().List(context.Background(), nil)
	if got := domain.ErrorCategoryOf(err); got != domain.ErrForbidden {
		t.Fatalf("error category = %q, want %q", got, domain.ErrForbidden)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	s := newStack(t)

	user, err := s.auth.Register(context.Background(), domain.RegisterRequest{
		Username: "carla",
		Password: "hunter22",
		Email:    "carla@example.com",
		Role:     domain.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" || user.Role != domain.RoleViewer {
		t.Fatalf("unexpected registered user: %+v", user)
	}

	session, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "carla",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.User.Role != domain.RoleViewer {
		t.Fatalf("role = %q, want viewer", session.User.Role)
	}
}

func TestAccountingEntryLifecycle(t *testing.T) {
	s := newStack(t)

	if _, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "admin",
		Password: "123456",
	}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	accounts, err := s.client.Accounting().Accounts(context.Background())
	if err != nil {
		t.Fatalf("Accounts returned error: %v", err)
	}
	if len(accounts) < 2 {
		t.Fatalf("expected seeded chart of accounts, got %d", len(accounts))
	}
	cash, other := accounts[0], accounts[len(accounts)-1]

	// An unbalanced entry must be rejected.
	_, err = s.client.Accounting().CreateEntry(context.Background(), domain.CreateEntryRequest{
		Date:        time.Now(),
		Description: "lopsided",
		Entries: []domain.EntryDetail{
			{AccountID: cash.ID, Debit: 100},
			{AccountID: other.ID, Credit: 50},
		},
	})
	if err == nil {
		t.Fatalf("expected unbalanced entry to be rejected")
	}

	entry, err := s.client.Accounting().CreateEntry(context.Background(), domain.CreateEntryRequest{
		Date:        time.Now(),
		Description: "cash sale",
		Entries: []domain.EntryDetail{
			{AccountID: cash.ID, Debit: 100},
			{AccountID: other.ID, Credit: 100},
		},
	})
	if err != nil {
		t.Fatalf("CreateEntry returned error: %v", err)
	}
	if entry.IsPosted {
		t.Fatalf("new entry must start unposted")
	}

	posted, err := s.client.Accounting().PostEntry(context.Background(), entry.ID)
	if err != nil {
		t.Fatalf("PostEntry returned error: %v", err)
	}
	if !posted.IsPosted {
		t.Fatalf("entry not marked posted")
	}

	tb, err := s.client.Accounting().TrialBalance(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("TrialBalance returned error: %v", err)
	}
	if tb.TotalDebit != 100 || tb.TotalCredit != 100 {
		t.Fatalf("trial balance totals = %v/%v, want 100/100", tb.TotalDebit, tb.TotalCredit)
	}
}

func TestProfileReflectsCaller(t *testing.T) {
	s := newStack(t)

	if _, err := s.auth.Login(context.Background(), domain.LoginRequest{
		Username: "manager",
		Password: "123456",
	}); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	profile, err := s.client.Users().Profile(context.Background())
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if profile.Username != "manager" || profile.Role != domain.RoleManager {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}
