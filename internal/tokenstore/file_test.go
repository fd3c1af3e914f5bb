package tokenstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xerpia/erp-console/internal/core/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "credentials.json"))
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	cred := domain.StoredCredential{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		User: &domain.User{
			ID:       "u1",
			Username: "alice",
			Role:     domain.RoleManager,
			IsActive: true,
		},
	}
	if err := store.Save(cred); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if got := store.AccessToken(); got != "access-abc" {
		t.Fatalf("AccessToken = %q, want access-abc", got)
	}
	if got := store.RefreshToken(); got != "refresh-xyz" {
		t.Fatalf("RefreshToken = %q, want refresh-xyz", got)
	}
	user := store.CachedUser()
	if user == nil {
		t.Fatalf("CachedUser returned nil")
	}
	if user.Username != "alice" || user.Role != domain.RoleManager {
		t.Fatalf("unexpected cached user: %+v", user)
	}
}

func TestFileStore_MissingFileReadsEmpty(t *testing.T) {
	store := newTestStore(t)

	if got := store.AccessToken(); got != "" {
		t.Fatalf("AccessToken on missing file = %q, want empty", got)
	}
	if got := store.RefreshToken(); got != "" {
		t.Fatalf("RefreshToken on missing file = %q, want empty", got)
	}
	if user := store.CachedUser(); user != nil {
		t.Fatalf("CachedUser on missing file = %+v, want nil", user)
	}
}

func TestFileStore_MalformedFileReadsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write malformed file: %v", err)
	}
	store := NewFileStore(path)

	if got := store.AccessToken(); got != "" {
		t.Fatalf("AccessToken on malformed file = %q, want empty", got)
	}
	if user := store.CachedUser(); user != nil {
		t.Fatalf("CachedUser on malformed file = %+v, want nil", user)
	}
}

func TestFileStore_MalformedUserReadsNil(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.json")
	blob := `{"accessToken":"tok","refreshToken":"ref","user":"garbage"}`
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	store := NewFileStore(path)

	if got := store.AccessToken(); got != "tok" {
		t.Fatalf("AccessToken = %q, want tok", got)
	}
	if user := store.CachedUser(); user != nil {
		t.Fatalf("CachedUser on malformed user = %+v, want nil", user)
	}
}

func TestFileStore_ClearRemovesEverything(t *testing.T) {
	store := newTestStore(t)

	cred := domain.StoredCredential{
		AccessToken:  "tok",
		RefreshToken: "ref",
		User:         &domain.User{ID: "u1", Username: "alice", Role: domain.RoleAdmin},
	}
	if err := store.Save(cred); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	if got := store.AccessToken(); got != "" {
		t.Fatalf("AccessToken after Clear = %q, want empty", got)
	}
	if got := store.RefreshToken(); got != "" {
		t.Fatalf("RefreshToken after Clear = %q, want empty", got)
	}
	if user := store.CachedUser(); user != nil {
		t.Fatalf("CachedUser after Clear = %+v, want nil", user)
	}

	// Clearing an already-empty store must not fail.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
}
