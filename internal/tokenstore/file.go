// Package tokenstore persists the session credential (access token,
// refresh token, cached user profile) across process restarts.
//
// Missing or malformed entries are treated as absent, never as errors;
// a corrupt store simply reads back empty and the caller falls through
// to its logged-out path.
package tokenstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/xerpia/erp-console/internal/core/domain"
)

// storedFile is the on-disk layout: three named entries in one JSON document.
type storedFile struct {
	AccessToken  string          `json:"accessToken,omitempty"`
	RefreshToken string          `json:"refreshToken,omitempty"`
	User         json.RawMessage `json:"user,omitempty"`
}

// FileStore keeps the credential in a mode-0600 JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. The parent
// directory is created on the first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save replaces the stored credential. The file is written to a temp name
// and renamed into place so readers never observe a partial record.
func (s *FileStore) Save(cred domain.StoredCredential) error {
	var rawUser json.RawMessage
	if cred.User != nil {
		b, err := json.Marshal(cred.User)
		if err != nil {
			return err
		}
		rawUser = b
	}

	data, err := json.MarshalIndent(storedFile{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
		User:         rawUser,
	}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// AccessToken returns the stored access token, or "" when absent.
func (s *FileStore) AccessToken() string {
	return s.load().AccessToken
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *FileStore) RefreshToken() string {
	return s.load().RefreshToken
}

// CachedUser returns the stored user profile, or nil when absent or
// undecodable.
func (s *FileStore) CachedUser() *domain.User {
	raw := s.load().User
	if len(raw) == 0 {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

// Clear removes the credentials file. Removing the single file drops all
// three entries at once, so no partial state is ever observable.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) load() storedFile {
	var f storedFile
	data, err := os.ReadFile(s.path)
	if err != nil {
		return f
	}
	// A malformed file reads back as empty.
	_ = json.Unmarshal(data, &f)
	return f
}
