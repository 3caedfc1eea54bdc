package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// tokenFileName is the fixed name the session token is stored under, so
// it survives client restarts
const tokenFileName = "token"

// TokenStore persists the session token in durable local storage
type TokenStore struct {
	path string
}

// NewTokenStore creates a token store. With an empty path the token
// lives under the user's config directory.
func NewTokenStore(path string) (*TokenStore, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config directory: %w", err)
		}
		path = filepath.Join(configDir, "tds-dashboard", tokenFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create token directory: %w", err)
	}

	return &TokenStore{path: path}, nil
}

// Save writes the token, replacing any previous one
func (s *TokenStore) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Load returns the stored token, or "" if none is stored
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear deletes the stored token. Logout is purely client-side.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
