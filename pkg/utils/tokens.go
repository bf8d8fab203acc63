package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
)

const (
	tokenDirName   = ".staff-scheduler/tokens"
	tokenFilePerms = 0600
	tokenDirPerms  = 0700
)

// TokenStore keeps one OAuth token file per environment
type TokenStore struct {
	dir string
}

// NewTokenStore stores tokens under ~/.staff-scheduler/tokens
func NewTokenStore() (*TokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewTokenStoreAt(filepath.Join(home, tokenDirName)), nil
}

// NewTokenStoreAt stores tokens under dir
func NewTokenStoreAt(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

func (s *TokenStore) path(env string) string {
	return filepath.Join(s.dir, fmt.Sprintf("token-%s.json", env))
}

// Load returns the saved token, or nil if none has been saved for env
func (s *TokenStore) Load(env string) (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path(env))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}

// Save writes the token readable by the owner only
func (s *TokenStore) Save(env string, token *oauth2.Token) error {
	if err := os.MkdirAll(s.dir, tokenDirPerms); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(s.path(env), data, tokenFilePerms); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Delete removes the token for env. A missing file is not an error.
func (s *TokenStore) Delete(env string) error {
	if err := os.Remove(s.path(env)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete token file: %w", err)
	}
	return nil
}
