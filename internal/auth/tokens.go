// Package auth holds the client's credential state: the persisted
// access/refresh token pair and the current user session.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoTokens is returned when no token pair has been stored yet.
var ErrNoTokens = errors.New("no stored tokens")

// TokenPair is the access/refresh pair issued by the API.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessExpired reports whether the access token is expired (or expires
// within the skew) at the given time. The token is inspected without
// signature verification; only the server verifies signatures.
func (p TokenPair) AccessExpired(now time.Time, skew time.Duration) bool {
	if p.Access == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(p.Access, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Add(skew).Before(claims.ExpiresAt.Time)
}

// TokenStore persists a token pair to a single file with 0600 permissions.
// Safe for concurrent use within one process.
type TokenStore struct {
	path string
	mu   sync.Mutex
}

// NewTokenStore creates a store backed by the given file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Load reads the stored token pair. Returns ErrNoTokens if the file does
// not exist.
func (s *TokenStore) Load() (TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return TokenPair{}, ErrNoTokens
		}
		return TokenPair{}, fmt.Errorf("read tokens %q: %w", s.path, err)
	}
	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("parse tokens %q: %w", s.path, err)
	}
	return pair, nil
}

// Save writes the token pair, creating the parent directory if needed.
func (s *TokenStore) Save(pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write tokens %q: %w", s.path, err)
	}
	return nil
}

// Clear removes the stored pair (local credential purge on logout).
// Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear tokens %q: %w", s.path, err)
	}
	return nil
}
