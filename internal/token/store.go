// Package token persists the access token between runs. One string token,
// survives restarts, erased on logout or on an authentication rejection.
package token

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/semanticsaas/talentctl/internal/errs"
)

// Store reads and writes the single persisted access token.
type Store interface {
	// Load returns the persisted token, or errs.ErrNoToken when absent
	// or already expired.
	Load() (string, error)
	// Save persists the token, replacing any previous one.
	Save(token string) error
	// Clear erases the persisted token. Clearing an absent token is a no-op.
	Clear() error
}

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// FileStore keeps the token in a mode-0600 JSON file under the user config
// directory (XDG aware).
type FileStore struct {
	path string
}

// DefaultPath returns the conventional token location.
func DefaultPath() string {
	return filepath.Join(configDir(), "token.json")
}

func configDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "talentctl")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "talentctl")
}

// NewFileStore creates a file-backed store at path. An empty path falls back
// to DefaultPath.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath()
	}
	return &FileStore{path: path}
}

func (s *FileStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return "", errs.ErrNoToken
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return "", errs.ErrNoToken
	}
	if tf.AccessToken == "" {
		return "", errs.ErrNoToken
	}
	if !tf.ExpiresAt.IsZero() && time.Now().After(tf.ExpiresAt) {
		return "", errs.ErrNoToken
	}
	return tf.AccessToken, nil
}

func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: token, ExpiresAt: Expiry(token)}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Expiry extracts the exp claim from a JWT without validating the signature.
// Tokens without a parseable exp get a zero time (treated as non-expiring
// locally; the server remains the authority).
func Expiry(tok string) time.Time {
	var claims jwt.RegisteredClaims
	_, _ = jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) { return nil, nil },
		jwt.WithoutClaimsValidation(),
	)
	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return time.Time{}
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu  sync.Mutex
	tok string
}

func (s *MemStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tok == "" {
		return "", errs.ErrNoToken
	}
	return s.tok, nil
}

func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = token
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = ""
	return nil
}
