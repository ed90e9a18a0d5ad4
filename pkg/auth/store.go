// Package auth manages dashboard user credentials stored in a JSON file.
// Passwords are kept as SHA-256 hex digests and compared in constant time.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/acumidata/propdash/pkg/logging"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Errors returned by the store.
var (
	// ErrInvalidCredentials covers unknown usernames and wrong passwords.
	// The two cases are deliberately indistinguishable to a caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserExists is returned when registering a taken username.
	ErrUserExists = errors.New("username already exists")

	// ErrPasswordTooShort is returned when a new password is under the
	// minimum length.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// User is one dashboard account as stored on disk.
type User struct {
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// Store reads and writes the users file. Safe for concurrent use.
type Store struct {
	fs     afero.Fs
	path   string
	logger zerolog.Logger

	mu    sync.RWMutex
	users map[string]User
}

// NewStore creates a store over the given filesystem and file path. The
// file is loaded lazily on first use; a missing file reads as no users.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{
		fs:     fs,
		path:   path,
		logger: logging.NewLogger("auth-store"),
		users:  make(map[string]User),
	}
}

// Load reads the users file into memory. A missing file is not an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Info().Str("path", s.path).Msg("Users file not found, starting empty")
			s.users = make(map[string]User)
			return nil
		}
		return fmt.Errorf("read users file: %w", err)
	}

	users := make(map[string]User)
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("parse users file %s: %w", s.path, err)
	}

	s.users = users
	s.logger.Info().Int("users", len(users)).Msg("Users file loaded")
	return nil
}

// save writes the in-memory users back to the file. Caller holds the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, data, 0o600); err != nil {
		return fmt.Errorf("write users file: %w", err)
	}
	return nil
}

// Authenticate checks a username/password pair against the store.
func (s *Store) Authenticate(username, password string) error {
	s.mu.RLock()
	user, ok := s.users[username]
	s.mu.RUnlock()

	// Hash regardless of whether the user exists, so lookups and misses
	// take the same time.
	candidate := HashPassword(password)
	if !ok {
		subtle.ConstantTimeCompare([]byte(candidate), []byte(candidate))
		return ErrInvalidCredentials
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(user.PasswordHash)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

// Register adds a new user and persists the file.
func (s *Store) Register(username, email, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUserExists
	}

	s.users[username] = User{
		Email:        strings.TrimSpace(email),
		PasswordHash: HashPassword(password),
	}
	if err := s.save(); err != nil {
		delete(s.users, username)
		return err
	}

	s.logger.Info().Str("username", username).Msg("User registered")
	return nil
}

// Count returns the number of known users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// HashPassword returns the SHA-256 hex digest of a password, the format the
// users file stores.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
