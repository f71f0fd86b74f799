package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/onyx-daemon/circle/internal/models"
)

const (
	appDir      = ".circle"
	sessionFile = "session.json"
	secretFile  = "install.key"
)

// ErrNoSession is returned when no saved session exists on disk.
var ErrNoSession = errors.New("no saved session")

// Storage persists the session between runs in the user's config
// directory. The token is encrypted at rest with a per-install random
// secret kept next to it; that keeps the token out of casual file
// greps without requiring the user to type a passphrase on every
// launch.
type Storage struct {
	dataDir string
}

// SavedSession is the plaintext form of what SaveSession persists.
type SavedSession struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func NewStorage() (*Storage, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewStorageAt(filepath.Join(homeDir, appDir))
}

// NewStorageAt opens storage rooted at an explicit directory.
func NewStorageAt(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &Storage{dataDir: dataDir}, nil
}

func (s *Storage) SaveSession(session SavedSession) error {
	secret, err := s.installSecret()
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	encrypted, err := Encrypt(plaintext, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt session: %w", err)
	}

	data, err := json.MarshalIndent(encrypted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session file: %w", err)
	}

	path := filepath.Join(s.dataDir, sessionFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

func (s *Storage) LoadSession() (SavedSession, error) {
	path := filepath.Join(s.dataDir, sessionFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return SavedSession{}, ErrNoSession
	}
	if err != nil {
		return SavedSession{}, fmt.Errorf("failed to read session file: %w", err)
	}

	var encrypted EncryptedData
	if err := json.Unmarshal(data, &encrypted); err != nil {
		return SavedSession{}, fmt.Errorf("failed to parse session file: %w", err)
	}

	secret, err := s.installSecret()
	if err != nil {
		return SavedSession{}, err
	}

	plaintext, err := Decrypt(&encrypted, secret)
	if err != nil {
		return SavedSession{}, fmt.Errorf("failed to decrypt session: %w", err)
	}

	var session SavedSession
	if err := json.Unmarshal(plaintext, &session); err != nil {
		return SavedSession{}, fmt.Errorf("failed to parse session: %w", err)
	}

	return session, nil
}

func (s *Storage) ClearSession() error {
	path := filepath.Join(s.dataDir, sessionFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// installSecret returns the per-install secret, generating and
// persisting it on first use.
func (s *Storage) installSecret() (string, error) {
	path := filepath.Join(s.dataDir, secretFile)

	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return string(data), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read install secret: %w", err)
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("failed to generate install secret: %w", err)
	}

	secret := hex.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
		return "", fmt.Errorf("failed to write install secret: %w", err)
	}

	return secret, nil
}
