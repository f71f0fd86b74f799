package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/onyx-daemon/circle/internal/models"
	"github.com/onyx-daemon/circle/internal/storage"
)

// Session is the process-wide authentication state: the bearer token
// and the account it belongs to. It is established explicitly by login
// or registration, optionally restored silently from disk on start,
// and torn down by logout. Views never read the token; the API client
// receives it once per establish.
type Session struct {
	mu    sync.RWMutex
	token string
	user  models.User
	store *storage.Storage
}

func New(store *storage.Storage) *Session {
	return &Session{store: store}
}

// Restore attempts a silent restore of a previously saved session.
// It reports false when there is nothing saved or the saved token has
// expired; an expired session is cleared from disk as a side effect.
func (s *Session) Restore() bool {
	if s.store == nil {
		return false
	}

	saved, err := s.store.LoadSession()
	if err != nil {
		return false
	}

	if saved.Token == "" || tokenExpired(saved.Token) {
		s.store.ClearSession()
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = saved.Token
	s.user = saved.User
	return true
}

// Establish installs a fresh token and account and persists them for
// the next run.
func (s *Session) Establish(token string, user models.User) error {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	if err := s.store.SaveSession(storage.SavedSession{Token: token, User: user}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear tears the session down in memory and on disk.
func (s *Session) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.user = models.User{}
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}
	return s.store.ClearSession()
}

// SetUser replaces the cached account after a profile refresh, keeping
// the persisted copy in sync.
func (s *Session) SetUser(user models.User) error {
	s.mu.Lock()
	s.user = user
	token := s.token
	s.mu.Unlock()

	if s.store == nil || token == "" {
		return nil
	}
	if err := s.store.SaveSession(storage.SavedSession{Token: token, User: user}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Active reports whether a session is currently established.
func (s *Session) Active() bool {
	return s.Token() != ""
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; the client has no key material, verification is the
// server's job. A token that cannot be parsed or carries no expiry is
// treated as expired so a bad save never loops the user through
// failing requests.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Before(time.Now())
}
