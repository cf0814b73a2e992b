package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"signa/internal/domain"
)

// Storage keys. Both are written together and cleared together.
const (
	KeyAccessToken = "access_token"
	KeyUser        = "user"
)

var (
	// ErrNotReady is returned by Require before Init has completed.
	ErrNotReady = errors.New("session not loaded yet")
	// ErrUnauthenticated is returned by Require when nobody is logged in.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrEmptyToken is returned by Login when the token is blank.
	ErrEmptyToken = errors.New("empty access token")
)

// Store is the client session: an access token and the profile it belongs to.
type Store struct {
	storage domain.Storage
	nav     domain.Navigator
	log     *zap.Logger

	mu        sync.RWMutex
	ready     bool
	available bool
	token     string
	profile   *domain.Profile
}

// New returns a Store in the loading state. nav may be nil.
func New(storage domain.Storage, nav domain.Navigator, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{storage: storage, nav: nav, log: log}
}

// Init probes the storage medium and loads any persisted session. It never
// fails on bad data: a missing medium leaves the store empty and malformed
// data is cleared. Either way the store is ready afterwards.
func (s *Store) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	malformed := s.loadLocked()
	s.ready = true
	s.mu.Unlock()

	if malformed {
		// Implicit logout.
		s.navigate(domain.RouteLogin)
	}
	return nil
}

// loadLocked reports whether persisted data had to be discarded.
func (s *Store) loadLocked() (malformed bool) {
	s.token, s.profile = "", nil
	s.available = false

	if s.storage == nil {
		return false
	}
	if err := s.storage.Probe(); err != nil {
		s.log.Debug("session storage unavailable", zap.Error(err))
		return false
	}
	s.available = true

	token, hasToken, err := s.storage.Get(KeyAccessToken)
	if err != nil {
		s.discardLocked("reading access token", err)
		return true
	}
	raw, hasUser, err := s.storage.Get(KeyUser)
	if err != nil {
		s.discardLocked("reading user", err)
		return true
	}

	switch {
	case !hasToken && !hasUser:
		return false
	case token == "" || !hasUser:
		s.discardLocked("partial session", nil)
		return true
	}

	var p *domain.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p == nil {
		s.discardLocked("parsing user", err)
		return true
	}

	s.token, s.profile = token, p
	s.log.Debug("session loaded", zap.String("username", p.Username))
	return false
}

func (s *Store) discardLocked(what string, cause error) {
	s.log.Warn("discarding persisted session", zap.String("reason", what), zap.Error(cause))
	s.token, s.profile = "", nil
	if err := s.storage.Remove(KeyAccessToken, KeyUser); err != nil {
		s.log.Warn("clearing persisted session", zap.Error(err))
	}
}

// Ready reports whether Init has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Login persists token and profile together and makes them current. Before
// the storage medium is available it does nothing.
func (s *Store) Login(token string, profile domain.Profile) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready || !s.available {
		return nil
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := s.storage.Set(map[string]string{
		KeyAccessToken: token,
		KeyUser:        string(raw),
	}); err != nil {
		return err
	}
	s.token, s.profile = token, &profile
	s.log.Debug("logged in", zap.String("username", profile.Username))
	return nil
}

// Logout clears token and profile from storage and memory, then navigates to
// the login entry point. Memory is cleared even when storage fails.
func (s *Store) Logout() error {
	s.mu.Lock()
	var err error
	if s.available && s.storage != nil {
		err = s.storage.Remove(KeyAccessToken, KeyUser)
	}
	s.token, s.profile = "", nil
	s.mu.Unlock()

	s.navigate(domain.RouteLogin)
	return err
}

// IsAuthenticated reports whether both token and profile are set.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.profile != nil
}

// Require is the authenticated-user guard.
func (s *Store) Require() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.ready {
		return ErrNotReady
	}
	if s.token == "" || s.profile == nil {
		return ErrUnauthenticated
	}
	return nil
}

// AuthHeaders returns the JSON content type and, with a token, a bearer
// Authorization header.
func (s *Store) AuthHeaders() http.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if s.token != "" {
		h.Set("Authorization", "Bearer "+s.token)
	}
	return h
}

// Token returns the current access token, or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile returns the current profile.
func (s *Store) Profile() (domain.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return domain.Profile{}, false
	}
	return *s.profile, true
}

// ExpiresAt returns the token's exp claim when the token is a JWT carrying
// one. The signature is not checked; this is for display only.
func (s *Store) ExpiresAt() (time.Time, bool) {
	tok := s.Token()
	if tok == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(tok, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Close tears the store down. Persisted data is left untouched.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.profile = "", nil
	s.ready, s.available = false, false
}

func (s *Store) navigate(r domain.Route) {
	if s.nav != nil {
		s.nav.Navigate(r)
	}
}

var (
	_ domain.HeaderSource = (*Store)(nil)
	_ domain.Guard        = (*Store)(nil)
)
