package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkon/internal/shared"
)

// Persisted credential keys. Every key is written to every backend.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyExpiresAt    = "expires_at"
	keyScope        = "scope"

	keyCodeVerifier   = "code_verifier"
	keyState          = "state"
	keySessionExpires = "session_expires_at"
)

// Backend is a uniform key-value capability over one credential storage
// location. Get returns ("", nil) when the key is absent.
type Backend interface {
	Name() string
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Store persists the token set and the ephemeral PKCE session across an
// ordered list of independent backends. Reads walk the list in priority
// order; writes fan out to every backend in the same order, tolerating
// partial failure as long as at least one backend succeeds.
type Store struct {
	backends   []Backend
	sessionTTL time.Duration
	logger     *log.Logger
	now        func() time.Time
}

// NewStore creates a Store over the given backends. Backend order is
// priority order for reads and write order for fan-out.
func NewStore(logger *log.Logger, sessionTTL time.Duration, backends ...Backend) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		backends:   backends,
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// SaveToken persists the token set to every backend.
//
// A token set with an access token but no expiry is invalid and refused.
func (s *Store) SaveToken(ts *TokenSet) error {
	if ts == nil || ts.AccessToken == "" {
		return fmt.Errorf("%w: empty token set", shared.ErrInvalidArgument)
	}
	if ts.ExpiresAt.IsZero() {
		return fmt.Errorf("%w: token set without expiry", shared.ErrInvalidArgument)
	}

	fields := map[string]string{
		keyAccessToken:  ts.AccessToken,
		keyRefreshToken: ts.RefreshToken,
		keyExpiresAt:    strconv.FormatInt(ts.ExpiresAt.UnixMilli(), 10),
		keyScope:        ts.Scope,
	}

	for _, key := range []string{keyAccessToken, keyRefreshToken, keyExpiresAt, keyScope} {
		if err := s.setAll(key, fields[key]); err != nil {
			return err
		}
	}

	return nil
}

// LoadToken retrieves the token set, preferring earlier backends and
// falling back per field. Returns (nil, nil) when no token is stored.
func (s *Store) LoadToken() (*TokenSet, error) {
	access, err := s.get(keyAccessToken)
	if err != nil {
		return nil, err
	}
	if access == "" {
		return nil, nil
	}

	expiresRaw, err := s.get(keyExpiresAt)
	if err != nil {
		return nil, err
	}

	millis, err := strconv.ParseInt(expiresRaw, 10, 64)
	if err != nil {
		// A token without a parseable expiry must not be trusted.
		s.logger.Warn("stored token has invalid expiry, discarding", "value", expiresRaw)
		return nil, s.ClearToken()
	}

	refresh, err := s.get(keyRefreshToken)
	if err != nil {
		return nil, err
	}

	scope, err := s.get(keyScope)
	if err != nil {
		return nil, err
	}

	return &TokenSet{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.UnixMilli(millis),
		Scope:        scope,
	}, nil
}

// ClearToken removes the token set from every backend.
func (s *Store) ClearToken() error {
	var firstErr error
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyExpiresAt, keyScope} {
		if err := s.deleteAll(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SaveSession persists a pending PKCE session with the store's TTL,
// overwriting any previous pending session.
func (s *Store) SaveSession(sess *Session) error {
	if sess == nil || sess.Verifier == "" || sess.State == "" {
		return fmt.Errorf("%w: incomplete PKCE session", shared.ErrInvalidArgument)
	}

	expiry := s.now().Add(s.sessionTTL)

	if err := s.setAll(keyCodeVerifier, sess.Verifier); err != nil {
		return err
	}
	if err := s.setAll(keyState, sess.State); err != nil {
		return err
	}
	return s.setAll(keySessionExpires, strconv.FormatInt(expiry.UnixMilli(), 10))
}

// LoadSession retrieves the pending PKCE session. Returns (nil, nil) when
// no session is stored or when the stored session has outlived its TTL
// (an abandoned login attempt); expired sessions are deleted on read.
func (s *Store) LoadSession() (*Session, error) {
	verifier, err := s.get(keyCodeVerifier)
	if err != nil {
		return nil, err
	}
	state, err := s.get(keyState)
	if err != nil {
		return nil, err
	}
	if verifier == "" || state == "" {
		return nil, nil
	}

	expiresRaw, err := s.get(keySessionExpires)
	if err != nil {
		return nil, err
	}
	if millis, parseErr := strconv.ParseInt(expiresRaw, 10, 64); parseErr != nil || !s.now().Before(time.UnixMilli(millis)) {
		s.logger.Debug("pending authorization session expired")
		if clearErr := s.ClearSession(); clearErr != nil {
			s.logger.Warn("failed to clear expired session", "error", clearErr)
		}
		return nil, nil
	}

	return &Session{Verifier: verifier, State: state}, nil
}

// ClearSession removes the pending PKCE session from every backend.
func (s *Store) ClearSession() error {
	var firstErr error
	for _, key := range []string{keyCodeVerifier, keyState, keySessionExpires} {
		if err := s.deleteAll(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// setAll writes a key to every backend. A failing backend is logged and
// skipped; the write only fails when every backend fails.
func (s *Store) setAll(key, value string) error {
	failures := 0
	for _, b := range s.backends {
		if err := b.Set(key, value); err != nil {
			failures++
			s.logger.Warn("credential write failed", "backend", b.Name(), "key", key, "error", err)
		}
	}
	if failures == len(s.backends) {
		return fmt.Errorf("%w: writing %s", shared.ErrStorageUnavailable, key)
	}
	return nil
}

// get reads a key from the backends in priority order, returning the first
// non-empty value. Backend errors fall through to the next backend.
func (s *Store) get(key string) (string, error) {
	failures := 0
	for _, b := range s.backends {
		value, err := b.Get(key)
		if err != nil {
			failures++
			s.logger.Warn("credential read failed", "backend", b.Name(), "key", key, "error", err)
			continue
		}
		if value != "" {
			return value, nil
		}
	}
	if failures == len(s.backends) && failures > 0 {
		return "", fmt.Errorf("%w: reading %s", shared.ErrStorageUnavailable, key)
	}
	return "", nil
}

// deleteAll removes a key from every backend, continuing past failures so
// a broken backend cannot keep a credential alive in a healthy one.
func (s *Store) deleteAll(key string) error {
	failures := 0
	for _, b := range s.backends {
		if err := b.Delete(key); err != nil {
			failures++
			s.logger.Warn("credential delete failed", "backend", b.Name(), "key", key, "error", err)
		}
	}
	if failures == len(s.backends) && failures > 0 {
		return fmt.Errorf("%w: deleting %s", shared.ErrStorageUnavailable, key)
	}
	return nil
}
