package auth

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/walkon/internal/shared"
)

// failingBackend errors on every operation.
type failingBackend struct{}

func (failingBackend) Name() string               { return "failing" }
func (failingBackend) Get(string) (string, error) { return "", fmt.Errorf("backend down") }
func (failingBackend) Set(string, string) error   { return fmt.Errorf("backend down") }
func (failingBackend) Delete(string) error        { return fmt.Errorf("backend down") }

func newTestBackends(t *testing.T) (*FileBackend, *DBBackend) {
	t.Helper()

	file := NewFileBackend(filepath.Join(t.TempDir(), "credentials.json"))

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return file, NewDBBackend(db)
}

func newTestStore(t *testing.T, backends ...Backend) *Store {
	t.Helper()
	if len(backends) == 0 {
		file, dbBackend := newTestBackends(t)
		backends = []Backend{file, dbBackend}
	}
	return NewStore(shared.NewLogger(io.Discard), 10*time.Minute, backends...)
}

func sampleToken() *TokenSet {
	return &TokenSet{
		AccessToken:  "access-abc",
		RefreshToken: "refresh-xyz",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Millisecond),
		Scope:        "user-read-private user-read-email",
	}
}

func TestStore(t *testing.T) {
	t.Run("Token RoundTrip", func(t *testing.T) {
		store := newTestStore(t)
		ts := sampleToken()

		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		loaded, err := store.LoadToken()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected a token set")
		}

		if loaded.AccessToken != ts.AccessToken {
			t.Errorf("access token mismatch: %s", loaded.AccessToken)
		}
		if loaded.RefreshToken != ts.RefreshToken {
			t.Errorf("refresh token mismatch: %s", loaded.RefreshToken)
		}
		if loaded.Scope != ts.Scope {
			t.Errorf("scope mismatch: %s", loaded.Scope)
		}
		if !loaded.ExpiresAt.Equal(ts.ExpiresAt) {
			t.Errorf("expiry mismatch: %v != %v", loaded.ExpiresAt, ts.ExpiresAt)
		}
	})

	t.Run("Load Falls Back To Second Backend", func(t *testing.T) {
		file, dbBackend := newTestBackends(t)
		store := newTestStore(t, file, dbBackend)
		ts := sampleToken()

		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		// Wipe the primary backend only.
		for _, key := range []string{keyAccessToken, keyRefreshToken, keyExpiresAt, keyScope} {
			if err := file.Delete(key); err != nil {
				t.Fatalf("failed to wipe file backend: %v", err)
			}
		}

		loaded, err := store.LoadToken()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if loaded == nil || loaded.AccessToken != ts.AccessToken {
			t.Fatal("expected token to load from fallback backend")
		}
	})

	t.Run("Partial Write Failure Tolerated", func(t *testing.T) {
		file, _ := newTestBackends(t)
		store := newTestStore(t, failingBackend{}, file)

		if err := store.SaveToken(sampleToken()); err != nil {
			t.Fatalf("one healthy backend should be enough: %v", err)
		}

		loaded, err := store.LoadToken()
		if err != nil {
			t.Fatalf("failed to load token: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected token from the healthy backend")
		}
	})

	t.Run("All Backends Failing", func(t *testing.T) {
		store := newTestStore(t, failingBackend{}, failingBackend{})

		if err := store.SaveToken(sampleToken()); !errors.Is(err, shared.ErrStorageUnavailable) {
			t.Errorf("expected ErrStorageUnavailable, got %v", err)
		}

		if _, err := store.LoadToken(); !errors.Is(err, shared.ErrStorageUnavailable) {
			t.Errorf("expected ErrStorageUnavailable on load, got %v", err)
		}
	})

	t.Run("Rejects Token Without Expiry", func(t *testing.T) {
		store := newTestStore(t)

		err := store.SaveToken(&TokenSet{AccessToken: "abc"})
		if err == nil {
			t.Error("a token set without expiry must not be persisted")
		}
	})

	t.Run("ClearToken Removes From Both Backends", func(t *testing.T) {
		file, dbBackend := newTestBackends(t)
		store := newTestStore(t, file, dbBackend)

		if err := store.SaveToken(sampleToken()); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if err := store.ClearToken(); err != nil {
			t.Fatalf("failed to clear token: %v", err)
		}

		for _, b := range []Backend{file, dbBackend} {
			value, err := b.Get(keyAccessToken)
			if err != nil {
				t.Fatalf("failed to read backend %s: %v", b.Name(), err)
			}
			if value != "" {
				t.Errorf("backend %s should be empty after clear", b.Name())
			}
		}
	})

	t.Run("Clear Continues Past Broken Backend", func(t *testing.T) {
		file, _ := newTestBackends(t)
		store := newTestStore(t, failingBackend{}, file)

		if err := store.SaveToken(sampleToken()); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}
		if err := store.ClearToken(); err != nil {
			t.Fatalf("clear should succeed while one backend works: %v", err)
		}

		value, _ := file.Get(keyAccessToken)
		if value != "" {
			t.Error("healthy backend should be cleared despite broken sibling")
		}
	})

	t.Run("Session RoundTrip", func(t *testing.T) {
		store := newTestStore(t)
		session := &Session{Verifier: "verifier-value-that-is-long-enough-for-tests", State: "state-value"}

		if err := store.SaveSession(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		loaded, err := store.LoadSession()
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if loaded == nil {
			t.Fatal("expected a session")
		}
		if loaded.Verifier != session.Verifier || loaded.State != session.State {
			t.Error("session round trip mismatch")
		}
	})

	t.Run("Session Overwritten By Second Login", func(t *testing.T) {
		store := newTestStore(t)

		first := &Session{Verifier: "first-verifier", State: "first-state"}
		second := &Session{Verifier: "second-verifier", State: "second-state"}

		if err := store.SaveSession(first); err != nil {
			t.Fatalf("failed to save first session: %v", err)
		}
		if err := store.SaveSession(second); err != nil {
			t.Fatalf("failed to save second session: %v", err)
		}

		loaded, err := store.LoadSession()
		if err != nil {
			t.Fatalf("failed to load session: %v", err)
		}
		if loaded.State != second.State {
			t.Error("only the most recent login attempt should survive")
		}
	})

	t.Run("Session Expires After TTL", func(t *testing.T) {
		store := newTestStore(t)
		session := &Session{Verifier: "abandoned-verifier", State: "abandoned-state"}

		if err := store.SaveSession(session); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}

		// Jump the clock past the TTL.
		store.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

		loaded, err := store.LoadSession()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded != nil {
			t.Error("expired session should not load")
		}
	})

	t.Run("LoadToken Empty Store", func(t *testing.T) {
		store := newTestStore(t)

		loaded, err := store.LoadToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if loaded != nil {
			t.Error("expected nil token set from empty store")
		}
	})
}
