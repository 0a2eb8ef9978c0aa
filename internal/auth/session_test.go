package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/walkon/internal/shared"
)

func newTestGate(t *testing.T, endpoints Endpoints, navigate Navigator) (*Gate, *Store) {
	t.Helper()

	store := newTestStore(t)
	if navigate == nil {
		navigate = func(string) error { return nil }
	}

	gate := NewGate(GateConfig{
		ClientID:      "test-client",
		RedirectURI:   "http://127.0.0.1:3000/callback",
		Scope:         "user-read-private",
		RefreshBuffer: 5 * time.Minute,
		Endpoints:     endpoints,
		Navigate:      navigate,
		Logger:        shared.NewLogger(io.Discard),
	}, store)

	return gate, store
}

func TestGate(t *testing.T) {
	ctx := context.Background()

	t.Run("Unauthenticated Initially", func(t *testing.T) {
		gate, _ := newTestGate(t, Endpoints{TokenURL: "http://invalid.test"}, nil)

		if gate.IsAuthenticated() {
			t.Error("fresh gate should be unauthenticated")
		}

		token, err := gate.AccessToken(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "" {
			t.Error("expected empty token when unauthenticated")
		}
	})

	t.Run("Expiry Boundary Is Exclusive", func(t *testing.T) {
		gate, store := newTestGate(t, Endpoints{TokenURL: "http://invalid.test"}, nil)
		gate.buffer = 0

		expiresAt := time.Now().Add(time.Hour).Truncate(time.Millisecond)
		ts := sampleToken()
		ts.ExpiresAt = expiresAt
		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		gate.now = func() time.Time { return expiresAt }
		if gate.IsAuthenticated() {
			t.Error("token should be invalid at exactly its expiry")
		}

		gate.now = func() time.Time { return expiresAt.Add(-time.Millisecond) }
		if !gate.IsAuthenticated() {
			t.Error("token should be valid one millisecond before expiry")
		}
	})

	t.Run("Login Then Callback", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusOK, validTokenPayload, nil)

		var visited string
		gate, store := newTestGate(t, Endpoints{
			AuthorizeURL: "https://accounts.spotify.com/authorize",
			TokenURL:     srv.URL,
		}, func(url string) error {
			visited = url
			return nil
		})

		if err := gate.Login(ctx); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if visited == "" {
			t.Fatal("login should navigate to the authorize URL")
		}

		session, err := store.LoadSession()
		if err != nil || session == nil {
			t.Fatalf("login should leave a pending session: %v", err)
		}

		if err := gate.HandleCallback(ctx, Callback{Code: "xyz", State: session.State}); err != nil {
			t.Fatalf("callback failed: %v", err)
		}

		if !gate.IsAuthenticated() {
			t.Error("gate should be authenticated after callback")
		}

		token, err := gate.AccessToken(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "new-access" {
			t.Errorf("expected new-access, got %s", token)
		}
	})

	t.Run("Refreshes Within Buffer", func(t *testing.T) {
		var hits atomic.Int64
		srv := newTokenServer(t, http.StatusOK, validTokenPayload, &hits)

		gate, store := newTestGate(t, Endpoints{TokenURL: srv.URL}, nil)

		ts := sampleToken()
		ts.ExpiresAt = time.Now().Add(time.Minute) // inside the 5 minute buffer
		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		token, err := gate.AccessToken(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "new-access" {
			t.Errorf("expected refreshed token, got %s", token)
		}
		if hits.Load() != 1 {
			t.Errorf("expected one refresh exchange, got %d", hits.Load())
		}

		// The refreshed token is persisted for the next caller.
		stored, _ := store.LoadToken()
		if stored == nil || stored.AccessToken != "new-access" {
			t.Error("refreshed token should be persisted")
		}
	})

	t.Run("Concurrent Callers One Refresh", func(t *testing.T) {
		var hits atomic.Int64
		release := make(chan struct{})

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			<-release
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, validTokenPayload)
		}))
		t.Cleanup(srv.Close)

		gate, store := newTestGate(t, Endpoints{TokenURL: srv.URL}, nil)

		ts := sampleToken()
		ts.ExpiresAt = time.Now().Add(time.Minute)
		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		const callers = 6
		var wg sync.WaitGroup
		tokens := make([]string, callers)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				tokens[i], _ = gate.AccessToken(ctx)
			}(i)
		}

		for hits.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		if hits.Load() != 1 {
			t.Errorf("expected exactly one refresh exchange, got %d", hits.Load())
		}
		for i, token := range tokens {
			if token != "new-access" {
				t.Errorf("caller %d: expected shared refreshed token, got %q", i, token)
			}
		}
	})

	t.Run("Rejected Refresh Forces Logout", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusBadRequest, `{"error": "invalid_grant"}`, nil)

		gate, store := newTestGate(t, Endpoints{TokenURL: srv.URL}, nil)

		ts := sampleToken()
		ts.ExpiresAt = time.Now().Add(time.Minute)
		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		token, err := gate.AccessToken(ctx)
		if err != nil {
			t.Fatalf("rejected refresh should not surface an error: %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token after forced logout, got %q", token)
		}

		if gate.IsAuthenticated() {
			t.Error("gate should be unauthenticated after a rejected refresh")
		}
		if stored, _ := store.LoadToken(); stored != nil {
			t.Error("stored token should be cleared")
		}
	})

	t.Run("Transient Refresh Failure Keeps Token", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusInternalServerError, `oops`, nil)

		gate, store := newTestGate(t, Endpoints{TokenURL: srv.URL}, nil)

		ts := sampleToken()
		ts.ExpiresAt = time.Now().Add(time.Minute)
		if err := store.SaveToken(ts); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		if _, err := gate.AccessToken(ctx); err == nil {
			t.Error("transient failure should surface an error")
		}

		// The stored token survives for a later attempt.
		if stored, _ := store.LoadToken(); stored == nil {
			t.Error("stored token should survive a transient refresh failure")
		}
	})

	t.Run("Logout Is Idempotent", func(t *testing.T) {
		gate, store := newTestGate(t, Endpoints{TokenURL: "http://invalid.test"}, nil)

		if err := store.SaveToken(sampleToken()); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		if err := gate.Logout(); err != nil {
			t.Fatalf("first logout failed: %v", err)
		}
		if gate.IsAuthenticated() {
			t.Error("should be unauthenticated after logout")
		}

		if err := gate.Logout(); err != nil {
			t.Fatalf("second logout should be a no-op: %v", err)
		}
		if gate.IsAuthenticated() {
			t.Error("still unauthenticated after second logout")
		}
	})

	t.Run("TokenSource", func(t *testing.T) {
		gate, store := newTestGate(t, Endpoints{TokenURL: "http://invalid.test"}, nil)

		if _, err := gate.Token(); err == nil {
			t.Error("token source should error when unauthenticated")
		}

		if err := store.SaveToken(sampleToken()); err != nil {
			t.Fatalf("failed to save token: %v", err)
		}

		tok, err := gate.Token()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.AccessToken != "access-abc" {
			t.Errorf("expected access-abc, got %s", tok.AccessToken)
		}
		if tok.TokenType != "Bearer" {
			t.Errorf("expected Bearer token type, got %s", tok.TokenType)
		}
	})
}
