package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/walkon/internal/shared"
)

func newTestRefresher(t *testing.T, tokenURL string) *Refresher {
	t.Helper()
	return NewRefresher("test-client", tokenURL, nil, shared.NewLogger(io.Discard))
}

func TestRefresher(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful Refresh", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusOK, validTokenPayload, nil)
		r := newTestRefresher(t, srv.URL)

		refreshed, err := r.Refresh(ctx, sampleToken())
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if refreshed.AccessToken != "new-access" {
			t.Errorf("access token mismatch: %s", refreshed.AccessToken)
		}
		if refreshed.RefreshToken != "new-refresh" {
			t.Errorf("refresh token mismatch: %s", refreshed.RefreshToken)
		}
	})

	t.Run("Retains Old Refresh Token", func(t *testing.T) {
		payload := `{"access_token": "new-access", "token_type": "Bearer", "expires_in": 3600}`
		srv := newTokenServer(t, http.StatusOK, payload, nil)
		r := newTestRefresher(t, srv.URL)

		refreshed, err := r.Refresh(ctx, sampleToken())
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if refreshed.RefreshToken != "refresh-xyz" {
			t.Errorf("old refresh token should be retained, got %s", refreshed.RefreshToken)
		}
	})

	t.Run("Rejected Refresh Token", func(t *testing.T) {
		for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
			srv := newTokenServer(t, status, `{"error": "invalid_grant"}`, nil)
			r := newTestRefresher(t, srv.URL)

			_, err := r.Refresh(ctx, sampleToken())
			if !errors.Is(err, shared.ErrRefreshInvalid) {
				t.Errorf("status %d: expected ErrRefreshInvalid, got %v", status, err)
			}
		}
	})

	t.Run("Transient Failure", func(t *testing.T) {
		srv := newTokenServer(t, http.StatusInternalServerError, `oops`, nil)
		r := newTestRefresher(t, srv.URL)

		_, err := r.Refresh(ctx, sampleToken())
		if !errors.Is(err, shared.ErrRefreshNetwork) {
			t.Errorf("expected ErrRefreshNetwork, got %v", err)
		}
	})

	t.Run("No Refresh Token", func(t *testing.T) {
		r := newTestRefresher(t, "http://invalid.test")

		_, err := r.Refresh(ctx, &TokenSet{AccessToken: "abc", ExpiresAt: time.Now()})
		if !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Errorf("expected ErrNoRefreshToken, got %v", err)
		}
	})

	t.Run("Concurrent Calls Share One Exchange", func(t *testing.T) {
		var hits atomic.Int64
		release := make(chan struct{})

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			<-release // hold the exchange open until all callers have piled up
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, validTokenPayload)
		}))
		t.Cleanup(srv.Close)

		r := newTestRefresher(t, srv.URL)
		ts := sampleToken()

		const callers = 8
		var wg sync.WaitGroup
		results := make([]*TokenSet, callers)
		errs := make([]error, callers)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = r.Refresh(ctx, ts)
			}(i)
		}

		// Wait until the first exchange is in flight, then let it finish.
		for hits.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		if hits.Load() != 1 {
			t.Errorf("expected exactly one network exchange, got %d", hits.Load())
		}
		for i := 0; i < callers; i++ {
			if errs[i] != nil {
				t.Errorf("caller %d: unexpected error %v", i, errs[i])
			}
			if results[i] == nil || results[i].AccessToken != "new-access" {
				t.Errorf("caller %d: did not receive the shared result", i)
			}
		}
	})

	t.Run("Flight Cleared After Completion", func(t *testing.T) {
		var hits atomic.Int64
		srv := newTokenServer(t, http.StatusOK, validTokenPayload, &hits)
		r := newTestRefresher(t, srv.URL)
		ts := sampleToken()

		if _, err := r.Refresh(ctx, ts); err != nil {
			t.Fatalf("first refresh failed: %v", err)
		}
		if _, err := r.Refresh(ctx, ts); err != nil {
			t.Fatalf("second refresh failed: %v", err)
		}

		if hits.Load() != 2 {
			t.Errorf("sequential refreshes should each exchange, got %d hits", hits.Load())
		}
	})
}
