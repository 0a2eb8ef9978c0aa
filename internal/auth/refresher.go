package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkon/internal/shared"
	"golang.org/x/sync/singleflight"
)

// Refresher exchanges a refresh token for a new access token.
//
// Concurrent Refresh calls are collapsed into a single network exchange:
// the provider may rotate the refresh token on first use, so a second
// concurrent exchange with the now-stale token would fail.
type Refresher struct {
	clientID string
	tokenURL string
	client   *http.Client
	group    singleflight.Group
	logger   *log.Logger
	now      func() time.Time
}

// NewRefresher creates a Refresher against the given token endpoint.
func NewRefresher(clientID, tokenURL string, client *http.Client, logger *log.Logger) *Refresher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Refresher{
		clientID: clientID,
		tokenURL: tokenURL,
		client:   client,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh obtains a fresh token set. All callers waiting on an in-flight
// exchange receive its result; the flight is cleared once it settles, so
// a later call starts a fresh exchange.
//
// Returns [shared.ErrRefreshInvalid] when the provider rejects the refresh
// token (HTTP 400/401) and [shared.ErrRefreshNetwork] for transient
// failures that do not force a new login.
func (r *Refresher) Refresh(ctx context.Context, ts *TokenSet) (*TokenSet, error) {
	if ts == nil || ts.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	v, err, _ := r.group.Do("refresh", func() (any, error) {
		return r.exchange(ctx, ts)
	})
	if err != nil {
		return nil, err
	}

	return v.(*TokenSet), nil
}

func (r *Refresher) exchange(ctx context.Context, ts *TokenSet) (*TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", ts.RefreshToken)
	form.Set("client_id", r.clientID)

	issuedAt := r.now()
	body, status, err := postTokenForm(ctx, r.client, r.tokenURL, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshNetwork, err)
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		r.logger.Warn("refresh token rejected", "status", status)
		return nil, fmt.Errorf("%w: status %d", shared.ErrRefreshInvalid, status)
	case status < 200 || status >= 300:
		return nil, fmt.Errorf("%w: status %d", shared.ErrRefreshNetwork, status)
	}

	refreshed, err := parseTokenResponse(body, issuedAt)
	if err != nil {
		return nil, err
	}

	// The provider may omit a new refresh token; the old one stays valid.
	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = ts.RefreshToken
	}

	r.logger.Debug("access token refreshed", "expires_at", refreshed.ExpiresAt)
	return refreshed, nil
}
