package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkon/internal/shared"
	"golang.org/x/oauth2"
)

// GateConfig carries everything the session gate needs; no ambient state.
type GateConfig struct {
	ClientID      string
	RedirectURI   string
	Scope         string
	RequiredTier  string
	RefreshBuffer time.Duration
	Endpoints     Endpoints
	HTTPClient    *http.Client
	Navigate      Navigator
	Logger        *log.Logger
}

// Gate is the auth subsystem's facade. It composes the initiator,
// callback processor, refresher, credential store, and entitlement
// verifier; the rest of the application imports only this.
//
// Refresh is lazy: AccessToken refreshes on demand when the stored token
// is within the refresh buffer of expiring. There is no background timer
// to cancel on logout.
type Gate struct {
	store     *Store
	initiator *Initiator
	processor *Processor
	refresher *Refresher
	verifier  *Verifier
	buffer    time.Duration
	logger    *log.Logger
	now       func() time.Time
}

// NewGate constructs a Gate over the given credential store.
func NewGate(cfg GateConfig, store *Store) *Gate {
	if cfg.Logger == nil {
		cfg.Logger = shared.NewLogger(nil)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Navigate == nil {
		cfg.Navigate = shared.OpenBrowser
	}
	if cfg.Endpoints == (Endpoints{}) {
		cfg.Endpoints = SpotifyEndpoints()
	}

	verifier := NewVerifier(cfg.Endpoints.ProfileURL, cfg.RequiredTier, cfg.HTTPClient, cfg.Logger)

	return &Gate{
		store:     store,
		initiator: NewInitiator(cfg.ClientID, cfg.RedirectURI, cfg.Scope, cfg.Endpoints, store, cfg.Navigate, cfg.Logger),
		processor: NewProcessor(cfg.ClientID, cfg.RedirectURI, cfg.Endpoints, store, verifier, cfg.HTTPClient, cfg.Logger),
		refresher: NewRefresher(cfg.ClientID, cfg.Endpoints.TokenURL, cfg.HTTPClient, cfg.Logger),
		verifier:  verifier,
		buffer:    cfg.RefreshBuffer,
		logger:    cfg.Logger,
		now:       time.Now,
	}
}

// Login starts a fresh authorization attempt, overwriting any pending one.
func (g *Gate) Login(ctx context.Context) error {
	return g.initiator.Login(ctx)
}

// HandleCallback completes the authorization attempt begun by Login.
func (g *Gate) HandleCallback(ctx context.Context, cb Callback) error {
	return g.processor.HandleCallback(ctx, cb)
}

// IsAuthenticated reports whether a stored token exists and has not
// passed expiry minus the refresh buffer. The expiry boundary is
// exclusive.
func (g *Gate) IsAuthenticated() bool {
	ts, err := g.store.LoadToken()
	if err != nil {
		g.logger.Warn("failed to load stored token", "error", err)
		return false
	}
	return ts.Valid(g.now(), g.buffer)
}

// AccessToken returns a usable bearer token, refreshing first when the
// stored token is within the refresh buffer of expiring. Returns ""
// without error when unauthenticated. A rejected refresh token logs the
// user out; transient refresh failures leave the stored token in place.
func (g *Gate) AccessToken(ctx context.Context) (string, error) {
	ts, err := g.store.LoadToken()
	if err != nil {
		return "", err
	}
	if ts == nil {
		return "", nil
	}

	if ts.Valid(g.now(), g.buffer) {
		return ts.AccessToken, nil
	}

	refreshed, err := g.refresher.Refresh(ctx, ts)
	if err != nil {
		if errors.Is(err, shared.ErrRefreshInvalid) || errors.Is(err, shared.ErrNoRefreshToken) {
			g.logger.Info("refresh token no longer valid, logging out")
			if logoutErr := g.Logout(); logoutErr != nil {
				g.logger.Warn("logout after failed refresh", "error", logoutErr)
			}
			return "", nil
		}
		return "", err
	}

	if err := g.store.SaveToken(refreshed); err != nil {
		return "", err
	}

	return refreshed.AccessToken, nil
}

// Logout clears the stored token set from every backend. Idempotent:
// a second call is a no-op.
func (g *Gate) Logout() error {
	return g.store.ClearToken()
}

// Profile fetches the provider profile for the current session.
func (g *Gate) Profile(ctx context.Context) (*UserProfile, error) {
	token, err := g.AccessToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return g.verifier.Profile(ctx, token)
}

// Token implements [oauth2.TokenSource] so oauth2-aware HTTP clients can
// consume the gate directly.
func (g *Gate) Token() (*oauth2.Token, error) {
	token, err := g.AccessToken(context.Background())
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	ts, err := g.store.LoadToken()
	if err != nil {
		return nil, err
	}
	return ts.OAuth2(), nil
}

var _ oauth2.TokenSource = (*Gate)(nil)
