package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkon/internal/shared"
)

// Callback carries the query parameters the provider redirected back with.
type Callback struct {
	Code  string
	State string
	Error string // provider error code, e.g. "access_denied"
}

// Processor consumes the authorization callback: it verifies the state
// against the pending PKCE session, exchanges the code for tokens,
// persists them, and runs the entitlement check.
type Processor struct {
	clientID    string
	redirectURI string
	endpoints   Endpoints
	store       *Store
	verifier    *Verifier
	client      *http.Client
	logger      *log.Logger
	now         func() time.Time
}

// NewProcessor creates a Processor. verifier may be nil to skip the
// entitlement check (e.g. when no tier is required).
func NewProcessor(clientID, redirectURI string, endpoints Endpoints, store *Store, verifier *Verifier, client *http.Client, logger *log.Logger) *Processor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Processor{
		clientID:    clientID,
		redirectURI: redirectURI,
		endpoints:   endpoints,
		store:       store,
		verifier:    verifier,
		client:      client,
		logger:      logger,
		now:         time.Now,
	}
}

// HandleCallback validates and completes the authorization flow.
//
// The pending session is deleted as soon as state verification passes:
// an authorization code and its verifier are single use, whatever the
// outcome of the exchange. An entitlement failure is reported after the
// token is persisted; the caller is authenticated but blocked from
// playback, which is a product condition, not a security one.
func (p *Processor) HandleCallback(ctx context.Context, cb Callback) error {
	session, err := p.store.LoadSession()
	if err != nil {
		return err
	}
	if session == nil {
		return shared.ErrMissingSession
	}

	if subtle.ConstantTimeCompare([]byte(cb.State), []byte(session.State)) != 1 {
		return shared.ErrStateMismatch
	}

	if err := p.store.ClearSession(); err != nil {
		p.logger.Warn("failed to clear authorization session", "error", err)
	}

	if cb.Error != "" {
		return &shared.ProviderError{Code: cb.Error}
	}
	if cb.Code == "" {
		return shared.ErrMissingCode
	}

	tokens, err := p.exchange(ctx, cb.Code, session.Verifier)
	if err != nil {
		return err
	}

	if err := p.store.SaveToken(tokens); err != nil {
		return err
	}

	p.logger.Info("authorization complete", "scope", tokens.Scope, "expires_at", tokens.ExpiresAt)

	if p.verifier != nil {
		if err := p.verifier.Verify(ctx, tokens.AccessToken); err != nil {
			return err
		}
	}

	return nil
}

// exchange trades the authorization code and verifier for a token set.
func (p *Processor) exchange(ctx context.Context, code, verifier string) (*TokenSet, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.redirectURI)
	form.Set("client_id", p.clientID)
	form.Set("code_verifier", verifier)

	issuedAt := p.now()
	body, status, err := postTokenForm(ctx, p.client, p.endpoints.TokenURL, form)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: token endpoint returned %d", shared.ErrAPIRequest, status)
	}

	return parseTokenResponse(body, issuedAt)
}
