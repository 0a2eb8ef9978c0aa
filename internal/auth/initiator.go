package auth

import (
	"context"
	"fmt"
	"net/url"

	"github.com/charmbracelet/log"
)

// Navigator performs the redirect side effect of login. Injected so the
// flow is testable without opening a real browser.
type Navigator func(url string) error

// Initiator begins the authorization code flow: it creates a PKCE session,
// persists it, and sends the user to the provider's authorize endpoint.
type Initiator struct {
	clientID    string
	redirectURI string
	scope       string
	endpoints   Endpoints
	store       *Store
	navigate    Navigator
	logger      *log.Logger
}

// NewInitiator creates an Initiator. navigate must not be nil.
func NewInitiator(clientID, redirectURI, scope string, endpoints Endpoints, store *Store, navigate Navigator, logger *log.Logger) *Initiator {
	return &Initiator{
		clientID:    clientID,
		redirectURI: redirectURI,
		scope:       scope,
		endpoints:   endpoints,
		store:       store,
		navigate:    navigate,
		logger:      logger,
	}
}

// Login generates and persists a pending PKCE session, then navigates to
// the authorize URL. Any previous pending session is overwritten, so only
// the most recent login attempt can succeed.
func (i *Initiator) Login(ctx context.Context) error {
	session, err := NewSession()
	if err != nil {
		return fmt.Errorf("failed to create authorization session: %w", err)
	}

	if err := i.store.SaveSession(session); err != nil {
		return fmt.Errorf("failed to persist authorization session: %w", err)
	}

	authURL := i.AuthorizeURL(session)
	i.logger.Debug("redirecting to authorize endpoint", "state", session.State)

	if err := i.navigate(authURL); err != nil {
		return fmt.Errorf("failed to navigate to authorize endpoint: %w", err)
	}

	return nil
}

// AuthorizeURL builds the provider authorize URL for the given session.
func (i *Initiator) AuthorizeURL(session *Session) string {
	params := url.Values{}
	params.Set("client_id", i.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", i.redirectURI)
	params.Set("code_challenge", session.Challenge())
	params.Set("code_challenge_method", "S256")
	params.Set("state", session.State)
	params.Set("scope", i.scope)

	return i.endpoints.AuthorizeURL + "?" + params.Encode()
}
