package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/walkon/internal/shared"
	"golang.org/x/oauth2"
)

// Endpoints holds the provider URLs used by the auth subsystem.
// Overridable so tests can point components at an httptest server.
type Endpoints struct {
	AuthorizeURL string
	TokenURL     string
	ProfileURL   string
}

// SpotifyEndpoints returns the production Spotify endpoints.
func SpotifyEndpoints() Endpoints {
	return Endpoints{
		AuthorizeURL: "https://accounts.spotify.com/authorize",
		TokenURL:     "https://accounts.spotify.com/api/token",
		ProfileURL:   "https://api.spotify.com/v1/me",
	}
}

// TokenSet is the persisted credential: the access token plus everything
// needed to decide expiry and obtain a successor.
type TokenSet struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        string    `json:"scope"`
}

// Valid reports whether the token is usable at the given instant, with the
// safety buffer subtracted from expiry. The boundary is exclusive: a token
// is already invalid at exactly its expiry time.
func (t *TokenSet) Valid(now time.Time, buffer time.Duration) bool {
	if t == nil || t.AccessToken == "" || t.ExpiresAt.IsZero() {
		return false
	}
	return now.Before(t.ExpiresAt.Add(-buffer))
}

// OAuth2 converts the token set to an [oauth2.Token] for use with
// oauth2-aware HTTP clients.
func (t *TokenSet) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		Expiry:       t.ExpiresAt,
		TokenType:    "Bearer",
	}
}

// tokenResponse mirrors the provider's JSON token payload.
type tokenResponse struct {
	AccessToken  string  `json:"access_token"`
	TokenType    string  `json:"token_type"`
	Scope        string  `json:"scope"`
	ExpiresIn    float64 `json:"expires_in"`
	RefreshToken string  `json:"refresh_token"`
}

// parseTokenResponse validates the provider payload shape and converts it
// to a TokenSet with an absolute expiry stamped at issue time.
func parseTokenResponse(body []byte, issuedAt time.Time) (*TokenSet, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidTokenResponse, err)
	}

	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access_token", shared.ErrInvalidTokenResponse)
	}
	if !strings.EqualFold(resp.TokenType, "Bearer") {
		return nil, fmt.Errorf("%w: token_type %q", shared.ErrInvalidTokenResponse, resp.TokenType)
	}
	if resp.ExpiresIn <= 0 {
		return nil, fmt.Errorf("%w: non-positive expires_in %v", shared.ErrInvalidTokenResponse, resp.ExpiresIn)
	}

	return &TokenSet{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    issuedAt.Add(time.Duration(resp.ExpiresIn) * time.Second),
		Scope:        resp.Scope,
	}, nil
}

// postTokenForm sends a form-encoded POST to the token endpoint and returns
// the response body and HTTP status. Network failures return an error.
func postTokenForm(ctx context.Context, client *http.Client, tokenURL string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read token response: %w", err)
	}

	return body, resp.StatusCode, nil
}
