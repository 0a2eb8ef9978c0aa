package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkon/internal/shared"
)

// UserProfile is the provider-sourced identity, fetched fresh whenever
// identity or entitlement must be confirmed. Never persisted.
type UserProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Product     string `json:"product"` // subscription tier: premium, free, etc.
}

// Verifier checks that the authenticated identity holds the subscription
// tier required for playback. A pure read on top of the token.
type Verifier struct {
	profileURL   string
	requiredTier string
	client       *http.Client
	logger       *log.Logger
}

// NewVerifier creates a Verifier. An empty requiredTier disables the
// tier check while keeping profile fetches available.
func NewVerifier(profileURL, requiredTier string, client *http.Client, logger *log.Logger) *Verifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &Verifier{
		profileURL:   profileURL,
		requiredTier: requiredTier,
		client:       client,
		logger:       logger,
	}
}

// Profile fetches the provider profile with the given bearer token.
func (v *Verifier) Profile(ctx context.Context, accessToken string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: profile endpoint returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var profile UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidProfile, err)
	}
	if profile.ID == "" {
		return nil, fmt.Errorf("%w: missing id", shared.ErrInvalidProfile)
	}

	return &profile, nil
}

// Verify fails with [shared.ErrEntitlementRequired] when the account's
// subscription tier does not match the required tier. No side effects on
// the stored token.
func (v *Verifier) Verify(ctx context.Context, accessToken string) error {
	if v.requiredTier == "" {
		return nil
	}

	profile, err := v.Profile(ctx, accessToken)
	if err != nil {
		return err
	}

	if profile.Product != v.requiredTier {
		v.logger.Warn("subscription tier check failed", "have", profile.Product, "need", v.requiredTier)
		return fmt.Errorf("%w: account tier %q, need %q", shared.ErrEntitlementRequired, profile.Product, v.requiredTier)
	}

	return nil
}
