package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authorization flow errors
	ErrMissingSession       = fmt.Errorf("no pending authorization session")
	ErrStateMismatch        = fmt.Errorf("state parameter mismatch")
	ErrMissingCode          = fmt.Errorf("authorization code missing from callback")
	ErrInvalidTokenResponse = fmt.Errorf("malformed token response")
	ErrInvalidProfile       = fmt.Errorf("malformed profile response")

	// Token lifecycle errors
	ErrNotAuthenticated    = fmt.Errorf("not authenticated")
	ErrNoRefreshToken      = fmt.Errorf("no refresh token available")
	ErrRefreshInvalid      = fmt.Errorf("refresh token rejected")
	ErrRefreshNetwork      = fmt.Errorf("token refresh failed")
	ErrEntitlementRequired = fmt.Errorf("account does not meet the required subscription tier")

	// Storage errors
	ErrStorageUnavailable = fmt.Errorf("all credential storage backends failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTrackNotFound      = fmt.Errorf("track not found")
	ErrPlayerNotFound     = fmt.Errorf("player not found")
	ErrNoActiveDevice     = fmt.Errorf("no active playback device")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ProviderError is returned when the authorization server redirects back
// with an error parameter instead of a code (e.g. "access_denied").
type ProviderError struct {
	Code string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider declined authorization: %s", e.Code)
}
