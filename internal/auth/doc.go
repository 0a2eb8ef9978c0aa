// Package auth implements the OAuth 2.0 Authorization Code flow with PKCE
// against Spotify, and the lifecycle of the resulting credential.
//
// # Flow
//
// [Initiator.Login] creates a PKCE [Session] (verifier + anti-CSRF state),
// persists it with a short TTL, and navigates to the authorize endpoint.
// The provider redirects back to the local callback server, which hands
// the query parameters to [Processor.HandleCallback]: state verification,
// single-use session deletion, code exchange, response validation,
// persistence, and the subscription-tier check, in that order.
//
// # Token lifecycle
//
// [TokenSet] is the only artifact that outlives a login attempt. It is
// persisted by [Store] across an ordered list of [Backend] locations
// (a JSON credential file and the application database) so that losing
// one backend does not log the user out.
//
// [Refresher] trades the refresh token for a new access token and
// collapses concurrent refreshes into a single network exchange via
// singleflight. Refresh is lazy: [Gate.AccessToken] refreshes on demand
// when the stored token is within the configured buffer of expiring.
//
// # Facade
//
// [Gate] is the only type the rest of the application touches. It also
// implements [golang.org/x/oauth2.TokenSource] so the services layer can
// build an authenticated HTTP client directly on top of it.
package auth
