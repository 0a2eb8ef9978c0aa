// Package server provides HTTP routing, middleware, and the OAuth callback
// endpoint for the CLI login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [CallbackHandler] receives the provider redirect and delegates the whole
// of callback processing (state verification, PKCE session lookup, code
// exchange, entitlement check) to the auth subsystem's session gate.
//
// It processes exactly one callback per login attempt to prevent replay,
// renders a success or failure page for the browser, and reports the
// outcome to the waiting CLI over a single-use channel.
//
// # Usage
//
// When the user runs `walkon auth login`, a temporary HTTP server starts
// on the configured host and port, handles the callback, and shuts down
// after the outcome is delivered.
package server
