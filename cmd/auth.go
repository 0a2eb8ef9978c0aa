package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/walkon/internal/server"
	"github.com/desertthunder/walkon/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin performs the authorization code + PKCE flow.
//
// Starts a local HTTP server for the redirect, opens the browser for user
// authorization, and waits for the callback to complete the exchange.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.gate == nil {
		return fmt.Errorf("%w: session gate not initialized", shared.ErrServiceUnavailable)
	}
	if r.config.Spotify.ClientID == "" {
		return fmt.Errorf("%w: spotify client_id must be set in config.toml", shared.ErrInvalidConfig)
	}

	handler := server.NewCallbackHandler(r.gate)
	router := server.NewBasicRouter()
	router.Handler(handler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.gate.Login(ctx); err != nil {
		httpServer.Close()
		return fmt.Errorf("failed to start authorization: %w", err)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var callbackErr error

	select {
	case callbackErr = <-handler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		httpServer.Close()
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if callbackErr != nil {
		if errors.Is(callbackErr, shared.ErrEntitlementRequired) {
			r.writePlainln("⚠ Signed in, but this account's subscription tier does not allow playback control.")
			return callbackErr
		}
		return fmt.Errorf("authorization failed: %w", callbackErr)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("You can now use: walkon roster set\n")

	return nil
}

// AuthLogout clears stored credentials from every backend.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if r.gate == nil {
		return fmt.Errorf("%w: session gate not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.gate.Logout(); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	r.logger.Info("credentials cleared")
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports whether a usable session exists.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.gate == nil {
		return fmt.Errorf("%w: session gate not initialized", shared.ErrServiceUnavailable)
	}

	if r.gate.IsAuthenticated() {
		return r.writePlain("✓ Authenticated\n")
	}

	return r.writePlain("✗ Not authenticated. Run 'walkon auth login'.\n")
}

// AuthProfile fetches and prints the authenticated account profile.
func (r *Runner) AuthProfile(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if err := r.requireSession(); err != nil {
		return err
	}

	profile, err := r.gate.Profile(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch profile: %w", err)
	}

	if useJSON {
		return r.writeJSON(profile, pretty)
	}

	r.writePlain("Account: %s\n", profile.DisplayName)
	r.writePlain("ID: %s\n", profile.ID)
	if profile.Email != "" {
		r.writePlain("Email: %s\n", profile.Email)
	}
	r.writePlain("Tier: %s\n", profile.Product)

	return nil
}
