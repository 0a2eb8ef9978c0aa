package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/walkon/internal/auth"
	"github.com/desertthunder/walkon/internal/repositories"
	"github.com/desertthunder/walkon/internal/services"
	"github.com/desertthunder/walkon/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	ctx := context.Background()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	opts := RunnerOpts{
		Config: config,
		Logger: logger,
	}

	var backends []auth.Backend
	if config.Auth.TokenPath != "" {
		backends = append(backends, auth.NewFileBackend(config.Auth.TokenPath))
	} else if fileBackend, err := auth.DefaultFileBackend(); err == nil {
		backends = append(backends, fileBackend)
	} else {
		logger.Warn("file credential backend unavailable", "error", err)
	}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		backends = append(backends, auth.NewDBBackend(db))

		tracks := repositories.NewTrackRepository(db)
		opts.Players = repositories.NewPlayerRepository(db)
		opts.Cache = repositories.NewTrackCacheAdapter(tracks)
	} else {
		logger.Warn("database unavailable, run 'walkon setup database'", "error", err)
	}

	store := auth.NewStore(logger, config.Auth.SessionTTL(), backends...)
	gate := auth.NewGate(auth.GateConfig{
		ClientID:      config.Spotify.ClientID,
		RedirectURI:   config.Spotify.RedirectURI,
		Scope:         config.Spotify.ScopeString(),
		RequiredTier:  config.Auth.RequiredTier,
		RefreshBuffer: config.Auth.RefreshBuffer(),
		Logger:        logger,
	}, store)

	opts.Gate = gate
	opts.Service = services.NewSpotifyService(ctx, gate)

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "walkon",
		Usage:    "Walk-up song manager for game day",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
