package main

import (
	"context"
	"errors"
	"os"

	"github.com/plsync/plsync/internal/services"
	"github.com/plsync/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.ApplyEnv()

	ctx := context.Background()

	var source services.Service
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.RefreshToken != "" {
		if svc, err := services.NewSpotifyService(ctx, config.Credentials.Spotify, logger); err == nil {
			source = svc
		} else {
			logger.Debug("spotify service unavailable", "error", err)
		}
	}

	var dest services.Service
	if config.Credentials.Tidal.AccessToken != "" {
		if svc, err := services.NewTidalService(config.Credentials.Tidal, logger); err == nil {
			dest = svc
		} else {
			logger.Debug("tidal service unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Source: source,
		Dest:   dest,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "plsync",
		Usage:    "Reconcile playlists between Spotify & Tidal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrReviewAborted) {
			logger.Warn("aborted")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
