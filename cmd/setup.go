package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/plsync/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase creates the local database and applies migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cfg, err := shared.LoadConfig(configPath)
	if err != nil {
		if !errors.Is(err, shared.ErrMissingConfig) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		r.logger.Info("config not found, using defaults", "path", configPath)
		cfg = shared.DefaultConfig()
	}

	db, err := shared.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, cfg.Database)

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	r.logger.Info("database ready", "path", cfg.Database.Path)
	r.writePlain("Database initialized at %s\n", cfg.Database.Path)
	return nil
}

// SetupConfig writes a starter config file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	r.writePlain("Wrote %s\n", path)
	r.writePlain("Fill in your Spotify and Tidal credentials before syncing.\n")
	return nil
}
