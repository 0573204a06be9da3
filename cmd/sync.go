package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/plsync/plsync/internal/formatter"
	"github.com/plsync/plsync/internal/repositories"
	"github.com/plsync/plsync/internal/retry"
	"github.com/plsync/plsync/internal/shared"
	"github.com/plsync/plsync/internal/tasks"
	"github.com/plsync/plsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// SyncRun runs a full Spotify → Tidal reconciliation.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if r.source == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	if r.dest == nil {
		return fmt.Errorf("%w: Tidal service not initialized", shared.ErrServiceUnavailable)
	}

	playlistName := cmd.StringArg("playlist")
	if playlistName == "" {
		collections, err := r.source.ListCollections(ctx)
		if err != nil {
			return fmt.Errorf("failed to list playlists: %w", err)
		}
		selected, err := ui.SelectCollection("Choose a playlist to sync", collections)
		if err != nil {
			return err
		}
		playlistName = selected.Name
	}

	r.logger.Info("starting sync", "playlist", playlistName)
	r.writePlain("Syncing %q from %s to %s...\n\n", playlistName, r.source.Name(), r.dest.Name())

	// Persistence is best-effort: a missing database disables history and
	// the match cache but never blocks a sync.
	var (
		cache tasks.MatchCacher
		runs  *repositories.RunRepository
	)
	if db, err := r.openDatabase(); err != nil {
		r.logger.Warn("database unavailable, continuing without history", "error", err)
	} else {
		defer db.Close()
		runs = repositories.NewRunRepository(db)
		if !cmd.Bool("no-cache") {
			cache = repositories.NewMatchCacheAdapter(repositories.NewMatchCacheRepository(db), r.dest.Name(), r.logger)
		}
	}

	opts := tasks.Options{
		Workers:     cmd.Int("workers"),
		LikeWorkers: r.config.Sync.LikeWorkers,
		SearchLimit: r.config.Sync.SearchLimit,
		ExactOnly:   cmd.Bool("exact"),
		LikeTracks:  cmd.Bool("like"),
		Cleanup:     cmd.Bool("cleanup"),
	}
	if opts.Workers <= 0 {
		opts.Workers = r.config.Sync.Workers
	}
	if cmd.Bool("auto") {
		opts.ExactOnly = true
	} else {
		opts.ReviewFuzzy = ui.ReviewFuzzyMatches
		opts.ReviewOrphans = ui.ReviewOrphans
	}
	// Syncing a favorites playlist implies marking its tracks as favorites.
	if !opts.LikeTracks && isFavoritesName(playlistName) {
		opts.LikeTracks = true
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.SearchTracks:
				r.writePlain("   %s\n", update.Message)
			case tasks.Compare, tasks.CreateCollection, tasks.AddTracks, tasks.Cleanup:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	engine := tasks.NewReconciliationEngine(r.source, r.dest, r.logger, r.retryConfig(), cache)
	result, err := engine.Sync(ctx, playlistName, opts, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n%s", formatter.FormatSyncResult(result))

	if runs != nil {
		record := &repositories.SyncRun{
			CollectionName: result.CollectionName,
			TotalTracks:    result.TotalTracks,
			FoundTracks:    result.FoundTracks,
			SkippedTracks:  result.SkippedTracks,
			NotFoundTracks: result.NotFoundTracks,
			RemovedTracks:  result.RemovedTracks,
			LikedTracks:    result.LikedTracks,
			ExactMatches:   result.Stats.Exact,
			FuzzyGood:      result.Stats.FuzzyGood,
			FuzzyMedium:    result.Stats.FuzzyMedium,
			FuzzyBad:       result.Stats.FuzzyBad,
			IsDelta:        result.IsDelta,
		}
		if err := runs.Create(record); err != nil {
			r.logger.Warn("failed to record sync run", "error", err)
		}
	}

	return nil
}

func isFavoritesName(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "liked songs", "favorites", "favourites":
		return true
	}
	return false
}

// retryConfig builds the search retry policy from config.
func (r *Runner) retryConfig() retry.Config {
	cfg := retry.DefaultConfig()
	if r.config.Sync.RetryMaxAttempts > 0 {
		cfg.MaxAttempts = r.config.Sync.RetryMaxAttempts
	}
	if r.config.Sync.RetryBaseDelay > 0 {
		cfg.BaseDelay = time.Duration(r.config.Sync.RetryBaseDelay * float64(time.Second))
	}
	if r.config.Sync.RetryMaxDelay > 0 {
		cfg.MaxDelay = time.Duration(r.config.Sync.RetryMaxDelay * float64(time.Second))
	}
	return cfg
}
