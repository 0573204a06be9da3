package main

import (
	"context"
	"fmt"

	"github.com/plsync/plsync/internal/repositories"
	"github.com/urfave/cli/v3"
)

// Runs prints recent sync history from the local database.
func (r *Runner) Runs(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDatabase()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewRunRepository(db)
	runs, err := repo.List(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list sync runs: %w", err)
	}

	if len(runs) == 0 {
		r.writePlain("No sync runs recorded yet.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Sync history (%d runs)", len(runs)))
	for _, run := range runs {
		mode := "full"
		if run.IsDelta {
			mode = "delta"
		}
		r.writePlain("%s  %s (%s)\n", run.CreatedAt.Format("2006-01-02 15:04"), run.CollectionName, mode)
		r.writePlain("   added %d, skipped %d, not found %d", run.FoundTracks, run.SkippedTracks, run.NotFoundTracks)
		if run.RemovedTracks > 0 {
			r.writePlain(", removed %d", run.RemovedTracks)
		}
		if run.LikedTracks > 0 {
			r.writePlain(", liked %d", run.LikedTracks)
		}
		r.writePlain("\n")
	}
	return nil
}
