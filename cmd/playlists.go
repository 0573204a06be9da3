package main

import (
	"context"
	"fmt"

	"github.com/plsync/plsync/internal/shared"
	"github.com/plsync/plsync/internal/ui"
	"github.com/urfave/cli/v3"
)

// Playlists lists the playlists on a service, optionally drilling into
// one interactively.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(cmd.String("service"))
	if err != nil {
		return err
	}

	collections, err := svc.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("interactive") {
		selected, err := ui.SelectCollection(fmt.Sprintf("%s playlists", svc.Name()), collections)
		if err != nil {
			return err
		}
		tracks, err := svc.ListTracks(ctx, selected.ID)
		if err != nil {
			return fmt.Errorf("failed to list tracks: %w", err)
		}
		r.writePlainHeader(selected.Name)
		for i, track := range tracks {
			r.writePlain("%3d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDuration(track.Duration))
		}
		return nil
	}

	if cmd.Bool("json") || cmd.Bool("pretty") {
		return r.writeJSON(collections, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s playlists (%d)", svc.Name(), len(collections)))
	for _, collection := range collections {
		r.writePlain("%s (%d tracks)\n", collection.Name, collection.TrackCount)
		if collection.Description != "" {
			r.writePlain("   %s\n", shared.Truncate(collection.Description, 70))
		}
	}
	return nil
}
