package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/plsync/plsync/internal/formatter"
	"github.com/plsync/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes a playlist to disk in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.resolveService(cmd.String("service"))
	if err != nil {
		return err
	}

	playlistName := cmd.StringArg("playlist")
	if playlistName == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrInvalidArgument)
	}

	collection, err := svc.FindCollectionByName(ctx, playlistName)
	if err != nil {
		return fmt.Errorf("failed to look up playlist: %w", err)
	}
	if collection == nil {
		return fmt.Errorf("%w: %q on %s", shared.ErrCollectionNotFound, playlistName, svc.Name())
	}

	tracks, err := svc.ListTracks(ctx, collection.ID)
	if err != nil {
		return fmt.Errorf("failed to list tracks: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		output = sanitizeFilename(collection.Name)
	}

	switch format := cmd.String("format"); format {
	case "csv":
		result, err := formatter.WriteCSVExport(collection, tracks, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %d tracks to %s\n", len(tracks), result.TracksFile)
		r.writePlain("Metadata written to %s\n", result.MetadataFile)
	case "markdown":
		path, err := formatter.WriteMarkdownExport(collection, tracks, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %d tracks to %s\n", len(tracks), path)
	case "text":
		path, err := formatter.WriteTextExport(collection, tracks, output+".txt")
		if err != nil {
			return err
		}
		r.writePlain("Exported %d tracks to %s\n", len(tracks), path)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
	return nil
}

// sanitizeFilename keeps exported filenames shell-friendly.
func sanitizeFilename(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(name)
}
