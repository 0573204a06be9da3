package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/tasks"
)

func sampleCollection() (*models.Collection, []models.Track) {
	collection := &models.Collection{
		ID:          "col-1",
		Name:        "Road Trip",
		Description: "windows down",
		TrackCount:  2,
	}
	tracks := []models.Track{
		{ID: "t1", Title: "Stan", Artist: "Eminem", Album: "The Marshall Mathers LP", Duration: 404},
		{ID: "t2", Title: "Let It Be", Artist: "The Beatles", Duration: 243},
	}
	return collection, tracks
}

func TestExportToCSV(t *testing.T) {
	collection, tracks := sampleCollection()

	data, err := ExportToCSV(collection, tracks)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if lines[0] != "ID,Title,Artist,Album,Duration" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Stan") || !strings.Contains(lines[1], "404") {
		t.Errorf("unexpected first record: %s", lines[1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	collection, tracks := sampleCollection()

	data, err := ExportToMarkdown(collection, tracks)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "# Road Trip") {
		t.Errorf("expected title heading, got %q", out[:20])
	}
	if !strings.Contains(out, "**Description**: windows down") {
		t.Error("expected description line")
	}
	if !strings.Contains(out, "1. Eminem - Stan (The Marshall Mathers LP) [6:44]") {
		t.Errorf("expected formatted track line, got:\n%s", out)
	}
	if !strings.Contains(out, "2. The Beatles - Let It Be [4:03]") {
		t.Errorf("expected track without album parens, got:\n%s", out)
	}
}

func TestExportToText(t *testing.T) {
	collection, tracks := sampleCollection()

	data, err := ExportToText(collection, tracks)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "Playlist: Road Trip") {
		t.Error("expected playlist name")
	}
	if !strings.Contains(out, "2. The Beatles - Let It Be") {
		t.Error("expected numbered track lines")
	}
}

func TestWriteCSVExport(t *testing.T) {
	collection, tracks := sampleCollection()
	base := filepath.Join(t.TempDir(), "export")

	result, err := WriteCSVExport(collection, tracks, base)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.TracksFile != base+"_tracks.csv" {
		t.Errorf("unexpected tracks file %s", result.TracksFile)
	}
	if _, err := os.Stat(result.TracksFile); err != nil {
		t.Errorf("tracks file missing: %v", err)
	}

	metadata, err := os.ReadFile(result.MetadataFile)
	if err != nil {
		t.Fatalf("metadata file missing: %v", err)
	}
	if !strings.Contains(string(metadata), `"Road Trip"`) {
		t.Errorf("expected collection name in metadata, got %s", metadata)
	}
}

func TestWriteMarkdownExport(t *testing.T) {
	collection, tracks := sampleCollection()
	dir := filepath.Join(t.TempDir(), "md-export")

	mdFile, err := WriteMarkdownExport(collection, tracks, dir)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mdFile != dir+"/README.md" {
		t.Errorf("unexpected markdown path %s", mdFile)
	}
	if _, err := os.Stat(mdFile); err != nil {
		t.Errorf("markdown file missing: %v", err)
	}
}

func TestWriteTextExport(t *testing.T) {
	collection, tracks := sampleCollection()
	path := filepath.Join(t.TempDir(), "tracks.txt")

	out, err := WriteTextExport(collection, tracks, path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out != path {
		t.Errorf("unexpected path %s", out)
	}
}

func TestFormatSyncResult(t *testing.T) {
	result := &tasks.SyncResult{
		CollectionName: "Road Trip",
		TotalTracks:    10,
		FoundTracks:    6,
		SkippedTracks:  2,
		NotFoundTracks: 2,
		RemovedTracks:  1,
		IsDelta:        true,
		Stats:          tasks.MatchStats{Exact: 4, FuzzyGood: 1, FuzzyMedium: 1},
		NotFound: []models.Track{
			{Title: "Obscure", Artist: "Nobody"},
		},
	}

	out := FormatSyncResult(result)

	if !strings.Contains(out, "Road Trip (delta)") {
		t.Error("expected delta mode in header")
	}
	if !strings.Contains(out, "Added:     6") {
		t.Errorf("expected added count, got:\n%s", out)
	}
	if !strings.Contains(out, "4 exact, 1 good, 1 medium, 0 bad") {
		t.Errorf("expected match breakdown, got:\n%s", out)
	}
	if !strings.Contains(out, "Success:   75.0%") {
		t.Errorf("expected success rate, got:\n%s", out)
	}
	if !strings.Contains(out, "Nobody - Obscure") {
		t.Error("expected not-found listing")
	}
}
