// package formatter provides functions to export collection data to various formats (CSV, Markdown, plain text)
// and to render sync results for the terminal.
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/shared"
	"github.com/plsync/plsync/internal/tasks"
)

// ExportToCSV converts a collection listing to CSV with columns: ID, Title, Artist, Album, Duration
func ExportToCSV(collection *models.Collection, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			strconv.Itoa(track.Duration),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a collection listing to Markdown format
func ExportToMarkdown(collection *models.Collection, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", collection.Name))

	if collection.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", collection.Description))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		duration := shared.FormatDuration(track.Duration)
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, track.Artist, track.Title, albumPart, duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a collection listing to plain text format
func ExportToText(collection *models.Collection, tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", collection.Name))
	if collection.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", collection.Description))
	}
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of collection metadata (without tracks)
func ToMetadataJSON(collection *models.Collection) ([]byte, error) {
	return json.MarshalIndent(collection, "", "  ")
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	TracksFile   string
	MetadataFile string
}

// WriteCSVExport exports a collection to CSV format with an accompanying metadata JSON file.
//
// Defaults to the collection ID as the base filename & creates {base}_tracks.csv and {base}_metadata.json
func WriteCSVExport(collection *models.Collection, tracks []models.Track, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = collection.ID
	}

	csvData, err := ExportToCSV(collection, tracks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		TracksFile:   tracksFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a collection to Markdown in a dedicated directory.
//
// Directory name defaults to the collection ID. Creates {dir}/README.md.
func WriteMarkdownExport(collection *models.Collection, tracks []models.Track, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = collection.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(collection, tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports a collection to plain text format.
//
// Defaults to {collection.ID}_tracks.txt as the filename.
func WriteTextExport(collection *models.Collection, tracks []models.Track, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_tracks.txt", collection.ID)
	}

	textData, err := ExportToText(collection, tracks)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// FormatSyncResult renders a run summary for the terminal.
func FormatSyncResult(result *tasks.SyncResult) string {
	var buf bytes.Buffer

	mode := "full"
	if result.IsDelta {
		mode = "delta"
	}

	buf.WriteString(fmt.Sprintf("Sync complete: %s (%s)\n", result.CollectionName, mode))
	buf.WriteString(fmt.Sprintf("  Total:     %d\n", result.TotalTracks))
	buf.WriteString(fmt.Sprintf("  Added:     %d\n", result.FoundTracks))
	buf.WriteString(fmt.Sprintf("  Skipped:   %d\n", result.SkippedTracks))
	buf.WriteString(fmt.Sprintf("  Not found: %d\n", result.NotFoundTracks))
	if result.RemovedTracks > 0 {
		buf.WriteString(fmt.Sprintf("  Removed:   %d\n", result.RemovedTracks))
	}
	if result.LikedTracks > 0 {
		buf.WriteString(fmt.Sprintf("  Liked:     %d\n", result.LikedTracks))
	}

	s := result.Stats
	buf.WriteString(fmt.Sprintf("  Matches:   %d exact, %d good, %d medium, %d bad\n",
		s.Exact, s.FuzzyGood, s.FuzzyMedium, s.FuzzyBad))
	buf.WriteString(fmt.Sprintf("  Success:   %.1f%%\n", result.SuccessRate()))

	if len(result.NotFound) > 0 {
		buf.WriteString("\nNot found:\n")
		for _, tr := range result.NotFound {
			buf.WriteString(fmt.Sprintf("  - %s - %s\n", tr.Artist, tr.Title))
		}
	}

	return buf.String()
}
