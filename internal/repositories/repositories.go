// package repositories provides the persistence layer for sync history and
// the confirmed-match cache, backed by SQLite.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/plsync/plsync/internal/shared"
)

// SyncRun is one recorded reconciliation run.
type SyncRun struct {
	ID             string
	CollectionName string
	TotalTracks    int
	FoundTracks    int
	SkippedTracks  int
	NotFoundTracks int
	RemovedTracks  int
	LikedTracks    int
	ExactMatches   int
	FuzzyGood      int
	FuzzyMedium    int
	FuzzyBad       int
	IsDelta        bool
	CreatedAt      time.Time
}

// RunRepository persists [SyncRun] records.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new [RunRepository] with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run record with a generated ID.
func (r *RunRepository) Create(run *SyncRun) error {
	run.ID = shared.GenerateID()
	run.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO sync_runs (
			id, collection_name, total_tracks, found_tracks, skipped_tracks,
			not_found_tracks, removed_tracks, liked_tracks, exact_matches,
			fuzzy_good, fuzzy_medium, fuzzy_bad, is_delta, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID, run.CollectionName, run.TotalTracks, run.FoundTracks, run.SkippedTracks,
		run.NotFoundTracks, run.RemovedTracks, run.LikedTracks, run.ExactMatches,
		run.FuzzyGood, run.FuzzyMedium, run.FuzzyBad, run.IsDelta,
		run.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert sync run: %w", err)
	}
	return nil
}

// List retrieves the most recent runs, newest first.
func (r *RunRepository) List(limit int) ([]*SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, collection_name, total_tracks, found_tracks, skipped_tracks,
			not_found_tracks, removed_tracks, liked_tracks, exact_matches,
			fuzzy_good, fuzzy_medium, fuzzy_bad, is_delta, created_at
		FROM sync_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync runs: %w", err)
	}
	defer rows.Close()

	var runs []*SyncRun
	for rows.Next() {
		var (
			run       SyncRun
			isDelta   int
			createdAt string
		)
		err := rows.Scan(&run.ID, &run.CollectionName, &run.TotalTracks, &run.FoundTracks,
			&run.SkippedTracks, &run.NotFoundTracks, &run.RemovedTracks, &run.LikedTracks,
			&run.ExactMatches, &run.FuzzyGood, &run.FuzzyMedium, &run.FuzzyBad,
			&isDelta, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync run: %w", err)
		}

		run.IsDelta = isDelta != 0
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			run.CreatedAt = ts
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}
