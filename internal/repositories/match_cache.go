package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/plsync/plsync/internal/shared"
)

// MatchCacheRepository persists confirmed track matches keyed by normalized
// track key and destination service name. A cached entry lets later runs skip
// the search entirely.
type MatchCacheRepository struct {
	db *sql.DB
}

// NewMatchCacheRepository creates a new [MatchCacheRepository] with the given database connection
func NewMatchCacheRepository(db *sql.DB) *MatchCacheRepository {
	return &MatchCacheRepository{db: db}
}

// Get returns the cached destination track ID for a key, or sql.ErrNoRows.
func (r *MatchCacheRepository) Get(trackKey, service string) (string, error) {
	query := `SELECT service_track_id FROM match_cache WHERE track_key = ? AND service = ?`

	var trackID string
	err := r.db.QueryRow(query, trackKey, service).Scan(&trackID)
	if err != nil {
		return "", err
	}
	return trackID, nil
}

// Put stores a confirmed match. Re-confirming an existing key is a no-op.
func (r *MatchCacheRepository) Put(trackKey, service, trackID string) error {
	query := `INSERT INTO match_cache (track_key, service, service_track_id) VALUES (?, ?, ?)`

	if _, err := r.db.Exec(query, trackKey, service, trackID); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache match: %w", err)
	}
	return nil
}

// MatchCacheAdapter exposes [MatchCacheRepository] bound to one destination
// service through the engine's cacher interface. Persistence failures are
// logged and treated as misses so a broken database never blocks a sync.
type MatchCacheAdapter struct {
	repo    *MatchCacheRepository
	service string
	logger  *log.Logger
}

// NewMatchCacheAdapter creates an adapter for the given destination service.
// The logger may be nil.
func NewMatchCacheAdapter(repo *MatchCacheRepository, service string, logger *log.Logger) *MatchCacheAdapter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &MatchCacheAdapter{repo: repo, service: service, logger: logger}
}

// Lookup resolves a cached match for the track key.
func (a *MatchCacheAdapter) Lookup(ctx context.Context, trackKey string) (string, bool) {
	trackID, err := a.repo.Get(trackKey, a.service)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		a.logger.Warn("match cache lookup failed", "key", trackKey, "error", err)
		return "", false
	}
	return trackID, true
}

// Store records a confirmed match.
func (a *MatchCacheAdapter) Store(ctx context.Context, trackKey, trackID string) {
	if err := a.repo.Put(trackKey, a.service, trackID); err != nil {
		a.logger.Warn("match cache store failed", "key", trackKey, "error", err)
	}
}
