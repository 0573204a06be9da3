package services

import (
	"context"

	"github.com/plsync/plsync/internal/models"
)

// Service defines the capability surface the reconciliation engine needs from
// a music provider. Source and destination are interchangeable in role; a
// provider used only as a source will never see its mutating methods called.
type Service interface {
	// Name returns the provider name (e.g. "Spotify", "Tidal").
	Name() string

	// ListCollections retrieves the authenticated user's collections.
	ListCollections(ctx context.Context) ([]models.Collection, error)

	// FindCollectionByName returns the user's collection with the given name,
	// or nil when no collection matches.
	FindCollectionByName(ctx context.Context, name string) (*models.Collection, error)

	// CreateCollection creates a new collection and returns it.
	CreateCollection(ctx context.Context, name, description string) (*models.Collection, error)

	// ListTracks returns the ordered track listing of a collection.
	ListTracks(ctx context.Context, collectionID string) ([]models.Track, error)

	// SearchTracks runs a text search and returns up to limit candidates.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error)

	// AddTracks appends the given provider track IDs to a collection in one
	// batch operation.
	AddTracks(ctx context.Context, collectionID string, trackIDs []string) error

	// RemoveTracksByPosition removes tracks at the given zero-based positions,
	// in the order supplied. Callers remove in descending position order so
	// earlier removals cannot shift later positions.
	RemoveTracksByPosition(ctx context.Context, collectionID string, positions []int) error

	// GetFavoritedIDs returns the set of track IDs in the user's favorites.
	GetFavoritedIDs(ctx context.Context) (map[string]struct{}, error)

	// AddFavorite adds one track to the user's favorites.
	AddFavorite(ctx context.Context, trackID string) error
}
