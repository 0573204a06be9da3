// Spotify implementation of [Service], backed by the zmb3/spotify SDK.
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/shared"
	spotify "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

// SpotifyService implements the Service interface for Spotify.
//
// Authentication uses a long-lived OAuth2 refresh token; the underlying
// [oauth2] transport exchanges and refreshes access tokens transparently.
type SpotifyService struct {
	client *spotify.Client
	logger *log.Logger

	mu             sync.Mutex
	userID         string
	trackCache     map[string][]models.Track
	favorites      map[string]struct{}
	favoritesValid bool
}

// NewSpotifyService creates a Spotify service from credentials. The logger
// may be nil.
func NewSpotifyService(ctx context.Context, cfg shared.SpotifyConfig, logger *log.Logger) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client id/secret", shared.ErrMissingCredentials)
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%w: spotify refresh token", shared.ErrMissingCredentials)
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistReadCollaborative,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopeUserLibraryModify,
		),
	)

	// An expired token with only a refresh token forces an immediate
	// refresh on first use.
	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
		Expiry:       time.Now().Add(-time.Hour),
	}

	client := spotify.New(auth.Client(ctx, token), spotify.WithRetry(true))

	return &SpotifyService{
		client:     client,
		logger:     logger,
		trackCache: make(map[string][]models.Track),
	}, nil
}

// Name returns the service name.
func (s *SpotifyService) Name() string { return "Spotify" }

// currentUserID resolves and memoizes the authenticated user's ID.
func (s *SpotifyService) currentUserID(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.userID != "" {
		id := s.userID
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: current user: %v", shared.ErrNotAuthenticated, err)
	}

	s.mu.Lock()
	s.userID = user.ID
	s.mu.Unlock()
	return user.ID, nil
}

// ListCollections retrieves all playlists of the authenticated user.
func (s *SpotifyService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	page, err := s.client.CurrentUsersPlaylists(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("%w: list playlists: %v", shared.ErrProvider, err)
	}

	var collections []models.Collection
	for {
		for _, pl := range page.Playlists {
			collections = append(collections, models.Collection{
				ID:          string(pl.ID),
				Name:        pl.Name,
				Description: pl.Description,
				TrackCount:  int(pl.Tracks.Total),
			})
		}
		if err := s.client.NextPage(ctx, page); err == spotify.ErrNoMorePages {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: list playlists page: %v", shared.ErrProvider, err)
		}
	}
	return collections, nil
}

// FindCollectionByName returns the playlist with the given name, or nil.
func (s *SpotifyService) FindCollectionByName(ctx context.Context, name string) (*models.Collection, error) {
	collections, err := s.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range collections {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

// CreateCollection creates a private playlist.
func (s *SpotifyService) CreateCollection(ctx context.Context, name, description string) (*models.Collection, error) {
	userID, err := s.currentUserID(ctx)
	if err != nil {
		return nil, err
	}

	pl, err := s.client.CreatePlaylistForUser(ctx, userID, name, description, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: create playlist: %v", shared.ErrProvider, err)
	}

	s.logger.Info("created spotify playlist", "name", name, "id", pl.ID)
	return &models.Collection{ID: string(pl.ID), Name: pl.Name, Description: pl.Description}, nil
}

// ListTracks returns the playlist's track listing, cached per run.
func (s *SpotifyService) ListTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	s.mu.Lock()
	if cached, ok := s.trackCache[collectionID]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	page, err := s.client.GetPlaylistItems(ctx, spotify.ID(collectionID))
	if err != nil {
		return nil, fmt.Errorf("%w: list tracks: %v", shared.ErrProvider, err)
	}

	var tracks []models.Track
	for {
		for _, item := range page.Items {
			if item.Track.Track == nil {
				continue // episodes and local files have no track object
			}
			tracks = append(tracks, fullTrackToModel(item.Track.Track))
		}
		if err := s.client.NextPage(ctx, page); err == spotify.ErrNoMorePages {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: list tracks page: %v", shared.ErrProvider, err)
		}
	}

	s.mu.Lock()
	s.trackCache[collectionID] = tracks
	s.mu.Unlock()
	return tracks, nil
}

// SearchTracks runs a track search and maps hits to candidates.
func (s *SpotifyService) SearchTracks(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}

	result, err := s.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, err
	}
	if result.Tracks == nil {
		return nil, nil
	}

	candidates := make([]models.SearchCandidate, 0, len(result.Tracks.Tracks))
	for _, tr := range result.Tracks.Tracks {
		artist := ""
		if len(tr.Artists) > 0 {
			artist = tr.Artists[0].Name
		}
		candidates = append(candidates, models.SearchCandidate{
			ID:       string(tr.ID),
			Title:    tr.Name,
			Artist:   artist,
			Duration: int(tr.TimeDuration().Seconds()),
		})
	}
	return candidates, nil
}

// AddTracks appends tracks to a playlist in one batch.
func (s *SpotifyService) AddTracks(ctx context.Context, collectionID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	ids := make([]spotify.ID, len(trackIDs))
	for i, id := range trackIDs {
		ids[i] = spotify.ID(id)
	}

	if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(collectionID), ids...); err != nil {
		return fmt.Errorf("%w: add tracks: %v", shared.ErrProvider, err)
	}

	s.invalidateCollection(collectionID)
	s.logger.Info("added tracks to spotify playlist", "count", len(trackIDs))
	return nil
}

// RemoveTracksByPosition removes the tracks at the given positions by
// resolving them to track IDs against the current listing.
func (s *SpotifyService) RemoveTracksByPosition(ctx context.Context, collectionID string, positions []int) error {
	tracks, err := s.ListTracks(ctx, collectionID)
	if err != nil {
		return err
	}

	var ids []spotify.ID
	for _, pos := range positions {
		if pos < 0 || pos >= len(tracks) {
			return fmt.Errorf("%w: position %d out of range", shared.ErrInvalidArgument, pos)
		}
		ids = append(ids, spotify.ID(tracks[pos].ID))
	}
	if len(ids) == 0 {
		return nil
	}

	if _, err := s.client.RemoveTracksFromPlaylist(ctx, spotify.ID(collectionID), ids...); err != nil {
		return fmt.Errorf("%w: remove tracks: %v", shared.ErrProvider, err)
	}

	s.invalidateCollection(collectionID)
	return nil
}

// GetFavoritedIDs returns the user's saved track IDs, cached per run.
func (s *SpotifyService) GetFavoritedIDs(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	if s.favoritesValid {
		favorites := s.favorites
		s.mu.Unlock()
		return favorites, nil
	}
	s.mu.Unlock()

	page, err := s.client.CurrentUsersTracks(ctx, spotify.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("%w: list saved tracks: %v", shared.ErrProvider, err)
	}

	favorites := make(map[string]struct{})
	for {
		for _, saved := range page.Tracks {
			favorites[string(saved.ID)] = struct{}{}
		}
		if err := s.client.NextPage(ctx, page); err == spotify.ErrNoMorePages {
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: list saved tracks page: %v", shared.ErrProvider, err)
		}
	}

	s.mu.Lock()
	s.favorites = favorites
	s.favoritesValid = true
	s.mu.Unlock()
	return favorites, nil
}

// AddFavorite saves one track to the user's library.
func (s *SpotifyService) AddFavorite(ctx context.Context, trackID string) error {
	if err := s.client.AddTracksToLibrary(ctx, spotify.ID(trackID)); err != nil {
		return fmt.Errorf("%w: save track: %v", shared.ErrProvider, err)
	}

	s.mu.Lock()
	s.favoritesValid = false
	s.mu.Unlock()
	return nil
}

func (s *SpotifyService) invalidateCollection(collectionID string) {
	s.mu.Lock()
	delete(s.trackCache, collectionID)
	s.mu.Unlock()
}

func fullTrackToModel(tr *spotify.FullTrack) models.Track {
	artist := ""
	if len(tr.Artists) > 0 {
		artist = tr.Artists[0].Name
	}
	return models.Track{
		ID:       string(tr.ID),
		Title:    tr.Name,
		Artist:   artist,
		Album:    tr.Album.Name,
		Duration: int(tr.TimeDuration().Seconds()),
	}
}
