// Tidal API implementation of [Service]
//
// Response types based on the Tidal v1 REST API (api.tidal.com/v1).
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultTidalBaseURL = "https://api.tidal.com/v1"

	// favoritesFetchLimit bounds the one-shot favorites listing.
	favoritesFetchLimit = 10000

	// tidalRequestsPerSec is the client-side ceiling; Tidal throttles
	// aggressively above ~4 rps.
	tidalRequestsPerSec = 4
)

// TidalArtist represents an artist in Tidal responses.
type TidalArtist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TidalTrack represents a track in Tidal responses.
type TidalTrack struct {
	ID       int          `json:"id"`
	Title    string       `json:"title"`
	Duration int          `json:"duration"` // seconds
	Artist   *TidalArtist `json:"artist"`
	Album    *struct {
		Title string `json:"title"`
	} `json:"album"`
}

// TidalPlaylist represents a playlist in Tidal responses.
type TidalPlaylist struct {
	UUID           string `json:"uuid"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	NumberOfTracks int    `json:"numberOfTracks"`
}

type tidalPage[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalNumberOfItems"`
}

type tidalSearchResponse struct {
	Tracks tidalPage[TidalTrack] `json:"tracks"`
}

type tidalFavoriteItem struct {
	Item TidalTrack `json:"item"`
}

// TidalService implements the Service interface against the Tidal REST API.
//
// The service owns two run-scoped caches (per-playlist track listings and
// the favorited-ID set); both are invalidated after any mutating call.
type TidalService struct {
	baseURL    string
	token      string
	userID     string
	country    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger

	mu             sync.Mutex
	trackCache     map[string][]models.Track
	favorites      map[string]struct{}
	favoritesValid bool
}

// NewTidalService creates a Tidal service from credentials. The logger may
// be nil.
func NewTidalService(cfg shared.TidalConfig, logger *log.Logger) (*TidalService, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("%w: tidal access token", shared.ErrMissingCredentials)
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("%w: tidal user id", shared.ErrMissingCredentials)
	}

	country := cfg.CountryCode
	if country == "" {
		country = "US"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &TidalService{
		baseURL:    defaultTidalBaseURL,
		token:      cfg.AccessToken,
		userID:     cfg.UserID,
		country:    country,
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(tidalRequestsPerSec), 1),
		logger:     logger,
		trackCache: make(map[string][]models.Track),
	}, nil
}

// Name returns the service name.
func (t *TidalService) Name() string { return "Tidal" }

// doRequest performs a rate-limited, authenticated request. form non-nil
// sends a URL-encoded body; result non-nil decodes the JSON response into it.
// The response ETag is returned for mutation sequencing.
func (t *TidalService) doRequest(ctx context.Context, method, endpoint string, query url.Values, form url.Values, etag string, result any) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	apiURL := t.baseURL + endpoint
	if query == nil {
		query = url.Values{}
	}
	query.Set("countryCode", t.country)
	apiURL += "?" + query.Encode()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+t.token)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", fmt.Errorf("%w: tidal session", shared.ErrTokenExpired)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			UserMessage string `json:"userMessage"`
		}
		if json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.UserMessage != "" {
			return "", fmt.Errorf("tidal API error: status %d: %s", resp.StatusCode, errResp.UserMessage)
		}
		return "", fmt.Errorf("tidal API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.Header.Get("ETag"), nil
}

// SearchTracks runs a track search and maps the hits to candidates.
func (t *TidalService) SearchTracks(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("types", "TRACKS")

	var resp tidalSearchResponse
	if _, err := t.doRequest(ctx, http.MethodGet, "/search/tracks", params, nil, "", &resp); err != nil {
		return nil, err
	}

	candidates := make([]models.SearchCandidate, 0, len(resp.Tracks.Items))
	for _, tr := range resp.Tracks.Items {
		candidates = append(candidates, trackToCandidate(tr))
	}
	return candidates, nil
}

// ListCollections returns the user's playlists.
func (t *TidalService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	var resp tidalPage[TidalPlaylist]
	endpoint := fmt.Sprintf("/users/%s/playlists", t.userID)
	if _, err := t.doRequest(ctx, http.MethodGet, endpoint, nil, nil, "", &resp); err != nil {
		return nil, fmt.Errorf("%w: list playlists: %v", shared.ErrProvider, err)
	}

	collections := make([]models.Collection, 0, len(resp.Items))
	for _, pl := range resp.Items {
		collections = append(collections, models.Collection{
			ID:          pl.UUID,
			Name:        pl.Title,
			Description: pl.Description,
			TrackCount:  pl.NumberOfTracks,
		})
	}
	return collections, nil
}

// FindCollectionByName returns the first playlist whose title matches name,
// or nil when none does.
func (t *TidalService) FindCollectionByName(ctx context.Context, name string) (*models.Collection, error) {
	collections, err := t.ListCollections(ctx)
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

// CreateCollection creates a playlist.
func (t *TidalService) CreateCollection(ctx context.Context, name, description string) (*models.Collection, error) {
	form := url.Values{}
	form.Set("title", name)
	form.Set("description", description)

	var pl TidalPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", t.userID)
	if _, err := t.doRequest(ctx, http.MethodPost, endpoint, nil, form, "", &pl); err != nil {
		return nil, fmt.Errorf("%w: create playlist: %v", shared.ErrProvider, err)
	}

	t.logger.Info("created tidal playlist", "name", name, "uuid", pl.UUID)
	return &models.Collection{ID: pl.UUID, Name: pl.Title, Description: pl.Description}, nil
}

// ListTracks returns the playlist's track listing, cached per run.
func (t *TidalService) ListTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	t.mu.Lock()
	if cached, ok := t.trackCache[collectionID]; ok {
		t.mu.Unlock()
		return cached, nil
	}
	t.mu.Unlock()

	var resp tidalPage[TidalTrack]
	endpoint := fmt.Sprintf("/playlists/%s/tracks", collectionID)
	params := url.Values{}
	params.Set("limit", strconv.Itoa(favoritesFetchLimit))
	if _, err := t.doRequest(ctx, http.MethodGet, endpoint, params, nil, "", &resp); err != nil {
		return nil, fmt.Errorf("%w: list tracks: %v", shared.ErrProvider, err)
	}

	tracks := make([]models.Track, 0, len(resp.Items))
	for _, tr := range resp.Items {
		tracks = append(tracks, trackToModel(tr))
	}

	t.mu.Lock()
	t.trackCache[collectionID] = tracks
	t.mu.Unlock()
	return tracks, nil
}

// AddTracks appends tracks in a single batch, guarded by the playlist ETag.
func (t *TidalService) AddTracks(ctx context.Context, collectionID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	etag, err := t.playlistETag(ctx, collectionID)
	if err != nil {
		return fmt.Errorf("%w: fetch playlist etag: %v", shared.ErrProvider, err)
	}

	form := url.Values{}
	form.Set("trackIds", strings.Join(trackIDs, ","))
	form.Set("onDupes", "FAIL")

	endpoint := fmt.Sprintf("/playlists/%s/items", collectionID)
	if _, err := t.doRequest(ctx, http.MethodPost, endpoint, nil, form, etag, nil); err != nil {
		return fmt.Errorf("%w: add tracks: %v", shared.ErrProvider, err)
	}

	t.invalidateCollection(collectionID)
	t.logger.Info("added tracks to tidal playlist", "count", len(trackIDs))
	return nil
}

// RemoveTracksByPosition deletes playlist items one position at a time, in
// the order supplied by the caller.
func (t *TidalService) RemoveTracksByPosition(ctx context.Context, collectionID string, positions []int) error {
	for _, pos := range positions {
		etag, err := t.playlistETag(ctx, collectionID)
		if err != nil {
			return fmt.Errorf("%w: fetch playlist etag: %v", shared.ErrProvider, err)
		}

		endpoint := fmt.Sprintf("/playlists/%s/items/%d", collectionID, pos)
		if _, err := t.doRequest(ctx, http.MethodDelete, endpoint, nil, nil, etag, nil); err != nil {
			return fmt.Errorf("%w: remove track at %d: %v", shared.ErrProvider, pos, err)
		}
		// Each removal changes the ETag, so invalidate eagerly.
		t.invalidateCollection(collectionID)
	}

	if len(positions) > 0 {
		t.logger.Info("removed tracks from tidal playlist", "count", len(positions))
	}
	return nil
}

// GetFavoritedIDs returns the user's favorited track IDs, fetched once per
// run and cached until a favorite mutation.
func (t *TidalService) GetFavoritedIDs(ctx context.Context) (map[string]struct{}, error) {
	t.mu.Lock()
	if t.favoritesValid {
		favorites := t.favorites
		t.mu.Unlock()
		return favorites, nil
	}
	t.mu.Unlock()

	params := url.Values{}
	params.Set("limit", strconv.Itoa(favoritesFetchLimit))

	var resp tidalPage[tidalFavoriteItem]
	endpoint := fmt.Sprintf("/users/%s/favorites/tracks", t.userID)
	if _, err := t.doRequest(ctx, http.MethodGet, endpoint, params, nil, "", &resp); err != nil {
		return nil, fmt.Errorf("%w: list favorites: %v", shared.ErrProvider, err)
	}

	favorites := make(map[string]struct{}, len(resp.Items))
	for _, item := range resp.Items {
		favorites[strconv.Itoa(item.Item.ID)] = struct{}{}
	}

	t.mu.Lock()
	t.favorites = favorites
	t.favoritesValid = true
	t.mu.Unlock()
	return favorites, nil
}

// AddFavorite adds one track to the user's favorites and invalidates the
// favorites cache.
func (t *TidalService) AddFavorite(ctx context.Context, trackID string) error {
	form := url.Values{}
	form.Set("trackId", trackID)

	endpoint := fmt.Sprintf("/users/%s/favorites/tracks", t.userID)
	if _, err := t.doRequest(ctx, http.MethodPost, endpoint, nil, form, "", nil); err != nil {
		return fmt.Errorf("%w: add favorite: %v", shared.ErrProvider, err)
	}

	t.mu.Lock()
	t.favoritesValid = false
	t.mu.Unlock()
	return nil
}

// playlistETag fetches the current playlist ETag required by mutation calls.
func (t *TidalService) playlistETag(ctx context.Context, collectionID string) (string, error) {
	endpoint := fmt.Sprintf("/playlists/%s", collectionID)
	var pl TidalPlaylist
	etag, err := t.doRequest(ctx, http.MethodGet, endpoint, nil, nil, "", &pl)
	if err != nil {
		return "", err
	}
	return etag, nil
}

func (t *TidalService) invalidateCollection(collectionID string) {
	t.mu.Lock()
	delete(t.trackCache, collectionID)
	t.mu.Unlock()
}

func trackToCandidate(tr TidalTrack) models.SearchCandidate {
	artist := ""
	if tr.Artist != nil {
		artist = tr.Artist.Name
	}
	return models.SearchCandidate{
		ID:       strconv.Itoa(tr.ID),
		Title:    tr.Title,
		Artist:   artist,
		Duration: tr.Duration,
	}
}

func trackToModel(tr TidalTrack) models.Track {
	artist := ""
	if tr.Artist != nil {
		artist = tr.Artist.Name
	}
	album := ""
	if tr.Album != nil {
		album = tr.Album.Title
	}
	return models.Track{
		ID:       strconv.Itoa(tr.ID),
		Title:    tr.Title,
		Artist:   artist,
		Album:    album,
		Duration: tr.Duration,
	}
}
