package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/plsync/plsync/internal/models"
	"github.com/plsync/plsync/internal/shared"
	spotify "github.com/zmb3/spotify/v2"
)

// newTestSpotifyService builds a service whose SDK client talks to the test
// server, skipping OAuth entirely.
func newTestSpotifyService(serverURL string) *SpotifyService {
	return &SpotifyService{
		client:     spotify.New(http.DefaultClient, spotify.WithBaseURL(serverURL+"/")),
		logger:     shared.NewLogger(nil),
		trackCache: make(map[string][]models.Track),
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("fails without client credentials", func(t *testing.T) {
			_, err := NewSpotifyService(context.Background(), shared.SpotifyConfig{RefreshToken: "r"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("fails without refresh token", func(t *testing.T) {
			cfg := shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}
			_, err := NewSpotifyService(context.Background(), cfg, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Fatalf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := newTestSpotifyService(""); svc.Name() != "Spotify" {
			t.Errorf("expected name 'Spotify', got %s", svc.Name())
		}
	})

	t.Run("SearchTracks", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("expected path /search, got %s", r.URL.Path)
			}
			if got := r.URL.Query().Get("q"); got != "eminem stan" {
				t.Errorf("unexpected query %q", got)
			}
			if got := r.URL.Query().Get("type"); got != "track" {
				t.Errorf("expected type track, got %q", got)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"tracks": map[string]any{
					"items": []map[string]any{
						{
							"id":          "trk1",
							"name":        "Stan",
							"artists":     []map[string]any{{"name": "Eminem"}, {"name": "Dido"}},
							"duration_ms": 404000,
							"album":       map[string]any{"name": "The Marshall Mathers LP"},
						},
					},
					"total": 1,
				},
			})
		}))
		defer server.Close()

		svc := newTestSpotifyService(server.URL)
		candidates, err := svc.SearchTracks(context.Background(), "eminem stan", 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(candidates) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(candidates))
		}
		got := candidates[0]
		if got.ID != "trk1" || got.Title != "Stan" {
			t.Errorf("unexpected candidate %+v", got)
		}
		if got.Artist != "Eminem" {
			t.Errorf("expected primary artist Eminem, got %s", got.Artist)
		}
		if got.Duration != 404 {
			t.Errorf("expected duration in seconds 404, got %d", got.Duration)
		}
	})

	t.Run("ListCollections", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/me/playlists" {
				t.Errorf("expected path /me/playlists, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"id":          "pl1",
						"name":        "Liked Mix",
						"description": "best of",
						"tracks":      map[string]any{"total": 12},
					},
				},
				"total": 1,
			})
		}))
		defer server.Close()

		svc := newTestSpotifyService(server.URL)
		collections, err := svc.ListCollections(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(collections) != 1 {
			t.Fatalf("expected 1 collection, got %d", len(collections))
		}
		if collections[0].ID != "pl1" || collections[0].TrackCount != 12 {
			t.Errorf("unexpected collection %+v", collections[0])
		}
	})

	t.Run("ListTracks skips non-track items and caches", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"track": map[string]any{
							"type":        "track",
							"id":          "trk1",
							"name":        "Let It Be",
							"artists":     []map[string]any{{"name": "The Beatles"}},
							"duration_ms": 243000,
							"album":       map[string]any{"name": "Let It Be"},
						},
					},
					{"track": nil}, // podcast episode or local file
				},
				"total": 2,
			})
		}))
		defer server.Close()

		svc := newTestSpotifyService(server.URL)
		tracks, err := svc.ListTracks(context.Background(), "pl1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		if tracks[0].Duration != 243 {
			t.Errorf("expected duration 243, got %d", tracks[0].Duration)
		}

		if _, err := svc.ListTracks(context.Background(), "pl1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected cached second read, got %d calls", calls)
		}
	})

	t.Run("RemoveTracksByPosition rejects out-of-range positions", func(t *testing.T) {
		svc := newTestSpotifyService("")
		svc.trackCache["pl1"] = []models.Track{{ID: "trk1"}}

		err := svc.RemoveTracksByPosition(context.Background(), "pl1", []int{3})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
