package models

// Track is a track read from a provider's collection listing.
//
// Tracks are immutable values; two tracks from different providers are
// considered the same song only when their normalized (artist, title) keys
// match (see the norm package).
type Track struct {
	ID       string `json:"id"` // Provider-specific track identifier
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album,omitempty"`
	Duration int    `json:"duration"` // Duration in seconds, 0 when unknown
}

// SearchCandidate is a single provider hit for a search query.
//
// Candidates are transient; they exist only for the duration of one
// match attempt and are never persisted.
type SearchCandidate struct {
	ID       string `json:"id"` // Provider-specific track identifier
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Duration int    `json:"duration"` // Duration in seconds, 0 when unknown
}

// Collection is a provider-side named ordered list of tracks (a playlist
// or a favorites list).
type Collection struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	TrackCount  int    `json:"track_count"`
}

// Candidate converts a track into a search candidate, used when a provider
// returns full track objects from its search endpoint.
func (t Track) Candidate() SearchCandidate {
	return SearchCandidate{ID: t.ID, Title: t.Title, Artist: t.Artist, Duration: t.Duration}
}
