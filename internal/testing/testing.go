// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/plsync/plsync/internal/models"
)

// MockService is a configurable test double for [services.Service].
type MockService struct {
	ServiceName   string
	Collections   []models.Collection
	Tracks        map[string][]models.Track
	SearchResults map[string][]models.SearchCandidate
	Favorites     map[string]struct{}
	Err           error

	AddedTracks      map[string][]string
	RemovedPositions map[string][]int
	FavoritedTracks  []string
}

// NewMockService creates an empty mock.
func NewMockService(name string) *MockService {
	return &MockService{
		ServiceName:      name,
		Tracks:           make(map[string][]models.Track),
		SearchResults:    make(map[string][]models.SearchCandidate),
		Favorites:        make(map[string]struct{}),
		AddedTracks:      make(map[string][]string),
		RemovedPositions: make(map[string][]int),
	}
}

func (m *MockService) Name() string { return m.ServiceName }

func (m *MockService) ListCollections(ctx context.Context) ([]models.Collection, error) {
	return m.Collections, m.Err
}

func (m *MockService) FindCollectionByName(ctx context.Context, name string) (*models.Collection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Collections {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (m *MockService) CreateCollection(ctx context.Context, name, description string) (*models.Collection, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	c := models.Collection{ID: "mock-" + name, Name: name, Description: description}
	m.Collections = append(m.Collections, c)
	return &c, nil
}

func (m *MockService) ListTracks(ctx context.Context, collectionID string) ([]models.Track, error) {
	return m.Tracks[collectionID], m.Err
}

func (m *MockService) SearchTracks(ctx context.Context, query string, limit int) ([]models.SearchCandidate, error) {
	return m.SearchResults[query], m.Err
}

func (m *MockService) AddTracks(ctx context.Context, collectionID string, trackIDs []string) error {
	if m.Err != nil {
		return m.Err
	}
	m.AddedTracks[collectionID] = append(m.AddedTracks[collectionID], trackIDs...)
	return nil
}

func (m *MockService) RemoveTracksByPosition(ctx context.Context, collectionID string, positions []int) error {
	if m.Err != nil {
		return m.Err
	}
	m.RemovedPositions[collectionID] = append(m.RemovedPositions[collectionID], positions...)
	return nil
}

func (m *MockService) GetFavoritedIDs(ctx context.Context) (map[string]struct{}, error) {
	return m.Favorites, m.Err
}

func (m *MockService) AddFavorite(ctx context.Context, trackID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Favorites[trackID] = struct{}{}
	m.FavoritedTracks = append(m.FavoritedTracks, trackID)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
