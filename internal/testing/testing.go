// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/cadence/internal/models"
	"github.com/desertthunder/cadence/internal/services"
)

// MockCatalog is a test double for [services.Catalog]. Populate the
// slice fields with fixture data; set Err to force every call to fail.
type MockCatalog struct {
	mu sync.Mutex

	TrackList    []models.Track
	AlbumList    []models.Album
	ArtistList   []models.Artist
	PlaylistList []models.Playlist
	PlaylistByID map[string]*models.PlaylistTracks
	Err          error

	Calls      map[string]int
	PlayCounts map[string]int
}

func (m *MockCatalog) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[name]++
}

// CallCount returns how many times the named operation ran.
func (m *MockCatalog) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

func (m *MockCatalog) Tracks(ctx context.Context) ([]models.Track, error) {
	m.record("Tracks")
	return m.TrackList, m.Err
}

func (m *MockCatalog) Albums(ctx context.Context) ([]models.Album, error) {
	m.record("Albums")
	return m.AlbumList, m.Err
}

func (m *MockCatalog) Artists(ctx context.Context) ([]models.Artist, error) {
	m.record("Artists")
	return m.ArtistList, m.Err
}

func (m *MockCatalog) Playlists(ctx context.Context) ([]models.Playlist, error) {
	m.record("Playlists")
	return m.PlaylistList, m.Err
}

func (m *MockCatalog) PlaylistTracks(ctx context.Context, playlistID string) (*models.PlaylistTracks, error) {
	m.record("PlaylistTracks")
	if m.Err != nil {
		return nil, m.Err
	}
	playlist, ok := m.PlaylistByID[playlistID]
	if !ok {
		return nil, fmt.Errorf("no playlist %s", playlistID)
	}
	return playlist, nil
}

func (m *MockCatalog) Search(ctx context.Context, query string) (*services.SearchResults, error) {
	m.record("Search")
	if m.Err != nil {
		return nil, m.Err
	}

	results := &services.SearchResults{}
	for _, track := range m.TrackList {
		if track.Title == query || track.Artist == query {
			results.Tracks = append(results.Tracks, track)
		}
	}
	return results, nil
}

func (m *MockCatalog) StreamURL(ctx context.Context, trackID string) (string, error) {
	m.record("StreamURL")
	if m.Err != nil {
		return "", m.Err
	}
	return "stream://" + trackID, nil
}

func (m *MockCatalog) IncrementPlayCount(ctx context.Context, trackID string) error {
	m.record("IncrementPlayCount")
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayCounts == nil {
		m.PlayCounts = map[string]int{}
	}
	m.PlayCounts[trackID]++
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

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
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
