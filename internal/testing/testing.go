// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/playstats/internal/models"
)

// SampleStatsJSON is a well-formed stats service response for a three track playlist.
const SampleStatsJSON = `{
  "track_count": 3,
  "most_popular_track": "Song B",
  "most_popular_artist": "Drake",
  "most_tracks_artist": "Drake",
  "track_popularity_range": [12, 98],
  "tracks": [
    {"track_name": "Song A"},
    {"track_name": "Song B"},
    {"track_name": "Song C"}
  ]
}`

// SampleStats returns the decoded form of [SampleStatsJSON].
func SampleStats() *models.PlaylistStats {
	return &models.PlaylistStats{
		TrackCount:           3,
		MostPopularTrack:     "Song B",
		MostPopularArtist:    "Drake",
		MostTracksArtist:     "Drake",
		TrackPopularityRange: models.PopularityRange{12, 98},
		Tracks: []models.TrackName{
			{TrackName: "Song A"},
			{TrackName: "Song B"},
			{TrackName: "Song C"},
		},
	}
}

// SampleTracks returns a small playlist with genres on every artist.
func SampleTracks() []models.Track {
	drake := models.Artist{ID: "drake", Name: "Drake", Genres: []string{"canadian hip hop", "rap"}}
	taylor := models.Artist{ID: "taylor", Name: "Taylor Swift", Genres: []string{"pop"}}
	return []models.Track{
		{ID: "t1", Name: "Song A", Artists: []models.Artist{drake}, Popularity: 12, DurationMS: 200000},
		{ID: "t2", Name: "Song B", Artists: []models.Artist{drake, taylor}, Popularity: 98, DurationMS: 210000},
		{ID: "t3", Name: "Song C", Artists: []models.Artist{taylor}, Popularity: 50, DurationMS: 190000},
	}
}

// MockPlaylistSource is a test double for services.PlaylistSource.
type MockPlaylistSource struct {
	mu     sync.Mutex
	Tracks map[string][]models.Track
	Err    error
	Calls  []string
}

func (m *MockPlaylistSource) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, playlistID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Tracks[playlistID], nil
}

func (m *MockPlaylistSource) Name() string { return "mock" }

// MockFetcher is a test double for services.StatsFetcher.
//
// When Block is set, FetchStats waits for a value on it (or for ctx to end) before returning.
type MockFetcher struct {
	mu    sync.Mutex
	Stats map[string]*models.PlaylistStats
	Err   error
	Block chan struct{}
	Calls []string
}

func (m *MockFetcher) FetchStats(ctx context.Context, playlistID string) (*models.PlaylistStats, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, playlistID)
	block, stats, err := m.Block, m.Stats[playlistID], m.Err
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// CallCount returns the number of FetchStats calls so far.
func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
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

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
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
