// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/marimeireles/spotify-to-youtube/internal/models"
)

// MockSource is a test double for [services.Source] with per-call hooks.
type MockSource struct {
	PlaylistFunc func(ctx context.Context, playlistID string) (*models.Playlist, error)
	TracksFunc   func(ctx context.Context, playlistID string) ([]models.Track, error)
}

func (m *MockSource) Playlist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if m.PlaylistFunc != nil {
		return m.PlaylistFunc(ctx, playlistID)
	}
	return &models.Playlist{ID: playlistID, Name: "mock playlist"}, nil
}

func (m *MockSource) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.TracksFunc != nil {
		return m.TracksFunc(ctx, playlistID)
	}
	return nil, nil
}

func (m *MockSource) Name() string { return "mock source" }

// MockSink is a test double for [services.Sink]. It records playlist
// writes and serves canned search results.
type MockSink struct {
	SearchFunc       func(ctx context.Context, query string, maxResults int) ([]string, error)
	DetailsFunc      func(ctx context.Context, ids []string) (map[string]models.Candidate, error)
	EnsureFunc       func(ctx context.Context, title string) (string, error)
	AddFunc          func(ctx context.Context, playlistID, videoID string) error
	Queries          []string
	Added            []string
	EnsuredPlaylists []string
}

func (m *MockSink) Search(ctx context.Context, query string, maxResults int) ([]string, error) {
	m.Queries = append(m.Queries, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, maxResults)
	}
	return nil, nil
}

func (m *MockSink) VideoDetails(ctx context.Context, ids []string) (map[string]models.Candidate, error) {
	if m.DetailsFunc != nil {
		return m.DetailsFunc(ctx, ids)
	}
	return map[string]models.Candidate{}, nil
}

func (m *MockSink) EnsurePlaylist(ctx context.Context, title string) (string, error) {
	m.EnsuredPlaylists = append(m.EnsuredPlaylists, title)
	if m.EnsureFunc != nil {
		return m.EnsureFunc(ctx, title)
	}
	return "PL-mock", nil
}

func (m *MockSink) AddPlaylistItem(ctx context.Context, playlistID, videoID string) error {
	m.Added = append(m.Added, videoID)
	if m.AddFunc != nil {
		return m.AddFunc(ctx, playlistID, videoID)
	}
	return nil
}

func (m *MockSink) Name() string { return "mock sink" }

// RoundTripFunc adapts a function to [http.RoundTripper].
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// JSONResponse builds an *http.Response with a JSON body for use with
// [RoundTripFunc].
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
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

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
