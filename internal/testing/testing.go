// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/sources"
)

// MockFetcher is a test double for [sources.Fetcher].
type MockFetcher struct {
	Meta   *models.PlaylistMeta
	Tracks []models.RawTrack
	Err    error
}

func (m *MockFetcher) FetchPlaylist(ctx context.Context, src sources.Source, onItem sources.ItemFunc) (*models.PlaylistMeta, []models.RawTrack, error) {
	if m.Err != nil {
		return nil, nil, m.Err
	}
	if onItem != nil {
		onItem(len(m.Tracks), len(m.Tracks))
	}
	return m.Meta, m.Tracks, nil
}

func (m *MockFetcher) Name() string { return "mock" }

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

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MustWriteFile writes content to a file under a temp dir and returns its path.
func MustWriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
