package sources

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
)

// LocalFileSource reads playlists from plain text files, one track per line.
// Blank lines and lines starting with '#' (m3u directives, comments) are
// skipped.
type LocalFileSource struct {
	logger *log.Logger
}

// NewLocalFileSource creates a local file fetcher.
func NewLocalFileSource(logger *log.Logger) *LocalFileSource {
	return &LocalFileSource{logger: logger}
}

// Name identifies this fetcher in logs and run records.
func (s *LocalFileSource) Name() string { return "local" }

// FetchPlaylist reads the file at src.Path. The playlist name is the file
// name without its extension. Each kept line is stored whole in
// [models.RawTrack.Title] for the normalizer to split.
func (s *LocalFileSource) FetchPlaylist(ctx context.Context, src Source, onItem ItemFunc) (*models.PlaylistMeta, []models.RawTrack, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(src.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("local: %w: %v", shared.ErrFetch, err)
	}
	defer f.Close()

	var raw []models.RawTrack
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		raw = append(raw, models.RawTrack{Title: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("local: %w: %v", shared.ErrFetch, err)
	}

	name := strings.TrimSuffix(filepath.Base(src.Path), filepath.Ext(src.Path))
	if onItem != nil {
		onItem(len(raw), len(raw))
	}
	if s.logger != nil {
		s.logger.Info("Read playlist file", "name", name, "tracks", len(raw))
	}
	return &models.PlaylistMeta{Name: name}, raw, nil
}
