package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
)

const deezerAPIURL = "https://api.deezer.com"

// DeezerSource fetches public playlists from the Deezer API, which needs no
// authentication for public data.
type DeezerSource struct {
	client  *http.Client
	baseURL string
	logger  *log.Logger
}

// NewDeezerSource creates a Deezer fetcher.
func NewDeezerSource(client *http.Client, logger *log.Logger) *DeezerSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &DeezerSource{client: client, baseURL: deezerAPIURL, logger: logger}
}

// Name identifies this fetcher in logs and run records.
func (s *DeezerSource) Name() string { return "deezer" }

type deezerPlaylist struct {
	Title     string `json:"title"`
	PictureXL string `json:"picture_xl"`
	Tracks    struct {
		Data []struct {
			Title  string `json:"title"`
			Artist struct {
				Name string `json:"name"`
			} `json:"artist"`
			Duration int `json:"duration"`
		} `json:"data"`
	} `json:"tracks"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// FetchPlaylist retrieves a playlist's title, cover, and tracks.
func (s *DeezerSource) FetchPlaylist(ctx context.Context, src Source, onItem ItemFunc) (*models.PlaylistMeta, []models.RawTrack, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/playlist/%s", s.baseURL, src.ID), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("deezer: %w: %v", shared.ErrFetch, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("deezer: %w: %v", shared.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("deezer: %w: status %d", shared.ErrFetch, resp.StatusCode)
	}

	var pl deezerPlaylist
	if err := json.NewDecoder(resp.Body).Decode(&pl); err != nil {
		return nil, nil, fmt.Errorf("deezer: %w: %v", shared.ErrFetch, err)
	}

	// Deezer reports missing playlists inside a 200 body.
	if pl.Error != nil {
		return nil, nil, fmt.Errorf("deezer: %w: %s", shared.ErrPlaylistNotFound, pl.Error.Message)
	}

	meta := &models.PlaylistMeta{Name: pl.Title, ImageURL: pl.PictureXL}
	raw := make([]models.RawTrack, 0, len(pl.Tracks.Data))
	for _, t := range pl.Tracks.Data {
		raw = append(raw, models.RawTrack{
			Title:      t.Title,
			Artist:     t.Artist.Name,
			DurationMS: t.Duration * 1000,
		})
	}

	if onItem != nil {
		onItem(len(raw), len(raw))
	}
	if s.logger != nil {
		s.logger.Info("Fetched Deezer playlist", "name", pl.Title, "tracks", len(raw))
	}
	return meta, raw, nil
}
