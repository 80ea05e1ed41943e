package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
)

const (
	tidalAPIURL        = "https://api.tidal.com/v1"
	tidalTrackPageSize = 500
)

// TidalSource fetches playlists from the Tidal API using the public web
// client token.
type TidalSource struct {
	client      *http.Client
	baseURL     string
	token       string
	countryCode string
	workers     int
	logger      *log.Logger
}

// NewTidalSource creates a Tidal fetcher. workers bounds the track
// processing pool; values below 1 fall back to a single worker.
func NewTidalSource(client *http.Client, token, countryCode string, workers int, logger *log.Logger) *TidalSource {
	if client == nil {
		client = http.DefaultClient
	}
	if workers < 1 {
		workers = 1
	}
	if countryCode == "" {
		countryCode = "US"
	}
	return &TidalSource{
		client:      client,
		baseURL:     tidalAPIURL,
		token:       token,
		countryCode: countryCode,
		workers:     workers,
		logger:      logger,
	}
}

// Name identifies this fetcher in logs and run records.
func (s *TidalSource) Name() string { return "tidal" }

type tidalPlaylist struct {
	Title string `json:"title"`
	Image string `json:"image"`
	UUID  string `json:"uuid"`
}

type tidalTrackPage struct {
	Items []tidalTrackItem `json:"items"`
}

type tidalTrackItem struct {
	Title   string `json:"title"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
	Duration int    `json:"duration"`
	Cover    string `json:"cover"`
}

func (s *TidalSource) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}
	req.Header.Set("x-tidal-token", s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrPlaylistNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", shared.ErrFetch, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrFetch, err)
	}
	return nil
}

// FetchPlaylist retrieves playlist metadata and its track page, then
// projects the items through a bounded worker pool that preserves playlist
// order and reports per-item progress.
func (s *TidalSource) FetchPlaylist(ctx context.Context, src Source, onItem ItemFunc) (*models.PlaylistMeta, []models.RawTrack, error) {
	var pl tidalPlaylist
	if err := s.get(ctx, fmt.Sprintf("%s/playlists/%s?countryCode=%s", s.baseURL, src.ID, s.countryCode), &pl); err != nil {
		return nil, nil, fmt.Errorf("tidal: %w", err)
	}

	var page tidalTrackPage
	tracksURL := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d&countryCode=%s", s.baseURL, src.ID, tidalTrackPageSize, s.countryCode)
	if err := s.get(ctx, tracksURL, &page); err != nil {
		return nil, nil, fmt.Errorf("tidal: %w", err)
	}

	meta := &models.PlaylistMeta{Name: pl.Title}
	if pl.Image != "" {
		meta.ImageURL = tidalCoverURL(pl.Image)
	}

	raw := s.projectTracks(ctx, page.Items, onItem)
	if s.logger != nil {
		s.logger.Info("Fetched Tidal playlist", "name", pl.Title, "tracks", len(raw))
	}
	return meta, raw, nil
}

// projectTracks converts track items in parallel, writing each result into
// its playlist position so output order never depends on scheduling.
func (s *TidalSource) projectTracks(ctx context.Context, items []tidalTrackItem, onItem ItemFunc) []models.RawTrack {
	results := make([]models.RawTrack, len(items))
	jobs := make(chan int, len(items))

	var completed int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				results[i] = projectTidalTrack(items[i])
				if onItem != nil {
					// Calling under the lock keeps reports ordered by
					// completion count.
					mu.Lock()
					completed++
					onItem(completed, len(items))
					mu.Unlock()
				}
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func projectTidalTrack(item tidalTrackItem) models.RawTrack {
	artist := item.Artist.Name
	if artist == "" && len(item.Artists) > 0 {
		artist = item.Artists[0].Name
	}
	t := models.RawTrack{
		Title:      item.Title,
		Artist:     artist,
		DurationMS: item.Duration * 1000,
	}
	if item.Cover != "" {
		t.ImageURL = tidalCoverURL(item.Cover)
	}
	return t
}

// tidalCoverURL converts a cover identifier like "a1-b2-c3" into the CDN
// image path Tidal serves artwork from.
func tidalCoverURL(id string) string {
	return fmt.Sprintf("https://resources.tidal.com/images/%s/640x640.jpg", strings.ReplaceAll(id, "-", "/"))
}
