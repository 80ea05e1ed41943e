package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyTokenURL = "https://open.spotify.com/get_access_token?reason=transport&productType=embed"
	spotifyAPIURL   = "https://api.spotify.com/v1"
)

// TokenCache fetches and caches Spotify's anonymous embed token, refreshing
// it only once the cached token expires. Safe for concurrent use.
type TokenCache struct {
	client   *http.Client
	tokenURL string

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenCache creates a cache that requests anonymous tokens from the
// public embed endpoint.
func NewTokenCache(client *http.Client) *TokenCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &TokenCache{client: client, tokenURL: spotifyTokenURL}
}

type spotifyTokenResponse struct {
	AccessToken   string `json:"accessToken"`
	ExpirationMS  int64  `json:"accessTokenExpirationTimestampMs"`
	IsAnonymous   bool   `json:"isAnonymous"`
	ClientVersion string `json:"clientVersion"`
}

// Token returns a valid access token, fetching a fresh one when the cached
// token is missing or expired.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tokenURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenFetch, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: token endpoint returned %d", shared.ErrTokenFetch, resp.StatusCode)
	}

	var tr spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTokenFetch, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", shared.ErrTokenFetch)
	}

	c.token = &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      time.UnixMilli(tr.ExpirationMS),
	}
	return c.token.AccessToken, nil
}

// SpotifySource fetches public playlists through the Spotify web API using
// anonymous embed tokens.
type SpotifySource struct {
	client  *http.Client
	tokens  *TokenCache
	baseURL string
	logger  *log.Logger
}

// NewSpotifySource creates a Spotify fetcher backed by the given token cache.
func NewSpotifySource(client *http.Client, tokens *TokenCache, logger *log.Logger) *SpotifySource {
	if client == nil {
		client = http.DefaultClient
	}
	return &SpotifySource{client: client, tokens: tokens, baseURL: spotifyAPIURL, logger: logger}
}

// Name identifies this fetcher in logs and run records.
func (s *SpotifySource) Name() string { return "spotify" }

type spotifyPlaylist struct {
	Name   string `json:"name"`
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Tracks struct {
		Items []struct {
			Track struct {
				Name    string `json:"name"`
				Artists []struct {
					Name string `json:"name"`
				} `json:"artists"`
				DurationMS int `json:"duration_ms"`
			} `json:"track"`
		} `json:"items"`
	} `json:"tracks"`
}

// FetchPlaylist retrieves a playlist's name, cover image, and first page of
// tracks. Playlists longer than one API page are truncated to that page.
func (s *SpotifySource) FetchPlaylist(ctx context.Context, src Source, onItem ItemFunc) (*models.PlaylistMeta, []models.RawTrack, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("spotify: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/playlists/%s", s.baseURL, src.ID), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("spotify: %w: %v", shared.ErrFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("spotify: %w: %v", shared.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("spotify: %w: playlist %s", shared.ErrPlaylistNotFound, src.ID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("spotify: %w: status %d", shared.ErrFetch, resp.StatusCode)
	}

	var pl spotifyPlaylist
	if err := json.NewDecoder(resp.Body).Decode(&pl); err != nil {
		return nil, nil, fmt.Errorf("spotify: %w: %v", shared.ErrFetch, err)
	}

	meta := &models.PlaylistMeta{Name: pl.Name}
	if len(pl.Images) > 0 {
		meta.ImageURL = pl.Images[0].URL
	}

	raw := make([]models.RawTrack, 0, len(pl.Tracks.Items))
	for _, item := range pl.Tracks.Items {
		artist := ""
		if len(item.Track.Artists) > 0 {
			artist = item.Track.Artists[0].Name
		}
		raw = append(raw, models.RawTrack{
			Title:      item.Track.Name,
			Artist:     artist,
			DurationMS: item.Track.DurationMS,
		})
	}

	if onItem != nil {
		onItem(len(raw), len(raw))
	}
	if s.logger != nil {
		s.logger.Info("Fetched Spotify playlist", "name", pl.Name, "tracks", len(raw))
	}
	return meta, raw, nil
}
