package plex

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/shared"
)

// musicTrackType is the Plex metadata type for individual music tracks.
const musicTrackType = "10"

// CandidateTrack is one library track returned by a search.
//
// OriginalTitle carries the track-level artist credit when it differs from
// the album artist; GrandparentTitle is the album artist.
type CandidateTrack struct {
	RatingKey        string      `xml:"ratingKey,attr"`
	Title            string      `xml:"title,attr"`
	OriginalTitle    string      `xml:"originalTitle,attr"`
	GrandparentTitle string      `xml:"grandparentTitle,attr"`
	ParentTitle      string      `xml:"parentTitle,attr"`
	Duration         int         `xml:"duration,attr"`
	Parts            []MediaPart `xml:"Media>Part"`
}

// MediaPart is one on-disk file backing a track.
type MediaPart struct {
	File string `xml:"file,attr"`
}

// Artist returns the best available artist credit for the track.
func (t CandidateTrack) Artist() string {
	if t.OriginalTitle != "" {
		return t.OriginalTitle
	}
	return t.GrandparentTitle
}

// FilePath returns the on-disk path of the track's first media part, or
// the empty string when the metadata carries no file information.
func (t CandidateTrack) FilePath() string {
	for _, p := range t.Parts {
		if p.File != "" {
			return p.File
		}
	}
	return ""
}

// Playlist is a playlist known to the server.
type Playlist struct {
	RatingKey string `xml:"ratingKey,attr"`
	Title     string `xml:"title,attr"`
	LeafCount int    `xml:"leafCount,attr"`
	Duration  int    `xml:"duration,attr"`
}

type mediaContainer struct {
	XMLName           xml.Name         `xml:"MediaContainer"`
	MachineIdentifier string           `xml:"machineIdentifier,attr"`
	Tracks            []CandidateTrack `xml:"Track"`
	Playlists         []Playlist       `xml:"Playlist"`
}

// Client issues requests against one Plex server and library section.
type Client struct {
	baseURL   string
	token     string
	sectionID int
	client    *http.Client
	logger    *log.Logger

	mu        sync.Mutex
	machineID string
}

// NewClient creates a Plex client for the given server and music section.
func NewClient(cfg shared.PlexConfig, client *http.Client, logger *log.Logger) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.URL, "/"),
		token:     cfg.Token,
		sectionID: cfg.SectionID,
		client:    client,
		logger:    logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values) (*http.Response, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("X-Plex-Token", c.token)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLibraryRequest, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLibraryRequest, err)
	}
	return resp, nil
}

func (c *Client) getXML(ctx context.Context, path string, params url.Values, out *mediaContainer) error {
	resp, err := c.do(ctx, http.MethodGet, path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", shared.ErrLibraryRequest, path, resp.StatusCode)
	}
	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLibraryRequest, err)
	}
	return nil
}

// MachineID returns the server's machine identifier, fetching it once and
// caching it for the client's lifetime.
func (c *Client) MachineID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machineID != "" {
		return c.machineID, nil
	}

	var container mediaContainer
	if err := c.getXML(ctx, "/", nil, &container); err != nil {
		return "", err
	}
	if container.MachineIdentifier == "" {
		return "", fmt.Errorf("%w: server identity has no machine identifier", shared.ErrLibraryRequest)
	}
	c.machineID = container.MachineIdentifier
	return c.machineID, nil
}

// Search queries the music section for tracks matching the query string.
func (c *Client) Search(ctx context.Context, query string) ([]CandidateTrack, error) {
	params := url.Values{}
	params.Set("type", musicTrackType)
	params.Set("query", query)

	var container mediaContainer
	path := fmt.Sprintf("/library/sections/%d/search", c.sectionID)
	if err := c.getXML(ctx, path, params, &container); err != nil {
		return nil, err
	}
	return container.Tracks, nil
}

// CreatePlaylist creates an audio playlist containing the given tracks, in
// order, and returns its rating key.
func (c *Client) CreatePlaylist(ctx context.Context, title string, ratingKeys []string) (string, error) {
	if len(ratingKeys) == 0 {
		return "", fmt.Errorf("%w: playlist %q has no tracks", shared.ErrMaterialize, title)
	}

	machineID, err := c.MachineID(ctx)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("type", "audio")
	params.Set("title", title)
	params.Set("smart", "0")
	params.Set("uri", fmt.Sprintf("server://%s/com.plexapp.plugins.library/library/metadata/%s",
		machineID, strings.Join(ratingKeys, ",")))

	resp, err := c.do(ctx, http.MethodPost, "/playlists", params)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("%w: playlist creation returned %d", shared.ErrMaterialize, resp.StatusCode)
	}

	// Plex answers playlist creation in JSON regardless of the Accept header.
	var created struct {
		MediaContainer struct {
			Metadata []struct {
				RatingKey string `json:"ratingKey"`
				Title     string `json:"title"`
			} `json:"Metadata"`
		} `json:"MediaContainer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrMaterialize, err)
	}
	if len(created.MediaContainer.Metadata) == 0 {
		return "", fmt.Errorf("%w: creation response has no playlist", shared.ErrMaterialize)
	}

	key := created.MediaContainer.Metadata[0].RatingKey
	if c.logger != nil {
		c.logger.Info("Created playlist", "title", title, "ratingKey", key, "tracks", len(ratingKeys))
	}
	return key, nil
}

// SetThumbnail uploads a poster image for the playlist from a remote URL.
func (c *Client) SetThumbnail(ctx context.Context, ratingKey, imageURL string) error {
	params := url.Values{}
	params.Set("url", imageURL)

	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/library/metadata/%s/posters", ratingKey), params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: poster upload returned %d", shared.ErrLibraryRequest, resp.StatusCode)
	}
	return nil
}

// Playlists lists all playlists on the server.
func (c *Client) Playlists(ctx context.Context) ([]Playlist, error) {
	var container mediaContainer
	if err := c.getXML(ctx, "/playlists", nil, &container); err != nil {
		return nil, err
	}
	return container.Playlists, nil
}

// PlaylistItems returns the tracks of a playlist in playback order.
func (c *Client) PlaylistItems(ctx context.Context, ratingKey string) ([]CandidateTrack, error) {
	var container mediaContainer
	if err := c.getXML(ctx, fmt.Sprintf("/playlists/%s/items", ratingKey), nil, &container); err != nil {
		return nil, err
	}
	return container.Tracks, nil
}

// DeletePlaylist removes a playlist from the server.
func (c *Client) DeletePlaylist(ctx context.Context, ratingKey string) error {
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/playlists/%s", ratingKey), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: playlist delete returned %d", shared.ErrLibraryRequest, resp.StatusCode)
	}
	return nil
}
