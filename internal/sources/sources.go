package sources

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
)

// Kind enumerates the supported playlist sources.
type Kind int

const (
	Spotify Kind = iota
	Deezer
	Tidal
	LocalFile
)

func (k Kind) String() string {
	switch k {
	case Spotify:
		return "spotify"
	case Deezer:
		return "deezer"
	case Tidal:
		return "tidal"
	case LocalFile:
		return "local"
	default:
		return ""
	}
}

// Source identifies one playlist to convert. Constructed once per
// conversion request by [ParseSource] and passed around immutably.
type Source struct {
	Kind Kind
	ID   string // Playlist identifier for remote kinds
	Path string // File path for LocalFile
	Raw  string // Original descriptor, kept for logs and run records
}

// ParseSource resolves a playlist descriptor into a tagged [Source].
//
// HTTP(S) URLs are dispatched on their host; anything else is treated as
// a local playlist file path. Unrecognized hosts are rejected with
// [shared.ErrUnsupportedSource].
func ParseSource(descriptor string) (Source, error) {
	trimmed := strings.TrimSpace(descriptor)
	if trimmed == "" {
		return Source{}, fmt.Errorf("%w: empty playlist source", shared.ErrInvalidArgument)
	}

	u, err := url.Parse(trimmed)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return Source{Kind: LocalFile, Path: trimmed, Raw: trimmed}, nil
	}

	host := strings.ToLower(u.Hostname())
	id := lastPathSegment(u)

	switch {
	case host == "open.spotify.com":
		if id == "" {
			return Source{}, fmt.Errorf("%w: no playlist id in %q", shared.ErrInvalidArgument, trimmed)
		}
		return Source{Kind: Spotify, ID: id, Raw: trimmed}, nil
	case host == "deezer.com" || strings.HasSuffix(host, ".deezer.com"):
		if id == "" {
			return Source{}, fmt.Errorf("%w: no playlist id in %q", shared.ErrInvalidArgument, trimmed)
		}
		return Source{Kind: Deezer, ID: id, Raw: trimmed}, nil
	case host == "tidal.com" || strings.HasSuffix(host, ".tidal.com"):
		if id == "" {
			return Source{}, fmt.Errorf("%w: no playlist id in %q", shared.ErrInvalidArgument, trimmed)
		}
		return Source{Kind: Tidal, ID: id, Raw: trimmed}, nil
	default:
		return Source{}, fmt.Errorf("%w: %s", shared.ErrUnsupportedSource, host)
	}
}

func lastPathSegment(u *url.URL) string {
	seg := path.Base(strings.TrimSuffix(u.Path, "/"))
	if seg == "." || seg == "/" {
		return ""
	}
	return seg
}

// ItemFunc reports per-item fetch progress: completed items out of total.
type ItemFunc func(completed, total int)

// Fetcher retrieves a playlist's metadata and ordered track list from one
// source kind.
//
// onItem may be nil; fetchers that enrich tracks item by item (Tidal) call
// it after each processed item.
type Fetcher interface {
	FetchPlaylist(ctx context.Context, src Source, onItem ItemFunc) (*models.PlaylistMeta, []models.RawTrack, error)
	Name() string
}

// Registry maps source kinds to their fetchers.
type Registry struct {
	fetchers map[Kind]Fetcher
}

// NewRegistry creates a registry from the given fetchers.
func NewRegistry(spotify, deezer, tidal, local Fetcher) *Registry {
	return &Registry{fetchers: map[Kind]Fetcher{
		Spotify:   spotify,
		Deezer:    deezer,
		Tidal:     tidal,
		LocalFile: local,
	}}
}

// Fetcher returns the fetcher for the given source kind.
func (r *Registry) Fetcher(kind Kind) (Fetcher, error) {
	f, ok := r.fetchers[kind]
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedSource, kind)
	}
	return f, nil
}
