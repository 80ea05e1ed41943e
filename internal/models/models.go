package models

import (
	"fmt"
	"time"

	"github.com/jaylex32/syncra/internal/shared"
)

// RawTrack is a provider-native track record. Transient: it exists only
// between the provider fetch and normalization.
type RawTrack struct {
	Title      string
	Artist     string
	ImageURL   string
	DurationMS int
}

// CanonicalTrack is the normalized (title, artist) pair used as the
// matching unit, independent of source provider format.
//
// Invariant: Title is non-empty; records that cannot yield a title are
// dropped during normalization and never become CanonicalTracks.
type CanonicalTrack struct {
	Title  string
	Artist string
}

// String renders the track in its "Title - Artist" display form.
func (t CanonicalTrack) String() string {
	return shared.TrackString(t.Title, t.Artist)
}

// PlaylistMeta holds the source playlist's display metadata.
type PlaylistMeta struct {
	Name     string
	ImageURL string
}

// ImportOutcome summarizes a materialized playlist. Terminal: produced
// once per run and not mutated after construction.
type ImportOutcome struct {
	PlaylistID   string           // Library key of the created playlist
	PlaylistName string           // Name it was created under
	MatchedCount int              // Tracks placed in the playlist
	TotalCount   int              // Canonical tracks that entered resolution
	Unmatched    []CanonicalTrack // Source-ordered tracks with no acceptable match
	ThumbnailSet bool             // Whether the cover image was applied
}

// ConversionStatus is the terminal status of a conversion run.
type ConversionStatus int

const (
	Succeeded ConversionStatus = iota
	Failed
)

func (s ConversionStatus) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return ""
	}
}

// ConversionResult is what a conversion run returns to its caller: either
// a populated outcome or a single human-readable failure reason.
type ConversionResult struct {
	Status      ConversionStatus
	Outcome     *ImportOutcome // nil when Status is Failed
	ErrorDetail string         // empty when Status is Succeeded
}

// ImportRun is the persisted audit record of one conversion run.
type ImportRun struct {
	ID           string
	Source       string // Source kind (spotify, deezer, tidal, local)
	PlaylistName string
	PlaylistID   string
	Status       string // ConversionStatus display form
	MatchedCount int
	TotalCount   int
	Unmatched    []string // Display strings of unmatched tracks
	ThumbnailSet bool
	Error        string
	CreatedAt    time.Time
}

// Validate checks that the run record has the fields the store requires.
func (r *ImportRun) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("import run missing id")
	}
	if r.Source == "" {
		return fmt.Errorf("import run missing source")
	}
	return nil
}
