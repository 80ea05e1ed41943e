package sources

import (
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/models"
)

// ParseTrackLine splits a playlist file line into title and artist on the
// first " - " separator. Lines without the separator are all title.
func ParseTrackLine(line string) models.CanonicalTrack {
	title, artist, found := strings.Cut(line, " - ")
	if !found {
		return models.CanonicalTrack{Title: strings.TrimSpace(line)}
	}
	return models.CanonicalTrack{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
	}
}

// Normalize projects raw provider records into canonical tracks, preserving
// order. Records without a usable title are dropped and logged.
//
// LocalFile records carry the whole file line in Title and are split here,
// so that line parsing stays in one place.
func Normalize(kind Kind, raw []models.RawTrack, logger *log.Logger) []models.CanonicalTrack {
	tracks := make([]models.CanonicalTrack, 0, len(raw))
	for i, r := range raw {
		var t models.CanonicalTrack
		if kind == LocalFile {
			t = ParseTrackLine(r.Title)
		} else {
			t = models.CanonicalTrack{
				Title:  strings.TrimSpace(r.Title),
				Artist: strings.TrimSpace(r.Artist),
			}
		}

		if t.Title == "" {
			if logger != nil {
				logger.Warn("Dropping track without title", "source", kind.String(), "index", i)
			}
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks
}
