// package formatter renders conversion outcomes and playlists to output
// formats (plain text, JSON, m3u)
package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/plex"
	"github.com/jaylex32/syncra/internal/shared"
)

// ReportToText renders a conversion outcome as a human-readable summary.
func ReportToText(outcome *models.ImportOutcome) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", outcome.PlaylistName))
	buf.WriteString(fmt.Sprintf("Matched:  %d/%d tracks\n", outcome.MatchedCount, outcome.TotalCount))
	if outcome.ThumbnailSet {
		buf.WriteString("Artwork:  set\n")
	}

	if len(outcome.Unmatched) > 0 {
		buf.WriteString("\nUnmatched tracks:\n")
		for i, track := range outcome.Unmatched {
			buf.WriteString(fmt.Sprintf("  %d. %s\n", i+1, track.String()))
		}
	}

	return buf.Bytes()
}

// ReportToJSON renders a conversion outcome as indented JSON.
func ReportToJSON(outcome *models.ImportOutcome) ([]byte, error) {
	type jsonTrack struct {
		Title  string `json:"title"`
		Artist string `json:"artist,omitempty"`
	}
	type jsonReport struct {
		PlaylistID   string      `json:"playlist_id"`
		PlaylistName string      `json:"playlist_name"`
		MatchedCount int         `json:"matched_count"`
		TotalCount   int         `json:"total_count"`
		ThumbnailSet bool        `json:"thumbnail_set"`
		Unmatched    []jsonTrack `json:"unmatched"`
	}

	report := jsonReport{
		PlaylistID:   outcome.PlaylistID,
		PlaylistName: outcome.PlaylistName,
		MatchedCount: outcome.MatchedCount,
		TotalCount:   outcome.TotalCount,
		ThumbnailSet: outcome.ThumbnailSet,
		Unmatched:    make([]jsonTrack, 0, len(outcome.Unmatched)),
	}
	for _, track := range outcome.Unmatched {
		report.Unmatched = append(report.Unmatched, jsonTrack{Title: track.Title, Artist: track.Artist})
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}

// ExportToM3U renders playlist items as an extended m3u document. Entry
// lines carry the media file path so the export is playable; items without
// file metadata fall back to their display form.
func ExportToM3U(title string, items []plex.CandidateTrack) []byte {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	buf.WriteString(fmt.Sprintf("#PLAYLIST:%s\n", title))
	for _, item := range items {
		seconds := item.Duration / 1000
		buf.WriteString(fmt.Sprintf("#EXTINF:%d,%s - %s\n", seconds, item.Artist(), item.Title))
		line := item.FilePath()
		if line == "" {
			line = shared.TrackString(item.Title, item.Artist())
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}
