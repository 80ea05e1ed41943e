package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/plex"
)

func sampleOutcome() *models.ImportOutcome {
	return &models.ImportOutcome{
		PlaylistID:   "555",
		PlaylistName: "Road Trip",
		MatchedCount: 2,
		TotalCount:   3,
		ThumbnailSet: true,
		Unmatched: []models.CanonicalTrack{
			{Title: "Rare Song", Artist: "Obscure Artist"},
		},
	}
}

func TestReportToText(t *testing.T) {
	t.Run("includes counts and unmatched list", func(t *testing.T) {
		text := string(ReportToText(sampleOutcome()))
		for _, want := range []string{"Road Trip", "2/3 tracks", "Rare Song - Obscure Artist", "Artwork:  set"} {
			if !strings.Contains(text, want) {
				t.Errorf("missing %q in:\n%s", want, text)
			}
		}
	})

	t.Run("omits unmatched section when everything matched", func(t *testing.T) {
		outcome := sampleOutcome()
		outcome.Unmatched = nil
		outcome.MatchedCount = 3
		text := string(ReportToText(outcome))
		if strings.Contains(text, "Unmatched") {
			t.Errorf("unexpected unmatched section:\n%s", text)
		}
	})
}

func TestReportToJSON(t *testing.T) {
	data, err := ReportToJSON(sampleOutcome())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		PlaylistID string `json:"playlist_id"`
		Matched    int    `json:"matched_count"`
		Unmatched  []struct {
			Title string `json:"title"`
		} `json:"unmatched"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.PlaylistID != "555" || decoded.Matched != 2 {
		t.Errorf("decoded %+v", decoded)
	}
	if len(decoded.Unmatched) != 1 || decoded.Unmatched[0].Title != "Rare Song" {
		t.Errorf("unmatched %+v", decoded.Unmatched)
	}
}

func TestExportToM3U(t *testing.T) {
	items := []plex.CandidateTrack{
		{
			Title:            "Take Five",
			GrandparentTitle: "Dave Brubeck",
			Duration:         324000,
			Parts:            []plex.MediaPart{{File: "/music/brubeck/take five.flac"}},
		},
		{Title: "So What", OriginalTitle: "Miles Davis", Duration: 545000},
	}

	out := string(ExportToM3U("Jazz", items))

	if !strings.HasPrefix(out, "#EXTM3U\n") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "#PLAYLIST:Jazz") {
		t.Errorf("missing playlist directive:\n%s", out)
	}
	if !strings.Contains(out, "#EXTINF:324,Dave Brubeck - Take Five\n/music/brubeck/take five.flac\n") {
		t.Errorf("missing file path entry:\n%s", out)
	}
	if !strings.Contains(out, "#EXTINF:545,Miles Davis - So What\nSo What - Miles Davis\n") {
		t.Errorf("missing display fallback entry:\n%s", out)
	}
}
