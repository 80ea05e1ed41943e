package match

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/plex"
)

const (
	// titleWeight and artistWeight blend the two per-candidate scores.
	titleWeight  = 0.7
	artistWeight = 0.3

	// DefaultThreshold is the combined score a candidate must reach.
	DefaultThreshold = 70.0
)

// Searcher finds candidate tracks for a query string.
type Searcher interface {
	Search(ctx context.Context, query string) ([]plex.CandidateTrack, error)
}

// Result records the outcome of resolving one canonical track.
type Result struct {
	Track     models.CanonicalTrack
	Matched   bool
	Candidate *plex.CandidateTrack
	Score     float64
}

// Engine resolves canonical tracks against a library via fuzzy scoring.
type Engine struct {
	searcher  Searcher
	threshold float64
	logger    *log.Logger
}

// NewEngine creates a matching engine. A threshold of 0 or below falls back
// to [DefaultThreshold].
func NewEngine(searcher Searcher, threshold float64, logger *log.Logger) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{searcher: searcher, threshold: threshold, logger: logger}
}

// Score computes the combined similarity between a canonical track and one
// library candidate, 0..100.
func Score(track models.CanonicalTrack, candidate plex.CandidateTrack) float64 {
	titleScore := TokenSetRatio(track.Title, candidate.Title)
	artistScore := TokenSetRatio(track.Artist, candidate.Artist())
	return titleWeight*titleScore + artistWeight*artistScore
}

// Resolve searches the library for the track and scores every candidate,
// keeping the highest-scoring one. On ties the earliest candidate wins.
// Search failures degrade the track to unmatched rather than failing the
// run.
func (e *Engine) Resolve(ctx context.Context, track models.CanonicalTrack) Result {
	candidates, err := e.searcher.Search(ctx, track.Title)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("Library search failed", "track", track.String(), "error", err)
		}
		return Result{Track: track}
	}
	if len(candidates) == 0 {
		if e.logger != nil {
			e.logger.Debug("No candidates", "track", track.String())
		}
		return Result{Track: track}
	}

	best := -1
	bestScore := 0.0
	for i, candidate := range candidates {
		score := Score(track, candidate)
		if e.logger != nil {
			e.logger.Debug("Scored candidate",
				"track", track.String(),
				"candidate", candidate.Title,
				"candidateArtist", candidate.Artist(),
				"score", score)
		}
		if score > bestScore || best == -1 {
			best = i
			bestScore = score
		}
	}

	if bestScore < e.threshold {
		if e.logger != nil {
			e.logger.Info("Best candidate below threshold",
				"track", track.String(), "score", bestScore, "threshold", e.threshold)
		}
		return Result{Track: track, Score: bestScore}
	}

	chosen := candidates[best]
	if e.logger != nil {
		e.logger.Info("Matched track",
			"track", track.String(), "ratingKey", chosen.RatingKey, "score", bestScore)
	}
	return Result{Track: track, Matched: true, Candidate: &chosen, Score: bestScore}
}
