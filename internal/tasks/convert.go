package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/match"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
	"github.com/jaylex32/syncra/internal/sources"
	"golang.org/x/time/rate"
)

// Resolver matches one canonical track against the library.
type Resolver interface {
	Resolve(ctx context.Context, track models.CanonicalTrack) match.Result
}

// Materializer creates playlists on the target server.
type Materializer interface {
	CreatePlaylist(ctx context.Context, title string, ratingKeys []string) (string, error)
	SetThumbnail(ctx context.Context, ratingKey, imageURL string) error
}

// RunRecorder persists a record of each finished conversion. May be nil.
type RunRecorder interface {
	Create(run models.ImportRun) error
}

// ConversionPipeline converts one source playlist into a server playlist.
type ConversionPipeline struct {
	registry *sources.Registry
	resolver Resolver
	library  Materializer
	recorder RunRecorder
	limiter  *rate.Limiter
	workers  int
	logger   *log.Logger
}

// NewConversionPipeline wires a pipeline. workers bounds the concurrent
// resolve pool; searchRate caps library searches per second (0 disables the
// cap).
func NewConversionPipeline(
	registry *sources.Registry,
	resolver Resolver,
	library Materializer,
	recorder RunRecorder,
	workers int,
	searchRate float64,
	logger *log.Logger,
) *ConversionPipeline {
	if workers < 1 {
		workers = 1
	}
	var limiter *rate.Limiter
	if searchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(searchRate), 1)
	}
	return &ConversionPipeline{
		registry: registry,
		resolver: resolver,
		library:  library,
		recorder: recorder,
		limiter:  limiter,
		workers:  workers,
		logger:   logger,
	}
}

// Convert runs the full pipeline for one source playlist. The returned
// error is non-nil exactly when the result status is Failed.
//
// Individual tracks that cannot be matched never fail the run; they are
// reported in the outcome's Unmatched list in playlist order.
func (p *ConversionPipeline) Convert(ctx context.Context, src sources.Source, updates chan<- ProgressUpdate) (models.ConversionResult, error) {
	result, err := p.convert(ctx, src, updates)
	p.record(src, result)
	if err != nil {
		// No Percent on failure: 100 is reserved for completed runs.
		sendUpdate(updates, ProgressUpdate{Phase: PhaseFailed, Message: err.Error()})
		return result, err
	}
	sendUpdate(updates, ProgressUpdate{
		Phase:   PhaseDone,
		Percent: 100,
		Message: fmt.Sprintf("%d/%d tracks matched", result.Outcome.MatchedCount, result.Outcome.TotalCount),
	})
	return result, nil
}

func (p *ConversionPipeline) convert(ctx context.Context, src sources.Source, updates chan<- ProgressUpdate) (models.ConversionResult, error) {
	fetcher, err := p.registry.Fetcher(src.Kind)
	if err != nil {
		return failed(err), err
	}

	sendUpdate(updates, ProgressUpdate{Phase: PhaseFetching, Message: "Fetching playlist"})
	meta, raw, err := fetcher.FetchPlaylist(ctx, src, func(completed, total int) {
		sendUpdate(updates, ProgressUpdate{
			Phase:     PhaseFetching,
			Percent:   fetchPercent(completed, total),
			Completed: completed,
			Total:     total,
		})
	})
	if err != nil {
		return failed(err), err
	}

	sendUpdate(updates, ProgressUpdate{Phase: PhaseNormalizing, Percent: 50, Message: "Normalizing tracks"})
	tracks := sources.Normalize(src.Kind, raw, p.logger)
	if len(tracks) == 0 {
		err := fmt.Errorf("%w: playlist %q has no usable tracks", shared.ErrNoMatches, meta.Name)
		return failed(err), err
	}

	results, err := p.resolveAll(ctx, tracks, updates)
	if err != nil {
		return failed(err), err
	}

	sendUpdate(updates, ProgressUpdate{Phase: PhaseMaterializing, Percent: 100, Message: "Creating playlist"})
	outcome, err := p.materialize(ctx, meta, results)
	if err != nil {
		return failed(err), err
	}
	return models.ConversionResult{Status: models.Succeeded, Outcome: outcome}, nil
}

// resolveAll fans tracks out to a bounded worker pool. Results are written
// into a pre-sized buffer indexed by playlist position, so the output order
// never depends on worker scheduling.
func (p *ConversionPipeline) resolveAll(ctx context.Context, tracks []models.CanonicalTrack, updates chan<- ProgressUpdate) ([]match.Result, error) {
	results := make([]match.Result, len(tracks))
	jobs := make(chan int, len(tracks))

	var completed int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				if p.limiter != nil {
					if err := p.limiter.Wait(ctx); err != nil {
						return
					}
				}
				results[i] = p.resolver.Resolve(ctx, tracks[i])

				// Sending under the lock keeps updates ordered by
				// completion count.
				mu.Lock()
				completed++
				sendUpdate(updates, ProgressUpdate{
					Phase:     PhaseResolving,
					Percent:   resolvePercent(completed, len(tracks)),
					Message:   tracks[i].String(),
					Completed: completed,
					Total:     len(tracks),
				})
				mu.Unlock()
			}
		}()
	}

	start := time.Now()
	for i := range tracks {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.logger != nil {
		p.logger.Info("Resolved tracks", "count", len(tracks), "elapsed", time.Since(start))
	}
	return results, nil
}

func (p *ConversionPipeline) materialize(ctx context.Context, meta *models.PlaylistMeta, results []match.Result) (*models.ImportOutcome, error) {
	outcome := &models.ImportOutcome{
		PlaylistName: meta.Name,
		TotalCount:   len(results),
	}

	ratingKeys := make([]string, 0, len(results))
	for _, r := range results {
		if r.Matched {
			ratingKeys = append(ratingKeys, r.Candidate.RatingKey)
		} else {
			outcome.Unmatched = append(outcome.Unmatched, r.Track)
		}
	}
	outcome.MatchedCount = len(ratingKeys)

	if len(ratingKeys) == 0 {
		return nil, fmt.Errorf("%w: no tracks from %q found in library", shared.ErrNoMatches, meta.Name)
	}

	playlistID, err := p.library.CreatePlaylist(ctx, meta.Name, ratingKeys)
	if err != nil {
		return nil, err
	}
	outcome.PlaylistID = playlistID

	// Artwork is cosmetic; a failed upload never fails the conversion.
	if meta.ImageURL != "" {
		if err := p.library.SetThumbnail(ctx, playlistID, meta.ImageURL); err != nil {
			if p.logger != nil {
				p.logger.Warn("Thumbnail upload failed", "playlist", meta.Name, "error", err)
			}
		} else {
			outcome.ThumbnailSet = true
		}
	}
	return outcome, nil
}

func (p *ConversionPipeline) record(src sources.Source, result models.ConversionResult) {
	if p.recorder == nil {
		return
	}

	run := models.ImportRun{
		ID:        shared.GenerateID(),
		Source:    src.Kind.String(),
		Status:    result.Status.String(),
		Error:     result.ErrorDetail,
		CreatedAt: time.Now().UTC(),
	}
	if result.Outcome != nil {
		run.PlaylistName = result.Outcome.PlaylistName
		run.PlaylistID = result.Outcome.PlaylistID
		run.MatchedCount = result.Outcome.MatchedCount
		run.TotalCount = result.Outcome.TotalCount
		run.ThumbnailSet = result.Outcome.ThumbnailSet
		for _, t := range result.Outcome.Unmatched {
			run.Unmatched = append(run.Unmatched, t.String())
		}
	}
	if err := p.recorder.Create(run); err != nil && p.logger != nil {
		p.logger.Warn("Failed to record import run", "error", err)
	}
}

func failed(err error) models.ConversionResult {
	return models.ConversionResult{Status: models.Failed, ErrorDetail: err.Error()}
}
