package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jaylex32/syncra/internal/match"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/plex"
	"github.com/jaylex32/syncra/internal/shared"
	"github.com/jaylex32/syncra/internal/sources"
	tu "github.com/jaylex32/syncra/internal/testing"
)

// stubResolver matches any track whose title appears in the keys map.
type stubResolver struct {
	keys map[string]string

	mu    sync.Mutex
	calls int
}

func (r *stubResolver) Resolve(ctx context.Context, track models.CanonicalTrack) match.Result {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	key, ok := r.keys[track.Title]
	if !ok {
		return match.Result{Track: track}
	}
	return match.Result{
		Track:     track,
		Matched:   true,
		Candidate: &plex.CandidateTrack{RatingKey: key, Title: track.Title},
		Score:     100,
	}
}

type stubLibrary struct {
	createdTitle string
	createdKeys  []string
	createErr    error
	thumbErr     error
	thumbKey     string
	thumbURL     string
}

func (l *stubLibrary) CreatePlaylist(ctx context.Context, title string, ratingKeys []string) (string, error) {
	if l.createErr != nil {
		return "", l.createErr
	}
	l.createdTitle = title
	l.createdKeys = ratingKeys
	return "pl-1", nil
}

func (l *stubLibrary) SetThumbnail(ctx context.Context, ratingKey, imageURL string) error {
	l.thumbKey = ratingKey
	l.thumbURL = imageURL
	return l.thumbErr
}

type stubRecorder struct {
	runs []models.ImportRun
}

func (r *stubRecorder) Create(run models.ImportRun) error {
	r.runs = append(r.runs, run)
	return nil
}

func newLocalRegistry() *sources.Registry {
	return sources.NewRegistry(nil, nil, nil, sources.NewLocalFileSource(nil))
}

func TestConvert(t *testing.T) {
	t.Run("converts local playlist with partial matches", func(t *testing.T) {
		path := tu.MustWriteFile(t, "mix.txt",
			"First Song - Artist One\nUnknown Tune - Mystery\nLast Song - Artist Two\n")

		resolver := &stubResolver{keys: map[string]string{
			"First Song": "k1",
			"Last Song":  "k3",
		}}
		library := &stubLibrary{}
		recorder := &stubRecorder{}
		pipeline := NewConversionPipeline(newLocalRegistry(), resolver, library, recorder, 4, 0, nil)

		updates := make(chan ProgressUpdate, 64)
		result, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.LocalFile, Path: path}, updates)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Status != models.Succeeded {
			t.Fatalf("status = %s", result.Status)
		}

		out := result.Outcome
		if out.PlaylistName != "mix" || out.PlaylistID != "pl-1" {
			t.Errorf("outcome %+v", out)
		}
		if out.MatchedCount != 2 || out.TotalCount != 3 {
			t.Errorf("counts %d/%d", out.MatchedCount, out.TotalCount)
		}
		if len(out.Unmatched) != 1 || out.Unmatched[0].Title != "Unknown Tune" {
			t.Errorf("unmatched %+v", out.Unmatched)
		}

		// Playlist order must survive concurrent resolution.
		if strings.Join(library.createdKeys, ",") != "k1,k3" {
			t.Errorf("created keys %v", library.createdKeys)
		}
		if library.createdTitle != "mix" {
			t.Errorf("created title %q", library.createdTitle)
		}

		if len(recorder.runs) != 1 {
			t.Fatalf("expected 1 recorded run, got %d", len(recorder.runs))
		}
		run := recorder.runs[0]
		if run.Source != "local" || run.Status != "succeeded" || run.MatchedCount != 2 {
			t.Errorf("recorded run %+v", run)
		}
		if len(run.Unmatched) != 1 || run.Unmatched[0] != "Unknown Tune - Mystery" {
			t.Errorf("recorded unmatched %v", run.Unmatched)
		}

		close(updates)
		var sawDone bool
		lastPercent := -1
		for u := range updates {
			if u.Percent < lastPercent {
				t.Errorf("percent went backwards: %d after %d", u.Percent, lastPercent)
			}
			lastPercent = u.Percent
			if u.Phase == PhaseDone {
				sawDone = true
			}
		}
		if !sawDone {
			t.Error("never saw a done update")
		}
	})

	t.Run("sets thumbnail from provider artwork", func(t *testing.T) {
		fetcher := &tu.MockFetcher{
			Meta: &models.PlaylistMeta{Name: "Chill", ImageURL: "https://img.example/xl.jpg"},
			Tracks: []models.RawTrack{
				{Title: "First Song", Artist: "Artist One"},
			},
		}
		registry := sources.NewRegistry(fetcher, nil, nil, nil)
		resolver := &stubResolver{keys: map[string]string{"First Song": "k1"}}
		library := &stubLibrary{}
		pipeline := NewConversionPipeline(registry, resolver, library, nil, 2, 0, nil)

		result, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.Spotify, ID: "abc"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Outcome.ThumbnailSet {
			t.Error("expected thumbnail to be set")
		}
		if library.thumbKey != "pl-1" || library.thumbURL != "https://img.example/xl.jpg" {
			t.Errorf("thumbnail call %q %q", library.thumbKey, library.thumbURL)
		}
	})

	t.Run("fetch failure fails the run", func(t *testing.T) {
		pipeline := NewConversionPipeline(newLocalRegistry(), &stubResolver{}, &stubLibrary{}, nil, 1, 0, nil)
		updates := make(chan ProgressUpdate, 50)

		result, err := pipeline.Convert(context.Background(),
			sources.Source{Kind: sources.LocalFile, Path: "/nonexistent.txt"}, updates)
		close(updates)
		if !errors.Is(err, shared.ErrFetch) {
			t.Fatalf("expected ErrFetch, got %v", err)
		}
		if result.Status != models.Failed || result.ErrorDetail == "" {
			t.Errorf("result %+v", result)
		}

		sawFailed := false
		for u := range updates {
			if u.Phase == PhaseFailed {
				sawFailed = true
			}
			if u.Percent == 100 {
				t.Errorf("failed run reported 100 percent: %+v", u)
			}
		}
		if !sawFailed {
			t.Error("expected a failed update")
		}
	})

	t.Run("zero matches surfaces ErrNoMatches", func(t *testing.T) {
		path := tu.MustWriteFile(t, "mix.txt", "Nothing Here - Nobody\n")
		recorder := &stubRecorder{}
		pipeline := NewConversionPipeline(newLocalRegistry(), &stubResolver{}, &stubLibrary{}, recorder, 1, 0, nil)

		_, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.LocalFile, Path: path}, nil)
		if !errors.Is(err, shared.ErrNoMatches) {
			t.Fatalf("expected ErrNoMatches, got %v", err)
		}
		if len(recorder.runs) != 1 || recorder.runs[0].Status != "failed" {
			t.Errorf("recorded runs %+v", recorder.runs)
		}
	})

	t.Run("empty playlist surfaces ErrNoMatches", func(t *testing.T) {
		path := tu.MustWriteFile(t, "empty.txt", "# just a comment\n\n")
		pipeline := NewConversionPipeline(newLocalRegistry(), &stubResolver{}, &stubLibrary{}, nil, 1, 0, nil)

		_, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.LocalFile, Path: path}, nil)
		if !errors.Is(err, shared.ErrNoMatches) {
			t.Fatalf("expected ErrNoMatches, got %v", err)
		}
	})

	t.Run("thumbnail failure does not fail the run", func(t *testing.T) {
		path := tu.MustWriteFile(t, "mix.txt", "First Song - Artist One\n")
		resolver := &stubResolver{keys: map[string]string{"First Song": "k1"}}
		library := &stubLibrary{thumbErr: errors.New("upload refused")}
		pipeline := NewConversionPipeline(newLocalRegistry(), resolver, library, nil, 1, 0, nil)

		result, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.LocalFile, Path: path}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// Local playlists have no artwork; ThumbnailSet stays false either way.
		if result.Outcome.ThumbnailSet {
			t.Error("thumbnail should not be set")
		}
	})

	t.Run("create failure fails the run", func(t *testing.T) {
		path := tu.MustWriteFile(t, "mix.txt", "First Song - Artist One\n")
		resolver := &stubResolver{keys: map[string]string{"First Song": "k1"}}
		library := &stubLibrary{createErr: errors.New("server unreachable")}
		pipeline := NewConversionPipeline(newLocalRegistry(), resolver, library, nil, 1, 0, nil)

		result, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.LocalFile, Path: path}, nil)
		if err == nil {
			t.Fatal("expected an error")
		}
		if result.Status != models.Failed {
			t.Errorf("status = %s", result.Status)
		}
	})

	t.Run("cancelled context aborts resolution", func(t *testing.T) {
		path := tu.MustWriteFile(t, "mix.txt", "A - X\nB - Y\nC - Z\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		pipeline := NewConversionPipeline(newLocalRegistry(), &stubResolver{}, &stubLibrary{}, nil, 2, 0, nil)
		_, err := pipeline.Convert(ctx, sources.Source{Kind: sources.LocalFile, Path: path}, nil)
		if err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("unsupported kind rejected", func(t *testing.T) {
		pipeline := NewConversionPipeline(newLocalRegistry(), &stubResolver{}, &stubLibrary{}, nil, 1, 0, nil)
		_, err := pipeline.Convert(context.Background(), sources.Source{Kind: sources.Spotify, ID: "x"}, nil)
		if !errors.Is(err, shared.ErrUnsupportedSource) {
			t.Errorf("expected ErrUnsupportedSource, got %v", err)
		}
	})
}

func TestProgressMapping(t *testing.T) {
	t.Run("fetch half", func(t *testing.T) {
		if got := fetchPercent(0, 10); got != 0 {
			t.Errorf("got %d", got)
		}
		if got := fetchPercent(5, 10); got != 25 {
			t.Errorf("got %d", got)
		}
		if got := fetchPercent(10, 10); got != 50 {
			t.Errorf("got %d", got)
		}
		if got := fetchPercent(3, 0); got != 0 {
			t.Errorf("got %d", got)
		}
	})

	t.Run("resolve half", func(t *testing.T) {
		if got := resolvePercent(0, 10); got != 50 {
			t.Errorf("got %d", got)
		}
		if got := resolvePercent(10, 10); got != 100 {
			t.Errorf("got %d", got)
		}
	})
}
