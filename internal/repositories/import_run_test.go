package repositories

import (
	"testing"
	"time"

	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
)

func newTestRepo(t *testing.T) *ImportRunRepository {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return NewImportRunRepository(db)
}

func sampleRun(id string, created time.Time) models.ImportRun {
	return models.ImportRun{
		ID:           id,
		Source:       "spotify",
		PlaylistName: "Road Trip",
		PlaylistID:   "555",
		Status:       "succeeded",
		MatchedCount: 18,
		TotalCount:   20,
		Unmatched:    []string{"Rare Song - Obscure Artist", "B-Side - Someone"},
		ThumbnailSet: true,
		CreatedAt:    created,
	}
}

func TestImportRunRepository(t *testing.T) {
	t.Run("create and get round trip", func(t *testing.T) {
		repo := newTestRepo(t)
		run := sampleRun("run-1", time.Now().UTC())
		if err := repo.Create(run); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		got, err := repo.Get("run-1")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.PlaylistName != "Road Trip" || got.MatchedCount != 18 || !got.ThumbnailSet {
			t.Errorf("got %+v", got)
		}
		if len(got.Unmatched) != 2 || got.Unmatched[0] != "Rare Song - Obscure Artist" {
			t.Errorf("unmatched %v", got.Unmatched)
		}
	})

	t.Run("nil unmatched stored as empty list", func(t *testing.T) {
		repo := newTestRepo(t)
		run := sampleRun("run-2", time.Now().UTC())
		run.Unmatched = nil
		if err := repo.Create(run); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		got, err := repo.Get("run-2")
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if len(got.Unmatched) != 0 {
			t.Errorf("unmatched %v", got.Unmatched)
		}
	})

	t.Run("missing run returns error", func(t *testing.T) {
		repo := newTestRepo(t)
		if _, err := repo.Get("nope"); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		repo := newTestRepo(t)
		base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		for i, id := range []string{"old", "mid", "new"} {
			run := sampleRun(id, base.Add(time.Duration(i)*time.Hour))
			if err := repo.Create(run); err != nil {
				t.Fatalf("create %s failed: %v", id, err)
			}
		}

		runs, err := repo.List(2)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
			ids := make([]string, len(runs))
			for i, r := range runs {
				ids[i] = r.ID
			}
			t.Errorf("got %v", ids)
		}
	})

	t.Run("validation rejects missing source", func(t *testing.T) {
		repo := newTestRepo(t)
		run := sampleRun("run-3", time.Now().UTC())
		run.Source = ""
		if err := repo.Create(run); err == nil {
			t.Error("expected validation error")
		}
	})
}
