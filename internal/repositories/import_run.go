package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/shared"
)

// ImportRunRepository persists import runs in SQLite.
type ImportRunRepository struct {
	db *sql.DB
}

// NewImportRunRepository creates a repository backed by the given connection.
func NewImportRunRepository(db *sql.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

// Create inserts a new import run.
func (r *ImportRunRepository) Create(run models.ImportRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	unmatched, err := json.Marshal(run.Unmatched)
	if err != nil {
		return fmt.Errorf("failed to encode unmatched tracks: %w", err)
	}
	if run.Unmatched == nil {
		unmatched = []byte("[]")
	}

	query := `
		INSERT INTO import_runs (
			id, source, playlist_name, playlist_id, status,
			matched_count, total_count, unmatched, thumbnail_set,
			error, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		run.ID,
		run.Source,
		run.PlaylistName,
		run.PlaylistID,
		run.Status,
		run.MatchedCount,
		run.TotalCount,
		string(unmatched),
		run.ThumbnailSet,
		run.Error,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import run: %w", err)
	}
	return nil
}

// Get retrieves one import run by ID.
func (r *ImportRunRepository) Get(id string) (*models.ImportRun, error) {
	query := `
		SELECT id, source, playlist_name, playlist_id, status,
			matched_count, total_count, unmatched, thumbnail_set,
			error, created_at
		FROM import_runs
		WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: import run %s", shared.ErrInvalidInput, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query import run: %w", err)
	}
	return run, nil
}

// List returns import runs newest first, capped at limit when limit > 0.
func (r *ImportRunRepository) List(limit int) ([]*models.ImportRun, error) {
	query := `
		SELECT id, source, playlist_name, playlist_id, status,
			matched_count, total_count, unmatched, thumbnail_set,
			error, created_at
		FROM import_runs
		ORDER BY created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.ImportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.ImportRun, error) {
	var run models.ImportRun
	var unmatched string

	err := row.Scan(
		&run.ID,
		&run.Source,
		&run.PlaylistName,
		&run.PlaylistID,
		&run.Status,
		&run.MatchedCount,
		&run.TotalCount,
		&unmatched,
		&run.ThumbnailSet,
		&run.Error,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(unmatched), &run.Unmatched); err != nil {
		return nil, fmt.Errorf("corrupt unmatched list for run %s: %w", run.ID, err)
	}
	return &run, nil
}
