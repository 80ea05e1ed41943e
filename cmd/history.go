package main

import (
	"context"
	"fmt"

	"github.com/jaylex32/syncra/internal/shared"
	"github.com/urfave/cli/v3"
)

// History prints recorded import runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.runs == nil {
		return fmt.Errorf("%w: run `syncra setup` to initialize the database", shared.ErrMissingConfig)
	}

	runs, err := r.runs.List(int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to list import runs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, true)
	}

	if len(runs) == 0 {
		return r.writePlain("No import runs recorded.\n")
	}
	for _, run := range runs {
		line := fmt.Sprintf("%s  %-9s %-8s %s (%d/%d matched)",
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Source,
			run.Status,
			run.PlaylistName,
			run.MatchedCount,
			run.TotalCount,
		)
		if run.Error != "" {
			line += "  error: " + run.Error
		}
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}
