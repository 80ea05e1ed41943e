package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaylex32/syncra/internal/formatter"
	"github.com/jaylex32/syncra/internal/shared"
	"github.com/jaylex32/syncra/internal/sources"
	"github.com/jaylex32/syncra/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Convert imports one source playlist into Plex and prints a report.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	descriptor := cmd.Args().First()
	if descriptor == "" {
		return fmt.Errorf("%w: playlist URL or file path", shared.ErrMissingArgument)
	}

	src, err := sources.ParseSource(descriptor)
	if err != nil {
		return err
	}
	logger := shared.WithLogger(r.logger, "source", src.Kind.String())
	logger.Info("starting import", "descriptor", src.Raw)

	var updates chan tasks.ProgressUpdate
	var wg sync.WaitGroup
	if !cmd.Bool("quiet") {
		updates = make(chan tasks.ProgressUpdate, 50)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for update := range updates {
				logger.Info(update.Phase.String(),
					"percent", update.Percent, "message", update.Message)
			}
		}()
	}

	result, err := r.pipeline.Convert(ctx, src, updates)
	if updates != nil {
		close(updates)
		wg.Wait()
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if cmd.Bool("json") {
		report, err := formatter.ReportToJSON(result.Outcome)
		if err != nil {
			return err
		}
		return r.writePlain("%s\n", report)
	}
	return r.writePlain("%s", formatter.ReportToText(result.Outcome))
}
