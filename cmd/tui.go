package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaylex32/syncra/internal/shared"
	"github.com/jaylex32/syncra/internal/sources"
	"github.com/jaylex32/syncra/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for one playlist import.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	descriptor := cmd.Args().First()
	if descriptor == "" {
		return fmt.Errorf("%w: playlist URL or file path", shared.ErrMissingArgument)
	}

	src, err := sources.ParseSource(descriptor)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/syncra-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, src, r.pipeline)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
