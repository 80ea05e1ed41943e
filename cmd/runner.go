package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/jaylex32/syncra/internal/match"
	"github.com/jaylex32/syncra/internal/plex"
	"github.com/jaylex32/syncra/internal/repositories"
	"github.com/jaylex32/syncra/internal/shared"
	"github.com/jaylex32/syncra/internal/sources"
	"github.com/jaylex32/syncra/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	library    *plex.Client
	pipeline   *tasks.ConversionPipeline
	runs       *repositories.ImportRunRepository
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Library    *plex.Client
	Pipeline   *tasks.ConversionPipeline
	Runs       *repositories.ImportRunRepository
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration. Absent
// dependencies are built from the config.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Library == nil {
		opts.Library = plex.NewClient(opts.Config.Plex, opts.HTTPClient, opts.Logger)
	}
	if opts.Pipeline == nil {
		registry := sources.NewRegistry(
			sources.NewSpotifySource(opts.HTTPClient, sources.NewTokenCache(opts.HTTPClient), opts.Logger),
			sources.NewDeezerSource(opts.HTTPClient, opts.Logger),
			sources.NewTidalSource(opts.HTTPClient,
				opts.Config.Providers.TidalToken,
				opts.Config.Providers.TidalCountryCode,
				opts.Config.Matcher.FetchWorkers,
				opts.Logger),
			sources.NewLocalFileSource(opts.Logger),
		)
		engine := match.NewEngine(opts.Library, opts.Config.Matcher.Threshold, opts.Logger)

		var recorder tasks.RunRecorder
		if opts.Runs != nil {
			recorder = opts.Runs
		}
		opts.Pipeline = tasks.NewConversionPipeline(
			registry,
			engine,
			opts.Library,
			recorder,
			opts.Config.Matcher.ResolveWorkers,
			opts.Config.Matcher.SearchRateLimit,
			opts.Logger,
		)
	}

	return &Runner{
		config:     opts.Config,
		library:    opts.Library,
		pipeline:   opts.Pipeline,
		runs:       opts.Runs,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used when the TUI takes over the
// terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, convertCommand, playlistsCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
