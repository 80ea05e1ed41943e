package main

import (
	"context"
	"errors"
	"os"

	"github.com/jaylex32/syncra/internal/repositories"
	"github.com/jaylex32/syncra/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	var runs *repositories.ImportRunRepository
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database)
			runs = repositories.NewImportRunRepository(db)
			defer db.Close()
		} else {
			logger.Warn("failed to open database, history disabled", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Runs:   runs,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "syncra",
		Usage:    "Import playlists from Spotify, Deezer, Tidal, or local files into Plex",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
