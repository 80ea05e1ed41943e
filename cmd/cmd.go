// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration and run database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// convertCommand imports one playlist into Plex.
func convertCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Aliases:   []string{"import"},
		Usage:     "Import a playlist from Spotify, Deezer, Tidal, or a local file into Plex",
		ArgsUsage: "<playlist URL or file path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the conversion report as JSON",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress progress output",
			},
		},
		Action: r.Convert,
	}
}

// playlistsCommand manages playlists on the Plex server.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage Plex playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List playlists on the server",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist from the server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist rating key to delete",
						Required: true,
					},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:  "export",
				Usage: "Export a playlist as an m3u file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Playlist rating key to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// historyCommand lists recorded import runs.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show past import runs",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to show",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// tuiCommand launches the interactive terminal UI.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "tui",
		Usage:     "Import a playlist interactively",
		ArgsUsage: "<playlist URL or file path>",
		Action:    r.TUI,
	}
}
