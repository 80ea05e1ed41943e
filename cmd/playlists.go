package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jaylex32/syncra/internal/formatter"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints the playlists known to the Plex server.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	playlists, err := r.library.Playlists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists found.\n")
	}
	for _, pl := range playlists {
		if err := r.writePlain("%s\t%s (%d tracks)\n", pl.RatingKey, pl.Title, pl.LeafCount); err != nil {
			return err
		}
	}
	return nil
}

// PlaylistsDelete removes a playlist from the Plex server.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")
	if err := r.library.DeletePlaylist(ctx, id); err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", id, err)
	}
	r.logger.Info("playlist deleted", "ratingKey", id)
	return nil
}

// PlaylistsExport writes a playlist's tracks as an m3u document.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	items, err := r.library.PlaylistItems(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist items: %w", err)
	}

	title := id
	if playlists, err := r.library.Playlists(ctx); err == nil {
		for _, pl := range playlists {
			if pl.RatingKey == id {
				title = pl.Title
				break
			}
		}
	}

	doc := formatter.ExportToM3U(title, items)
	if output := cmd.String("output"); output != "" {
		if err := os.WriteFile(output, doc, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", output, err)
		}
		r.logger.Info("playlist exported", "path", output, "tracks", len(items))
		return nil
	}
	return r.writePlain("%s", doc)
}
