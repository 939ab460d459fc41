package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/reelx/internal/catalog"
	"github.com/desertthunder/reelx/internal/collection"
	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
)

// WatchlistList prints the user's watchlist in service order.
func (r *Runner) WatchlistList(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.newSync().LoadWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("watchlist unavailable: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Watchlist (%d)", len(movies)))
	r.output.Write(formatter.WatchlistToText(movies))
	return nil
}

// WatchlistAdd adds a catalog movie to the watchlist.
func (r *Runner) WatchlistAdd(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd)
	if err != nil {
		return err
	}

	movies, err := r.loadCatalog(ctx, r.newStore())
	if err != nil {
		return err
	}
	movie, ok := catalog.Lookup(movies, id)
	if !ok {
		return fmt.Errorf("%w: id %d", shared.ErrNotFound, id)
	}

	if err := r.newSync().AddToWatchlist(ctx, id, movies); err != nil {
		return fmt.Errorf("failed to add %q to watchlist: %w", movie.DisplayTitle(), err)
	}

	r.writePlain("✓ Added %s to your watchlist\n", movie.DisplayTitle())
	return nil
}

// WatchlistRemove removes a movie from the watchlist.
func (r *Runner) WatchlistRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd)
	if err != nil {
		return err
	}

	if err := r.newSync().RemoveFromWatchlist(ctx, id); err != nil {
		return fmt.Errorf("failed to remove movie %d from watchlist: %w", id, err)
	}

	r.writePlain("✓ Removed movie %d from your watchlist\n", id)
	return nil
}

// ViewedList prints rated movies and the average rating.
func (r *Runner) ViewedList(ctx context.Context, cmd *cli.Command) error {
	entries, err := r.newSync().LoadViewed(ctx)
	if err != nil {
		return fmt.Errorf("viewed list unavailable: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	stats := formatter.Stats(entries)
	r.writePlainHeader(fmt.Sprintf("Viewed (%d) • average %.1f", stats.Count, stats.Average))
	r.output.Write(formatter.ViewedToText(entries))
	return nil
}

// ViewedRate marks a movie as viewed with --stars, replacing any earlier rating.
func (r *Runner) ViewedRate(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd)
	if err != nil {
		return err
	}

	movies, err := r.loadCatalog(ctx, r.newStore())
	if err != nil {
		return err
	}
	movie, ok := catalog.Lookup(movies, id)
	if !ok {
		return fmt.Errorf("%w: id %d", shared.ErrNotFound, id)
	}

	w := rating.New(movie, r.newSync())
	if err := w.Select(int(cmd.Int("stars"))); err != nil {
		return err
	}
	if _, err := w.Submit(ctx); err != nil {
		return fmt.Errorf("failed to rate %q: %w", movie.DisplayTitle(), err)
	}

	r.writePlain("✓ Rated %s %s (%s)\n", movie.DisplayTitle(), rating.Stars(w.Rating()), w.Label())
	return nil
}

// ViewedRemove deletes a rating.
func (r *Runner) ViewedRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd)
	if err != nil {
		return err
	}

	if err := r.newSync().RemoveFromViewed(ctx, id); err != nil {
		return fmt.Errorf("failed to remove rating for movie %d: %w", id, err)
	}

	r.writePlain("✓ Removed rating for movie %d\n", id)
	return nil
}

// WatchlistExport writes the watchlist in one format to --output, or stdout.
func (r *Runner) WatchlistExport(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	movies, err := r.newSync().LoadWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("watchlist unavailable: %w", err)
	}

	output := cmd.String("output")
	if f == formatter.FormatMarkdown && output != "" {
		res, err := formatter.WriteWatchlistMarkdown(movies, output, cmd.Bool("posters"), r.output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Wrote %s (%d posters)\n", filepath.Join(res.Directory, "README.md"), len(res.Posters))
		return nil
	}

	data, err := formatter.ExportWatchlist(movies, f)
	if err != nil {
		return err
	}
	return r.writeExport(data, output)
}

// ViewedExport writes the viewed list in one format to --output, or stdout.
func (r *Runner) ViewedExport(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	entries, err := r.newSync().LoadViewed(ctx)
	if err != nil {
		return fmt.Errorf("viewed list unavailable: %w", err)
	}

	data, err := formatter.ExportViewed(entries, f)
	if err != nil {
		return err
	}
	return r.writeExport(data, cmd.String("output"))
}

func (r *Runner) writeExport(data []byte, output string) error {
	if output == "" {
		_, err := r.output.Write(data)
		return err
	}
	if err := formatter.WriteFile(output, data); err != nil {
		return err
	}
	r.writePlain("✓ Wrote %s\n", output)
	return nil
}

// loadSnapshot fetches both collections. Either failing aborts the export.
func (r *Runner) loadSnapshot(ctx context.Context, sync *collection.Sync) (models.Snapshot, error) {
	if _, err := sync.LoadWatchlist(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("watchlist unavailable: %w", err)
	}
	if _, err := sync.LoadViewed(ctx); err != nil {
		return models.Snapshot{}, fmt.Errorf("viewed list unavailable: %w", err)
	}
	return sync.Snapshot(), nil
}
