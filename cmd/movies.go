package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/reelx/internal/catalog"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/rating"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
)

// movieRow is the JSON shape of one catalog line in `movies list`.
type movieRow struct {
	models.Movie
	InWatchlist bool `json:"in_watchlist"`
	Rating      int  `json:"rating,omitempty"`
}

func parseMovieID(cmd *cli.Command) (int, error) {
	raw := strings.TrimSpace(cmd.StringArg("id"))
	if raw == "" {
		return 0, fmt.Errorf("%w: movie ID", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: movie ID must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

// MoviesList prints the catalog, filtered by --query, marking watchlist membership and ratings.
//
// Collection failures only drop the markers; a catalog failure is an error.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	store := r.newStore()
	sync := r.newSync()

	movies, err := r.loadCatalog(ctx, store)
	if err != nil {
		return err
	}
	// Collection failures are logged by Sync and reported below as missing markers.
	_, _ = sync.LoadWatchlist(ctx)
	_, _ = sync.LoadViewed(ctx)

	movies = catalog.Filter(movies, cmd.String("query"))
	ids := sync.WatchlistIDs()

	rows := make([]movieRow, len(movies))
	for i, m := range movies {
		_, in := ids[m.ID]
		rows[i] = movieRow{Movie: m, InWatchlist: in, Rating: sync.Rating(m.ID)}
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Catalog (%d movies)", len(rows)))
	for _, row := range rows {
		marker := " "
		if row.InWatchlist {
			marker = "●"
		}
		stars := ""
		if row.Rating > 0 {
			stars = rating.Stars(row.Rating)
		}
		r.writePlain("%s %4d  %-40s %4d  %s\n", marker, row.ID, row.DisplayTitle(), row.Year, stars)
	}
	if sync.WatchlistUnavailable() || sync.ViewedUnavailable() {
		r.writePlainln("Collections unavailable; watchlist and rating markers may be missing.")
	}
	return nil
}

// MoviesShow prints complex-level detail for one movie.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := parseMovieID(cmd)
	if err != nil {
		return err
	}

	movie, err := r.newStore().LoadDetail(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("%s (%d)", movie.DisplayTitle(), movie.Year))
	if movie.Director != "" {
		r.writePlain("Director: %s\n", movie.Director)
	}
	if movie.Genre != "" {
		r.writePlain("Genre:    %s\n", movie.Genre)
	}
	if movie.PosterURL != "" {
		r.writePlain("Poster:   %s\n", movie.PosterURL)
	}
	if movie.Synopsis != "" {
		r.writePlainln("%s", movie.Synopsis)
	}
	return nil
}
