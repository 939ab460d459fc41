package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/repositories"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
)

type historyRow struct {
	ID        string        `json:"id"`
	Sequence  int           `json:"sequence"`
	Action    models.Action `json:"action"`
	MovieID   int           `json:"movie_id"`
	Rating    int           `json:"rating,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

func (r *Runner) requireJournal() error {
	if r.activities == nil {
		return fmt.Errorf("%w: activity journal is not open (run 'reelx setup database')", shared.ErrServiceUnavailable)
	}
	return nil
}

// History lists recent journal entries for the configured user, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireJournal(); err != nil {
		return err
	}

	activities, err := r.activities.List(ctx, repositories.ActivityFilter{
		UserID:      r.userID(),
		MovieID:     int(cmd.Int("movie")),
		FailedOnly:  cmd.Bool("failed"),
		Limit:       int(cmd.Int("limit")),
		NewestFirst: true,
	})
	if err != nil {
		return err
	}

	rows := make([]historyRow, len(activities))
	for i, a := range activities {
		rows[i] = historyRow{
			ID:        a.ID(),
			Sequence:  a.Sequence(),
			Action:    a.Action(),
			MovieID:   a.MovieID(),
			Rating:    a.Rating(),
			Success:   a.Success(),
			Error:     a.Error(),
			CreatedAt: a.CreatedAt(),
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Activity (%d)", len(rows)))
	for _, row := range rows {
		status := "✓"
		if !row.Success {
			status = "✗"
		}
		r.writePlain("%s %s  %-17s movie %-5d", status, row.CreatedAt.Local().Format(time.DateTime), row.Action, row.MovieID)
		if row.Rating > 0 {
			r.writePlain(" rating %d", row.Rating)
		}
		if row.Error != "" {
			r.writePlain("  %s", row.Error)
		}
		r.writePlain("\n")
	}
	return nil
}

// HistoryPrune deletes journal entries older than --days.
func (r *Runner) HistoryPrune(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireJournal(); err != nil {
		return err
	}

	days := int(cmd.Int("days"))
	if days < 0 {
		return fmt.Errorf("%w: --days must not be negative", shared.ErrInvalidFlag)
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	n, err := r.activities.Prune(ctx, cutoff)
	if err != nil {
		return err
	}

	r.logger.Info("pruned activity journal", "removed", n, "cutoff", cutoff)
	r.writePlain("✓ Removed %d entries older than %d days\n", n, days)
	return nil
}
