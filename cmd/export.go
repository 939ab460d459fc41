package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes both collections in every --format concurrently, plus a manifest.json.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	var formats []formatter.Format
	for _, raw := range cmd.StringSlice("format") {
		f, err := formatter.ParseFormat(raw)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	snap, err := r.loadSnapshot(ctx, r.newSync())
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := tasks.ExportCollections(ctx, progress, snap, tasks.ExportOpts{
		Formats:    formats,
		OutputDir:  cmd.String("output"),
		Posters:    cmd.Bool("posters"),
		NumWorkers: int(cmd.Int("workers")),
		UserID:     r.userID(),
	})
	close(progress)
	<-done

	if result != nil {
		r.writePlainHeader(fmt.Sprintf("Export: %s", result.OutputDirectory))
		for _, res := range result.Results {
			label := res.Name + "." + res.Format.Ext()
			if res.Success {
				r.writePlain("✓ %-16s %d file(s)\n", label, len(res.Files))
			} else {
				r.writePlain("✗ %-16s %v\n", label, res.Error)
			}
		}
		r.writePlainln("%d succeeded, %d failed", result.Successful, result.Failed)
	}
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d of %d exports failed", result.Failed, len(result.Results))
	}
	return nil
}
