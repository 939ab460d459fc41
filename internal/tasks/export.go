package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/reelx/internal/formatter"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/sourcegraph/conc/pool"
)

// ExportOpts configures [ExportCollections].
type ExportOpts struct {
	Formats    []formatter.Format // defaults to JSON only
	OutputDir  string             // defaults to reelx_export_{epoch}
	Posters    bool               // download posters for the Markdown watchlist
	NumWorkers int                // default 4
	UserID     models.UserID
}

// ExportFileResult is the outcome of one collection/format export.
type ExportFileResult struct {
	Name    string
	Format  formatter.Format
	Files   []string
	Success bool
	Error   error
}

// ExportResult summarizes an [ExportCollections] run.
type ExportResult struct {
	OutputDirectory string
	ManifestPath    string
	Results         []ExportFileResult
	Successful      int
	Failed          int
}

type exportJob struct {
	name   string
	format formatter.Format
}

// ExportCollections writes snap's watchlist and viewed list in every requested format,
// then a manifest.json describing the run. Individual failures do not stop the others.
func ExportCollections(ctx context.Context, progress chan<- ProgressUpdate, snap models.Snapshot, opts ExportOpts) (*ExportResult, error) {
	if len(opts.Formats) == 0 {
		opts.Formats = []formatter.Format{formatter.FormatJSON}
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("reelx_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	jobs := make([]exportJob, 0, len(opts.Formats)*2)
	for _, f := range opts.Formats {
		jobs = append(jobs, exportJob{"watchlist", f}, exportJob{"viewed", f})
	}

	p := pool.NewWithResults[ExportFileResult]().WithMaxGoroutines(opts.NumWorkers)
	for i, job := range jobs {
		p.Go(func() ExportFileResult {
			if err := ctx.Err(); err != nil {
				return ExportFileResult{Name: job.name, Format: job.format, Error: err}
			}
			sendProgress(progress, exportingUpdate(i+1, len(jobs), job.name+"."+job.format.Ext()))
			return exportOne(snap, job, opts)
		})
	}

	result := &ExportResult{OutputDirectory: opts.OutputDir}
	manifest := &formatter.Manifest{
		ExportedAt: time.Now().UTC(),
		UserID:     opts.UserID,
		Watchlist:  len(snap.Watchlist),
		Viewed:     formatter.Stats(snap.Viewed),
	}

	for i, res := range p.Wait() {
		result.Results = append(result.Results, res)
		label := res.Name + "." + res.Format.Ext()
		if res.Success {
			result.Successful++
			manifest.Files = append(manifest.Files, res.Files...)
			sendProgress(progress, exportCompletedUpdate(i+1, len(jobs), label, len(res.Files)))
		} else {
			result.Failed++
			manifest.Errors = append(manifest.Errors, fmt.Sprintf("%s: %v", label, res.Error))
			sendProgress(progress, exportFailedUpdate(i+1, len(jobs), label, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func exportOne(snap models.Snapshot, job exportJob, opts ExportOpts) ExportFileResult {
	res := ExportFileResult{Name: job.name, Format: job.format, Files: []string{}}

	if job.name == "watchlist" && job.format == formatter.FormatMarkdown {
		md, err := formatter.WriteWatchlistMarkdown(snap.Watchlist, filepath.Join(opts.OutputDir, "watchlist"), opts.Posters, nil)
		if err != nil {
			res.Error = fmt.Errorf("markdown export failed: %w", err)
			return res
		}
		res.Files = md.Files
		res.Success = true
		return res
	}

	var data []byte
	var err error
	if job.name == "watchlist" {
		data, err = formatter.ExportWatchlist(snap.Watchlist, job.format)
	} else {
		data, err = formatter.ExportViewed(snap.Viewed, job.format)
	}
	if err != nil {
		res.Error = fmt.Errorf("%s export failed: %w", job.format, err)
		return res
	}

	path := filepath.Join(opts.OutputDir, job.name+"."+job.format.Ext())
	if err := formatter.WriteFile(path, data); err != nil {
		res.Error = err
		return res
	}
	res.Files = []string{path}
	res.Success = true
	return res
}
