package main

import (
	"context"

	"github.com/desertthunder/reelx/internal/server"
	"github.com/urfave/cli/v3"
)

// MockServe runs the mock collection service until interrupted.
func (r *Runner) MockServe(ctx context.Context, cmd *cli.Command) error {
	catalog := server.SampleCatalog()
	if seed := cmd.String("seed"); seed != "" {
		movies, err := server.LoadSeed(seed)
		if err != nil {
			return err
		}
		catalog = movies
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Mock.Addr()
	}

	mock := server.NewMockService(catalog, server.MockOpts{
		UnlinkOnView: r.config.Mock.UnlinkOnView || cmd.Bool("unlink-on-view"),
		Logger:       r.logger,
	})

	r.logger.Info("serving mock catalog", "movies", len(catalog), "addr", addr)
	return server.Serve(ctx, addr, mock.Routes(), r.logger)
}
