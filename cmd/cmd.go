// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func prettyFlag() cli.Flag {
	return &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output", Value: true}
}

func idArg() cli.Argument {
	return &cli.StringArg{Name: "id", UsageText: "movie ID"}
}

// setupCommand handles setup operations for configuration and the activity journal.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml with default settings",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the activity journal and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "rollback",
				Usage: "Revert the most recent activity journal migration",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupRollback,
			},
		},
	}
}

// moviesCommand handles catalog browsing
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"catalog"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog movies with watchlist and rating markers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Case-insensitive title filter",
					},
					jsonFlag(),
					prettyFlag(),
				},
				Action: r.MoviesList,
			},
			{
				Name:      "show",
				Usage:     "Show full detail for one movie",
				Arguments: []cli.Argument{idArg()},
				Flags:     []cli.Flag{jsonFlag(), prettyFlag()},
				Action:    r.MoviesShow,
			},
		},
	}
}

// watchlistCommand handles the user's watchlist
func watchlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "watchlist",
		Aliases: []string{"wl"},
		Usage:   "Manage the movies you want to see",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List the watchlist",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
				Action: r.WatchlistList,
			},
			{
				Name:      "add",
				Usage:     "Add a catalog movie to the watchlist",
				Arguments: []cli.Argument{idArg()},
				Action:    r.WatchlistAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a movie from the watchlist",
				Arguments: []cli.Argument{idArg()},
				Action:    r.WatchlistRemove,
			},
			{
				Name:   "export",
				Usage:  "Export the watchlist",
				Flags:  exportFlags(true),
				Action: r.WatchlistExport,
			},
		},
	}
}

// viewedCommand handles rated movies
func viewedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "viewed",
		Usage: "Manage the movies you have seen and rated",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List viewed movies with ratings",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag()},
				Action: r.ViewedList,
			},
			{
				Name:      "rate",
				Usage:     "Mark a movie as viewed with a 1-5 star rating",
				Arguments: []cli.Argument{idArg()},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "stars",
						Aliases:  []string{"s"},
						Usage:    "Rating from 1 (Poor) to 5 (Excellent)",
						Required: true,
					},
				},
				Action: r.ViewedRate,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a rating",
				Arguments: []cli.Argument{idArg()},
				Action:    r.ViewedRemove,
			},
			{
				Name:   "export",
				Usage:  "Export viewed movies with rating stats",
				Flags:  exportFlags(false),
				Action: r.ViewedExport,
			},
		},
	}
}

// exportCommand exports both collections at once
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the watchlist and viewed list in one or more formats",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output formats: json, csv, markdown, txt",
				Value:   []string{"json"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: reelx_export_{timestamp})",
			},
			&cli.BoolFlag{
				Name:  "posters",
				Usage: "Download poster images for the Markdown watchlist",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of parallel export workers",
				Value: 4,
			},
		},
		Action: r.Export,
	}
}

func exportFlags(posters bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, csv, markdown, txt",
			Value:   "json",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file (directory for markdown); stdout when empty",
		},
	}
	if posters {
		flags = append(flags, &cli.BoolFlag{
			Name:  "posters",
			Usage: "Download poster images (markdown only)",
		})
	}
	return flags
}

// historyCommand inspects the local activity journal
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent watchlist and rating activity",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of entries",
				Value:   20,
			},
			&cli.IntFlag{
				Name:  "movie",
				Usage: "Only show activity for this movie ID",
			},
			&cli.BoolFlag{
				Name:  "failed",
				Usage: "Only show failed operations",
			},
			jsonFlag(),
			prettyFlag(),
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "Delete journal entries older than a number of days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Keep this many days of history",
						Value: 90,
					},
				},
				Action: r.HistoryPrune,
			},
		},
	}
}

// mockCommand runs the bundled collection service
func mockCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "mock",
		Usage: "Local stand-in for the movie collection service",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the catalog and per-user collections over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (default from [mock] config)",
					},
					&cli.StringFlag{
						Name:  "seed",
						Usage: "JSON file with the catalog to serve (default: built-in sample)",
					},
					&cli.BoolFlag{
						Name:  "unlink-on-view",
						Usage: "Remove a movie from the watchlist server-side when it is rated",
					},
				},
				Action: r.MockServe,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive browser",
		Action:  r.TUI,
	}
}
