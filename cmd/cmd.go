// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file with SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET",
			Value: ".env",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error); overrides log.level in the config",
		},
	}
}

// serveCommand runs the stats service.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the playlist stats HTTP service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port from the config)",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record served summaries in the database",
			},
		},
		Action: r.Serve,
	}
}

// loadCommand fetches and prints one playlist summary.
func loadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Fetch a playlist summary from the stats service and print it",
		ArgsUsage: "<playlist-id>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist-id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Stats service base URL (default: loader.base_url from the config)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the rendered fields as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Load,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist stats.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist stats viewer",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "Playlist id to pre-fill (default: server.default_playlist from the config)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Stats service base URL (default: loader.base_url from the config)",
			},
		},
		Action: r.TUI,
	}
}

// exportCommand writes playlist stats to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export playlist stats as CSV (per track), Markdown (summary) or JSON",
		ArgsUsage: "<playlist-id>",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist-id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, markdown or json",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Stats service base URL (default: loader.base_url from the config)",
			},
		},
		Action: r.Export,
	}
}

// bulkExportCommand exports several playlists concurrently.
func bulkExportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "bulk-export",
		Usage:     "Export several playlists into one directory with an export manifest",
		ArgsUsage: "<playlist-id>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: csv, markdown or json",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Output directory (default: playstats_export_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent workers (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Requests per second across all workers",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  "url",
				Usage: "Stats service base URL (default: loader.base_url from the config)",
			},
		},
		Action: r.BulkExport,
	}
}

// historyCommand lists recorded snapshots.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "List summaries recorded by the stats service, newest first",
		ArgsUsage: "[playlist-id]",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "playlist-id",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of snapshots to show (0 for all)",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.History,
	}
}

// setupCommand handles setup operations for the database and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
