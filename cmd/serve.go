package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playstats/internal/repositories"
	"github.com/desertthunder/playstats/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the stats service until the context is cancelled (SIGINT/SIGTERM).
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	source, err := r.playlistSource()
	if err != nil {
		return err
	}

	var recorder server.Recorder
	if !cmd.Bool("no-history") {
		db, err := r.database()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer r.closeDatabase()

		recorder = repositories.NewSnapshotRepository(db)
		r.logger.Info("recording snapshots", "database", r.config.Database.Path)
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	handler := server.NewPlaylistHandler(source, recorder, r.config.Server.DefaultPlaylist, r.logger)
	router := server.NewStatsRouter(handler, r.config.Server.AllowedOrigins, r.logger)

	r.logger.Info("starting stats service", "source", source.Name(), "default_playlist", r.config.Server.DefaultPlaylist)
	return server.NewServer(addr, router, r.logger).Run(ctx)
}
