package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playstats/internal/formatter"
	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/repositories"
	"github.com/urfave/cli/v3"
)

// History lists recorded snapshots, optionally for a single playlist.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer r.closeDatabase()

	playlistID := cmd.StringArg("playlist-id")
	snapshots, err := repositories.NewSnapshotRepository(db).List(playlistID, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	if cmd.Bool("json") {
		if snapshots == nil {
			snapshots = []*models.Snapshot{}
		}
		return r.writeJSON(snapshots, cmd.Bool("pretty"))
	}

	if len(snapshots) == 0 {
		return r.writePlain("No snapshots recorded yet. Run 'playstats serve' and request a playlist.\n")
	}

	return formatter.RenderHistory(r.output, snapshots)
}
