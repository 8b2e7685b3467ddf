package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playstats/internal/shared"
	"github.com/desertthunder/playstats/internal/tasks"
	"github.com/urfave/cli/v3"
)

// BulkExport exports every playlist id argument into one directory with a worker pool.
func (r *Runner) BulkExport(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one playlist id", shared.ErrMissingArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate"),
	}

	r.logger.Info("starting bulk export", "playlists", len(ids), "format", opts.Format)
	engine := tasks.NewExportEngine(r.statsClient(cmd.String("url")), r.logger)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchStats:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportPlaylist:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.BulkExport(ctx, progressCh, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Bulk Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported: %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s: %s\n", res.PlaylistID, res.Error)
			}
		}
	}

	return nil
}
