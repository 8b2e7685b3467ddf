package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/playstats/internal/formatter"
	"github.com/desertthunder/playstats/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export fetches stats for the playlist-id argument and writes them in the requested format.
//
// csv and json export the per-track rows; markdown exports the summary.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.StringArg("playlist-id")
	if playlistID == "" {
		playlistID = r.config.Server.DefaultPlaylist
	}

	format := strings.ToLower(cmd.String("format"))
	client := r.statsClient(cmd.String("url"))

	var data []byte
	switch format {
	case "csv", "json":
		records, err := client.FetchTracks(ctx, playlistID)
		if err != nil {
			return fmt.Errorf("failed to fetch tracks: %w", err)
		}
		if format == "csv" {
			data, err = formatter.ExportToCSV(records)
		} else {
			data, err = shared.MarshalJSON(records, true)
		}
		if err != nil {
			return fmt.Errorf("failed to format tracks: %w", err)
		}
		if format == "json" {
			data = append(data, '\n')
		}
	case "markdown", "md":
		stats, err := client.FetchStats(ctx, playlistID)
		if err != nil {
			return fmt.Errorf("failed to fetch stats: %w", err)
		}
		if data, err = formatter.ExportToMarkdown(playlistID, stats); err != nil {
			return fmt.Errorf("failed to format stats: %w", err)
		}
	default:
		return fmt.Errorf("%w: unknown format %q (want csv, markdown or json)", shared.ErrInvalidFlag, format)
	}

	output := cmd.String("output")
	if output == "" {
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if err := formatter.WriteExport(output, data); err != nil {
		return err
	}

	r.logger.Info("export written", "playlist_id", playlistID, "format", format, "path", output)
	return r.writePlain("✓ Exported %s to %s\n", playlistID, output)
}
