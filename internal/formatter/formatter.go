// package formatter renders playlist stats to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/playstats/internal/loader"
	"github.com/desertthunder/playstats/internal/models"
)

// CSVHeaders are the columns written by [ExportToCSV].
var CSVHeaders = []string{
	"track_id", "track_name", "artists", "genres", "popularity", "duration_ms",
	"is_pop", "is_rap", "is_dance", "is_country",
}

// ExportToCSV converts per-track records to CSV. Multi-valued columns are joined with "; ".
func ExportToCSV(records []models.TrackRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		record := []string{
			r.TrackID,
			r.TrackName,
			strings.Join(r.ArtistNames, "; "),
			strings.Join(r.Genres, "; "),
			strconv.Itoa(r.Popularity),
			strconv.Itoa(r.DurationMS),
			strconv.FormatBool(r.IsPop),
			strconv.FormatBool(r.IsRap),
			strconv.FormatBool(r.IsDance),
			strconv.FormatBool(r.IsCountry),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a summary to a Markdown report.
func ExportToMarkdown(playlistID string, stats *models.PlaylistStats) ([]byte, error) {
	if stats == nil {
		return nil, fmt.Errorf("no stats to export")
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Playlist %s\n\n", playlistID)
	fmt.Fprintf(&buf, "| Stat | Value |\n")
	fmt.Fprintf(&buf, "| --- | --- |\n")
	fmt.Fprintf(&buf, "| Tracks | %d |\n", stats.TrackCount)
	fmt.Fprintf(&buf, "| Most popular track | %s |\n", escapeCell(stats.MostPopularTrack))
	fmt.Fprintf(&buf, "| Most popular artist | %s |\n", escapeCell(stats.MostPopularArtist))
	fmt.Fprintf(&buf, "| Artist with most tracks | %s |\n", escapeCell(stats.MostTracksArtist))
	fmt.Fprintf(&buf, "| Popularity range | %s |\n\n", loader.FormatRange(stats.TrackPopularityRange))

	buf.WriteString("## Tracks\n\n")
	for i, name := range stats.Names() {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, name)
	}

	return buf.Bytes(), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderPlain writes the display as labelled lines followed by the numbered track list.
func RenderPlain(w io.Writer, display *loader.Display) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rows := [][2]string{
		{"Tracks", display.TrackCount},
		{"Most popular track", display.MostPopularTrack},
		{"Most popular artist", display.MostPopularArtist},
		{"Artist with most tracks", display.MostTracksArtist},
		{"Popularity range", display.PopularityRange},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("failed to write display: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write display: %w", err)
	}

	if len(display.Tracks) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write display: %w", err)
	}
	for i, name := range display.Tracks {
		if _, err := fmt.Fprintf(w, "%3d. %s\n", i+1, name); err != nil {
			return fmt.Errorf("failed to write track list: %w", err)
		}
	}

	return nil
}

// RenderHistory writes snapshots as an aligned table, one row per snapshot.
func RenderHistory(w io.Writer, snapshots []*models.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tRECORDED\tPLAYLIST\tTRACKS\tMOST POPULAR\tRANGE")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			s.Sequence,
			s.CreatedAt.Local().Format(time.DateTime),
			s.PlaylistID,
			s.Stats.TrackCount,
			s.Stats.MostPopularTrack,
			loader.FormatRange(s.Stats.TrackPopularityRange),
		)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// WriteExport writes data to path, creating parent directories as needed.
func WriteExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
