package formatter

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/playstats/internal/loader"
	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/stats"
	th "github.com/desertthunder/playstats/internal/testing"
)

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(stats.Records(th.SampleTracks()))
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}

		if len(rows) != 4 {
			t.Fatalf("expected header and 3 rows, got %d", len(rows))
		}
		if strings.Join(rows[0], ",") != strings.Join(CSVHeaders, ",") {
			t.Errorf("unexpected headers %v", rows[0])
		}

		second := rows[2]
		if second[0] != "t2" || second[1] != "Song B" {
			t.Errorf("unexpected id/name %v", second[:2])
		}
		if second[2] != "Drake; Taylor Swift" {
			t.Errorf("expected joined artists, got %q", second[2])
		}
		if second[4] != "98" || second[6] != "true" || second[7] != "true" || second[8] != "false" {
			t.Errorf("unexpected values %v", second)
		}
	})

	t.Run("ExportToCSV Empty", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if got := strings.TrimSpace(string(data)); got != strings.Join(CSVHeaders, ",") {
			t.Errorf("expected only headers, got %q", got)
		}
	})

	t.Run("ExportToCSV Quotes Fields", func(t *testing.T) {
		data, err := ExportToCSV([]models.TrackRecord{{TrackID: "x", TrackName: `Hello, "World"`}})
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if !strings.Contains(string(data), `"Hello, ""World"""`) {
			t.Errorf("expected quoted field, got %s", data)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("abc", th.SampleStats())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{
			"# Playlist abc",
			"| Tracks | 3 |",
			"| Most popular track | Song B |",
			"| Popularity range | 12 - 98 |",
			"## Tracks",
			"1. Song A",
			"3. Song C",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToMarkdown Escapes Pipes", func(t *testing.T) {
		s := th.SampleStats()
		s.MostPopularTrack = "A|B"

		data, err := ExportToMarkdown("abc", s)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if !strings.Contains(string(data), `A\|B`) {
			t.Errorf("expected escaped pipe, got:\n%s", data)
		}
	})

	t.Run("ExportToMarkdown Nil Stats", func(t *testing.T) {
		if _, err := ExportToMarkdown("abc", nil); err == nil {
			t.Error("expected error for nil stats")
		}
	})
}

func TestRenderPlain(t *testing.T) {
	t.Run("Fields And Tracks", func(t *testing.T) {
		var d loader.Display
		loader.Render(&d, th.SampleStats())

		var buf bytes.Buffer
		if err := RenderPlain(&buf, &d); err != nil {
			t.Fatalf("RenderPlain failed: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"Tracks:", "Drake", "12 - 98", "  1. Song A", "  3. Song C"} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q, got:\n%s", want, output)
			}
		}
		if strings.Index(output, "Song A") > strings.Index(output, "Song C") {
			t.Error("tracks out of order")
		}
	})

	t.Run("Empty Display", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RenderPlain(&buf, &loader.Display{}); err != nil {
			t.Fatalf("RenderPlain failed: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 5 {
			t.Errorf("expected 5 field lines, got:\n%s", buf.String())
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		d := loader.Display{Tracks: []string{"x"}}
		if err := RenderPlain(&th.FWriter{}, &d); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("Track List Write Failure", func(t *testing.T) {
		var buf bytes.Buffer
		w := th.NewLimitedWriter(2, 0, &buf)
		d := loader.Display{Tracks: []string{"x", "y"}}
		if err := RenderPlain(&w, &d); err == nil {
			t.Error("expected write error")
		}
	})
}

func TestRenderHistory(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snapshots := []*models.Snapshot{
		{Sequence: 2, PlaylistID: "abc", Stats: *th.SampleStats(), CreatedAt: created},
		{Sequence: 1, PlaylistID: "abc", Stats: models.PlaylistStats{}, CreatedAt: created.Add(-time.Hour)},
	}

	var buf bytes.Buffer
	if err := RenderHistory(&buf, snapshots); err != nil {
		t.Fatalf("RenderHistory failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "#") || !strings.Contains(lines[0], "RANGE") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "Song B") || !strings.Contains(lines[1], "12 - 98") {
		t.Errorf("unexpected first row %q", lines[1])
	}
	if !strings.Contains(lines[2], "0 - 0") {
		t.Errorf("unexpected second row %q", lines[2])
	}
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.csv")

	if err := WriteExport(path, []byte("a,b\n")); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	th.AssertFileExists(t, path)
	if got := th.MustReadFile(t, path); got != "a,b\n" {
		t.Errorf("unexpected content %q", got)
	}
}
