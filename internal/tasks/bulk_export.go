package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/playstats/internal/formatter"
	"github.com/desertthunder/playstats/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
	manifestFile     = "export_manifest.json"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string  // Export format: csv, markdown, json
	OutputDir  string  // Base output directory (default: playstats_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5, max: 10)
	RateLimit  float64 // Requests per second across all workers (default: 5)
}

// PlaylistExportResult is the outcome for one playlist.
type PlaylistExportResult struct {
	PlaylistID string `json:"playlist_id"`
	Success    bool   `json:"success"`
	TrackCount int    `json:"track_count"`
	File       string `json:"file,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export. Results are in input order.
type BulkExportResult struct {
	Format            string                 `json:"format"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	CompletedAt       time.Time              `json:"completed_at"`
	Results           []PlaylistExportResult `json:"results"`
}

type exportJob struct {
	index      int
	playlistID string
	name       string // output file name without extension, unique within the run
}

// BulkExport exports multiple playlists concurrently with rate limiting and progress tracking.
//
// Partial failures are recorded per playlist. The returned error is reserved for failures that
// affect the whole run: an invalid format, an unwritable output directory, cancellation or the manifest.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: stats source not initialized", shared.ErrServiceUnavailable)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no playlist ids", shared.ErrMissingArgument)
	}

	opts.Format = strings.ToLower(opts.Format)
	if _, ok := extensions[opts.Format]; !ok {
		return nil, fmt.Errorf("%w: unknown format %q (want csv, markdown or json)", shared.ErrInvalidFlag, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playstats_export_%d", time.Now().Unix())
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	planned := planExports(ids)
	if len(planned) < len(ids) {
		e.logger.Debug("skipping repeated playlist ids", "requested", len(ids), "unique", len(planned))
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	opts.NumWorkers = min(opts.NumWorkers, maxWorkers, len(planned))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		TotalPlaylists:  len(planned),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, len(planned)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob)
	results := make(chan exportJob, len(planned))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, limiter, jobs, results, result.Results, opts)
	}

	go func() {
		defer close(jobs)
		for _, job := range planned {
			select {
			case <-ctx.Done():
				return
			case jobs <- job:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	total := len(planned)
	e.sendProgress(prog, startingExportUpdate(total, opts.NumWorkers))

	completed := 0
	for job := range results {
		completed++
		res := result.Results[job.index]
		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, total, res))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(completed, total, res))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("bulk export interrupted after %d of %d playlists: %w", completed, total, err)
	}

	result.CompletedAt = time.Now().UTC()
	manifestPath := filepath.Join(opts.OutputDir, manifestFile)
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	e.logger.Info("bulk export finished",
		"total", result.TotalPlaylists, "succeeded", result.SuccessfulExports, "failed", result.FailedExports)
	return result, nil
}

// exportWorker exports playlists from the jobs channel. Each job owns its slot in out.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	limiter *rate.Limiter,
	jobs <-chan exportJob,
	results chan<- exportJob,
	out []PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		out[job.index] = e.exportSinglePlaylist(ctx, job, opts)
		results <- job
	}
}

var extensions = map[string]string{
	"csv":      ".csv",
	"markdown": ".md",
	"json":     ".json",
}

// exportSinglePlaylist fetches one playlist and writes it in the requested format.
func (e *ExportEngine) exportSinglePlaylist(ctx context.Context, job exportJob, opts BulkExportOpts) PlaylistExportResult {
	playlistID := job.playlistID
	result := PlaylistExportResult{PlaylistID: playlistID}

	data, count, err := e.render(ctx, playlistID, opts.Format)
	if err != nil {
		e.logger.Warn("playlist export failed", "playlist_id", playlistID, "err", err)
		result.Error = err.Error()
		return result
	}

	path := filepath.Join(opts.OutputDir, job.name+extensions[opts.Format])
	if err := formatter.WriteExport(path, data); err != nil {
		result.Error = err.Error()
		return result
	}

	result.TrackCount = count
	result.File = path
	result.Success = true
	return result
}

func (e *ExportEngine) render(ctx context.Context, playlistID, format string) ([]byte, int, error) {
	switch format {
	case "csv":
		records, err := e.source.FetchTracks(ctx, playlistID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch tracks: %w", err)
		}
		data, err := formatter.ExportToCSV(records)
		return data, len(records), err
	case "markdown":
		stats, err := e.source.FetchStats(ctx, playlistID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch stats: %w", err)
		}
		data, err := formatter.ExportToMarkdown(playlistID, stats)
		return data, stats.TrackCount, err
	default:
		stats, err := e.source.FetchStats(ctx, playlistID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to fetch stats: %w", err)
		}
		data, err := shared.MarshalJSON(stats, true)
		return data, stats.TrackCount, err
	}
}

// planExports trims ids, drops repeats and gives every playlist a distinct file name.
//
// Ids that sanitize to the same name get a numeric suffix in input order ("a_b", "a_b-2").
func planExports(ids []string) []exportJob {
	seenIDs := make(map[string]bool, len(ids))
	usedNames := make(map[string]bool, len(ids))
	jobs := make([]exportJob, 0, len(ids))

	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if seenIDs[id] {
			continue
		}
		seenIDs[id] = true

		base := fileName(id)
		name := base
		for n := 2; usedNames[name]; n++ {
			name = fmt.Sprintf("%s-%d", base, n)
		}
		usedNames[name] = true

		jobs = append(jobs, exportJob{index: len(jobs), playlistID: id, name: name})
	}
	return jobs
}

// fileName maps a playlist id to a single path element.
func fileName(playlistID string) string {
	if playlistID == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		if r == os.PathSeparator || strings.ContainsRune(`/\:`, r) {
			return '_'
		}
		return r
	}, playlistID)
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return formatter.WriteExport(path, data)
}
