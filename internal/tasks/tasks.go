package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playstats/internal/models"
)

// Source fetches summaries and per-track records from the stats service.
//
// services.StatsClient satisfies it.
type Source interface {
	FetchStats(ctx context.Context, playlistID string) (*models.PlaylistStats, error)
	FetchTracks(ctx context.Context, playlistID string) ([]models.TrackRecord, error)
}

// ExportEngine runs bulk operations against a [Source].
type ExportEngine struct {
	source Source
	logger *log.Logger
}

// NewExportEngine creates an ExportEngine. A nil logger discards output.
func NewExportEngine(source Source, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExportEngine{source: source, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
		// Channel full, skip this update
	}
}
