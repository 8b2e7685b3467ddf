package loader

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/shared"
)

// Fetcher retrieves the summary of a playlist.
type Fetcher interface {
	FetchStats(ctx context.Context, playlistID string) (*models.PlaylistStats, error)
}

// Request is a single activation of the loader.
type Request struct {
	Seq        uint64
	PlaylistID string

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns the request's context, cancelled once a newer request is activated.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Outcome is the result of running a [Request].
type Outcome struct {
	Seq        uint64
	PlaylistID string
	Stats      *models.PlaylistStats
	Err        error
}

// Loader issues summary requests and applies their outcomes to a [Display].
type Loader struct {
	fetcher Fetcher
	logger  *log.Logger

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// New creates a loader backed by fetcher. A nil logger discards output.
func New(fetcher Fetcher, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{fetcher: fetcher, logger: logger}
}

// Activate starts a new request for the trimmed raw input and cancels the previous one.
//
// Empty input is not rejected; the stats service decides what it means.
func (l *Loader) Activate(ctx context.Context, raw string) Request {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}

	reqCtx, cancel := context.WithCancel(ctx)
	l.seq++
	l.cancel = cancel

	return Request{
		Seq:        l.seq,
		PlaylistID: strings.TrimSpace(raw),
		ctx:        reqCtx,
		cancel:     cancel,
	}
}

// Run fetches the summary for req and releases its context.
func (l *Loader) Run(req Request) Outcome {
	if req.cancel != nil {
		defer req.cancel()
	}

	l.logger.Debug("fetching playlist stats", "playlist_id", req.PlaylistID, "seq", req.Seq)
	stats, err := l.fetcher.FetchStats(req.Context(), req.PlaylistID)
	if err == nil && stats == nil {
		err = fmt.Errorf("%w: empty response", shared.ErrValidation)
	}

	return Outcome{Seq: req.Seq, PlaylistID: req.PlaylistID, Stats: stats, Err: err}
}

// Apply renders outcome into display when it is the latest request's success and reports whether it did.
//
// Failures of the latest request are logged at error level; superseded outcomes are dropped.
func (l *Loader) Apply(display *Display, outcome Outcome) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if outcome.Seq != l.seq {
		l.logger.Debug("discarding superseded outcome", "playlist_id", outcome.PlaylistID,
			"seq", outcome.Seq, "latest", l.seq)
		return false
	}

	if outcome.Err != nil {
		l.logger.Error("failed to load playlist stats", "playlist_id", outcome.PlaylistID, "err", outcome.Err)
		return false
	}

	Render(display, outcome.Stats)
	l.logger.Debug("rendered playlist stats", "playlist_id", outcome.PlaylistID, "tracks", len(display.Tracks))
	return true
}

// Load activates, runs and applies a request in one call and returns the fetch error, if any.
func (l *Loader) Load(ctx context.Context, raw string, display *Display) error {
	outcome := l.Run(l.Activate(ctx, raw))
	l.Apply(display, outcome)
	return outcome.Err
}

// Latest returns the sequence number of the most recent activation.
func (l *Loader) Latest() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}
