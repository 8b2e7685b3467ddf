package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/services"
	"github.com/desertthunder/playstats/internal/shared"
	"github.com/desertthunder/playstats/internal/stats"
)

// DefaultPlaylistID is the Billboard Hot 100 playlist.
const DefaultPlaylistID = "6UeSakyzhiEt4NB3UAd6NQ"

// Recorder persists summaries served by the stats service.
type Recorder interface {
	Record(playlistID string, stats *models.PlaylistStats) (*models.Snapshot, error)
}

// PlaylistHandler serves playlist summaries and per-track rows computed from a [services.PlaylistSource].
type PlaylistHandler struct {
	source          services.PlaylistSource
	recorder        Recorder
	defaultPlaylist string
	logger          *log.Logger
}

// NewPlaylistHandler creates a handler. recorder may be nil; an empty defaultPlaylist uses [DefaultPlaylistID].
func NewPlaylistHandler(source services.PlaylistSource, recorder Recorder, defaultPlaylist string, logger *log.Logger) *PlaylistHandler {
	if defaultPlaylist == "" {
		defaultPlaylist = DefaultPlaylistID
	}
	return &PlaylistHandler{
		source:          source,
		recorder:        recorder,
		defaultPlaylist: defaultPlaylist,
		logger:          logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{"/playlist", "/playlist/tracks"}
}

func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	playlistID := h.playlistID(r)

	switch strings.TrimSuffix(r.URL.Path, "/") {
	case "/playlist":
		h.serveSummary(r.Context(), w, playlistID)
	case "/playlist/tracks":
		h.serveTracks(r.Context(), w, playlistID)
	default:
		writeError(w, http.StatusNotFound, "no route for "+r.URL.Path)
	}
}

// playlistID returns the requested id, or the default when the parameter is absent.
func (h *PlaylistHandler) playlistID(r *http.Request) string {
	query := r.URL.Query()
	if !query.Has("playlist_id") {
		return h.defaultPlaylist
	}
	return query.Get("playlist_id")
}

func (h *PlaylistHandler) serveSummary(ctx context.Context, w http.ResponseWriter, playlistID string) {
	tracks, err := h.source.PlaylistTracks(ctx, playlistID)
	if err != nil {
		h.fail(w, playlistID, err)
		return
	}

	summary := stats.Summarize(tracks)

	if h.recorder != nil {
		if snapshot, err := h.recorder.Record(playlistID, summary); err != nil {
			h.logger.Warn("failed to record snapshot", "playlist_id", playlistID, "err", err)
		} else {
			h.logger.Debug("recorded snapshot", "playlist_id", playlistID, "id", snapshot.ID, "sequence", snapshot.Sequence)
		}
	}

	writeJSON(w, http.StatusOK, summary)
}

func (h *PlaylistHandler) serveTracks(ctx context.Context, w http.ResponseWriter, playlistID string) {
	tracks, err := h.source.PlaylistTracks(ctx, playlistID)
	if err != nil {
		h.fail(w, playlistID, err)
		return
	}

	writeJSON(w, http.StatusOK, stats.Records(tracks))
}

func (h *PlaylistHandler) fail(w http.ResponseWriter, playlistID string, err error) {
	status := StatusFor(err)
	h.logger.Error("failed to fetch playlist", "source", h.source.Name(), "playlist_id", playlistID, "status", status, "err", err)
	writeError(w, status, err.Error())
}

// StatusFor maps a source error to the HTTP status the stats service responds with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// HealthHandler reports that the service is up.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NewStatsRouter wires the stats service routes and middleware.
func NewStatsRouter(handler *PlaylistHandler, allowedOrigins []string, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Logging(logger), Recover(logger), CORS(allowedOrigins))
	router.Handler(handler)
	router.Handle(http.MethodGet, "/health", http.HandlerFunc(HealthHandler))
	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := shared.MarshalJSON(v, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
