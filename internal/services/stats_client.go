// Client for the playlist stats service
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/shared"
)

// DefaultStatsURL is the address the stats service listens on by default.
const DefaultStatsURL = "http://127.0.0.1:5000"

// StatsClient requests playlist summaries from the stats service.
type StatsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewStatsClient creates a client for the stats service at baseURL.
func NewStatsClient(baseURL string, client *http.Client) *StatsClient {
	if baseURL == "" {
		baseURL = DefaultStatsURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &StatsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// PlaylistURL returns the summary URL for playlistID. The id is query-encoded and otherwise used as given.
func (c *StatsClient) PlaylistURL(playlistID string) string {
	return c.baseURL + "/playlist?" + url.Values{"playlist_id": {playlistID}}.Encode()
}

// TracksURL returns the per-track records URL for playlistID.
func (c *StatsClient) TracksURL(playlistID string) string {
	return c.baseURL + "/playlist/tracks?" + url.Values{"playlist_id": {playlistID}}.Encode()
}

// FetchStats requests and validates the summary for playlistID.
func (c *StatsClient) FetchStats(ctx context.Context, playlistID string) (*models.PlaylistStats, error) {
	body, err := c.get(ctx, c.PlaylistURL(playlistID))
	if err != nil {
		return nil, err
	}
	return DecodeStats(body)
}

// FetchTracks requests the per-track records for playlistID.
func (c *StatsClient) FetchTracks(ctx context.Context, playlistID string) ([]models.TrackRecord, error) {
	body, err := c.get(ctx, c.TracksURL(playlistID))
	if err != nil {
		return nil, err
	}

	var records []models.TrackRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, classifyDecodeError(err)
	}
	return records, nil
}

// get performs the GET and returns the body of a 2xx response.
func (c *StatsClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", shared.ErrServiceStatus, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("%w: status %d", shared.ErrServiceStatus, resp.StatusCode)
	}

	return body, nil
}

type statsPayload struct {
	TrackCount           *int               `json:"track_count"`
	MostPopularTrack     *string            `json:"most_popular_track"`
	MostPopularArtist    *string            `json:"most_popular_artist"`
	MostTracksArtist     *string            `json:"most_tracks_artist"`
	TrackPopularityRange []float64          `json:"track_popularity_range"`
	Tracks               []trackNamePayload `json:"tracks"`
}

type trackNamePayload struct {
	TrackName *string `json:"track_name"`
}

// DecodeStats parses a stats service body into a validated summary.
//
// Malformed JSON wraps [shared.ErrRequestFailed]; missing or mistyped fields wrap [shared.ErrValidation].
func DecodeStats(body []byte) (*models.PlaylistStats, error) {
	var p statsPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, classifyDecodeError(err)
	}

	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("track_count", p.TrackCount != nil)
	check("most_popular_track", p.MostPopularTrack != nil)
	check("most_popular_artist", p.MostPopularArtist != nil)
	check("most_tracks_artist", p.MostTracksArtist != nil)
	check("track_popularity_range", p.TrackPopularityRange != nil)
	check("tracks", p.Tracks != nil)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields %s", shared.ErrValidation, strings.Join(missing, ", "))
	}

	if len(p.TrackPopularityRange) != 2 {
		return nil, fmt.Errorf("%w: track_popularity_range must have 2 elements, got %d",
			shared.ErrValidation, len(p.TrackPopularityRange))
	}

	stats := &models.PlaylistStats{
		TrackCount:           *p.TrackCount,
		MostPopularTrack:     *p.MostPopularTrack,
		MostPopularArtist:    *p.MostPopularArtist,
		MostTracksArtist:     *p.MostTracksArtist,
		TrackPopularityRange: models.PopularityRange{p.TrackPopularityRange[0], p.TrackPopularityRange[1]},
		Tracks:               make([]models.TrackName, len(p.Tracks)),
	}
	for i, t := range p.Tracks {
		if t.TrackName == nil {
			return nil, fmt.Errorf("%w: tracks[%d] has no track_name", shared.ErrValidation, i)
		}
		stats.Tracks[i] = models.TrackName{TrackName: *t.TrackName}
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	return stats, nil
}

// classifyDecodeError maps JSON type mismatches to [shared.ErrValidation] and everything else to
// [shared.ErrRequestFailed].
func classifyDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return fmt.Errorf("%w: invalid JSON body: %v", shared.ErrRequestFailed, err)
}
