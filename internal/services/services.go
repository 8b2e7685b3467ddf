// package services defines the HTTP clients used by playstats
//
// Spotify (the stats service's playlist source) and the stats service itself (used by the loader)
package services

import (
	"context"

	"github.com/desertthunder/playstats/internal/models"
)

// PlaylistSource provides the tracks of a playlist by id.
type PlaylistSource interface {
	// PlaylistTracks returns every track of the playlist in playlist order, with artist genres attached.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the name of the source (e.g., "Spotify")
	Name() string
}

// StatsFetcher retrieves summaries from the stats service.
type StatsFetcher interface {
	FetchStats(ctx context.Context, playlistID string) (*models.PlaylistStats, error)
}

var (
	_ PlaylistSource = (*SpotifyService)(nil)
	_ StatsFetcher   = (*StatsClient)(nil)
)
