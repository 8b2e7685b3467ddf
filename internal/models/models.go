// package models defines the data model for the playlist stats service
package models

import (
	"fmt"
	"strings"
	"time"
)

// Artist is a performer credited on a track.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// Track is a single item of a playlist.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []Artist `json:"artists"`
	Popularity int      `json:"popularity"`
	DurationMS int      `json:"duration_ms"`
}

// TrackName is an entry of [PlaylistStats.Tracks].
type TrackName struct {
	TrackName string `json:"track_name"`
}

// PopularityRange is the ordered (lowest, highest) popularity pair of a playlist.
type PopularityRange [2]float64

func (r PopularityRange) Low() float64  { return r[0] }
func (r PopularityRange) High() float64 { return r[1] }

// PlaylistStats is the summary the stats service returns for a playlist.
type PlaylistStats struct {
	TrackCount           int             `json:"track_count"`
	MostPopularTrack     string          `json:"most_popular_track"`
	MostPopularArtist    string          `json:"most_popular_artist"`
	MostTracksArtist     string          `json:"most_tracks_artist"`
	TrackPopularityRange PopularityRange `json:"track_popularity_range"`
	Tracks               []TrackName     `json:"tracks"`
}

// Validate checks invariants that a decoded summary must satisfy.
func (s *PlaylistStats) Validate() error {
	if s.TrackCount < 0 {
		return fmt.Errorf("track_count must not be negative, got %d", s.TrackCount)
	}
	if s.TrackPopularityRange.Low() > s.TrackPopularityRange.High() {
		return fmt.Errorf("track_popularity_range is not ordered: %v > %v",
			s.TrackPopularityRange.Low(), s.TrackPopularityRange.High())
	}
	return nil
}

// Names returns the track names in order.
func (s *PlaylistStats) Names() []string {
	names := make([]string, len(s.Tracks))
	for i, t := range s.Tracks {
		names[i] = t.TrackName
	}
	return names
}

// TrackRecord is the flattened per-track row served at /playlist/tracks.
type TrackRecord struct {
	TrackID     string   `json:"track_id"`
	TrackName   string   `json:"track_name"`
	ArtistIDs   []string `json:"artist_ids"`
	ArtistNames []string `json:"artist_names"`
	Genres      []string `json:"genres"`
	Popularity  int      `json:"popularity"`
	DurationMS  int      `json:"duration_ms"`
	IsPop       bool     `json:"is_pop"`
	IsRap       bool     `json:"is_rap"`
	IsDance     bool     `json:"is_dance"`
	IsCountry   bool     `json:"is_country"`
}

// Snapshot is a persisted copy of a summary served for a playlist.
type Snapshot struct {
	ID         string        `json:"id"`
	Sequence   int           `json:"sequence"`
	PlaylistID string        `json:"playlist_id"`
	Stats      PlaylistStats `json:"stats"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewSnapshot creates an unsaved snapshot of stats for playlistID.
func NewSnapshot(playlistID string, stats PlaylistStats) *Snapshot {
	return &Snapshot{
		PlaylistID: playlistID,
		Stats:      stats,
		CreatedAt:  time.Now().UTC(),
	}
}

// Validate checks that the snapshot can be stored.
func (s *Snapshot) Validate() error {
	if strings.TrimSpace(s.PlaylistID) == "" {
		return fmt.Errorf("playlist id is required")
	}
	if s.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}
	return s.Stats.Validate()
}
