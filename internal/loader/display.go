package loader

import (
	"strconv"

	"github.com/desertthunder/playstats/internal/models"
)

// Display holds the rendered summary: five text fields and the track list.
type Display struct {
	TrackCount        string   `json:"track_count"`
	MostPopularTrack  string   `json:"most_popular_track"`
	MostPopularArtist string   `json:"most_popular_artist"`
	MostTracksArtist  string   `json:"most_tracks_artist"`
	PopularityRange   string   `json:"popularity_range"`
	Tracks            []string `json:"tracks"`
}

// Empty reports whether nothing has been rendered yet.
func (d *Display) Empty() bool {
	return d.TrackCount == "" && d.MostPopularTrack == "" && d.MostPopularArtist == "" &&
		d.MostTracksArtist == "" && d.PopularityRange == "" && len(d.Tracks) == 0
}

// Render writes stats into display. The track list is replaced by a fresh slice of the new names,
// so copies of an earlier Display keep their own tracks.
func Render(display *Display, stats *models.PlaylistStats) {
	display.TrackCount = strconv.Itoa(stats.TrackCount)
	display.MostPopularTrack = stats.MostPopularTrack
	display.MostPopularArtist = stats.MostPopularArtist
	display.MostTracksArtist = stats.MostTracksArtist
	display.PopularityRange = FormatRange(stats.TrackPopularityRange)

	tracks := make([]string, 0, len(stats.Tracks))
	for _, t := range stats.Tracks {
		tracks = append(tracks, t.TrackName)
	}
	display.Tracks = tracks
}

// FormatRange formats a popularity pair as "low - high" using the shortest exact decimal form.
func FormatRange(r models.PopularityRange) string {
	return formatNumber(r.Low()) + " - " + formatNumber(r.High())
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
