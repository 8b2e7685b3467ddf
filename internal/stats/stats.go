// Package stats computes the aggregate playlist statistics served by the stats service.
//
// [Summarize] produces the /playlist summary. [Records] flattens tracks into the per-track rows served at
// /playlist/tracks, tagging each with genre flags derived from its artists' genres.
package stats

import (
	"slices"
	"strings"

	"github.com/desertthunder/playstats/internal/models"
)

// Genre keywords reported as boolean flags on every [models.TrackRecord].
const (
	GenrePop     = "pop"
	GenreRap     = "rap"
	GenreDance   = "dance"
	GenreCountry = "country"
)

// Summarize computes the summary for tracks in playlist order.
//
// The most popular track is the first one with the highest popularity. Both artist fields report the
// artist with the most tracks. An empty playlist yields zero counts, empty names and a [0, 0] range.
func Summarize(tracks []models.Track) *models.PlaylistStats {
	summary := &models.PlaylistStats{
		TrackCount: len(tracks),
		Tracks:     make([]models.TrackName, 0, len(tracks)),
	}

	if len(tracks) == 0 {
		return summary
	}

	top := 0
	low, high := tracks[0].Popularity, tracks[0].Popularity
	for i, t := range tracks {
		summary.Tracks = append(summary.Tracks, models.TrackName{TrackName: t.Name})
		if t.Popularity > tracks[top].Popularity {
			top = i
		}
		low = min(low, t.Popularity)
		high = max(high, t.Popularity)
	}

	summary.MostPopularTrack = tracks[top].Name
	if artist, _, ok := ArtistWithMostTracks(tracks); ok {
		summary.MostPopularArtist = artist.Name
		summary.MostTracksArtist = artist.Name
	}
	summary.TrackPopularityRange = models.PopularityRange{float64(low), float64(high)}

	return summary
}

// ArtistWithMostTracks returns the artist credited on the most tracks and that count.
//
// Ties go to the artist encountered first. ok is false when no track credits an artist.
func ArtistWithMostTracks(tracks []models.Track) (artist models.Artist, count int, ok bool) {
	counts := make(map[string]int)
	var order []models.Artist

	for _, t := range tracks {
		for _, a := range t.Artists {
			key := artistKey(a)
			if _, seen := counts[key]; !seen {
				order = append(order, a)
			}
			counts[key]++
		}
	}

	for _, a := range order {
		if c := counts[artistKey(a)]; c > count {
			artist, count, ok = a, c, true
		}
	}

	return artist, count, ok
}

// artistKey identifies an artist by id, falling back to the name for artists without one.
func artistKey(a models.Artist) string {
	if a.ID != "" {
		return a.ID
	}
	return "name:" + a.Name
}

// Genres returns the unique genres of all artists on t, sorted.
func Genres(t models.Track) []string {
	var genres []string
	for _, a := range t.Artists {
		genres = append(genres, a.Genres...)
	}
	slices.Sort(genres)
	return slices.Compact(genres)
}

// GenreContains reports whether any genre of t contains keyword, ignoring case.
func GenreContains(t models.Track, keyword string) bool {
	keyword = strings.ToLower(keyword)
	for _, g := range Genres(t) {
		if strings.Contains(strings.ToLower(g), keyword) {
			return true
		}
	}
	return false
}

// Records flattens tracks into per-track rows.
func Records(tracks []models.Track) []models.TrackRecord {
	records := make([]models.TrackRecord, 0, len(tracks))
	for _, t := range tracks {
		ids := make([]string, len(t.Artists))
		names := make([]string, len(t.Artists))
		for i, a := range t.Artists {
			ids[i] = a.ID
			names[i] = a.Name
		}

		genres := Genres(t)
		if genres == nil {
			genres = []string{}
		}

		records = append(records, models.TrackRecord{
			TrackID:     t.ID,
			TrackName:   t.Name,
			ArtistIDs:   ids,
			ArtistNames: names,
			Genres:      genres,
			Popularity:  t.Popularity,
			DurationMS:  t.DurationMS,
			IsPop:       GenreContains(t, GenrePop),
			IsRap:       GenreContains(t, GenreRap),
			IsDance:     GenreContains(t, GenreDance),
			IsCountry:   GenreContains(t, GenreCountry),
		})
	}
	return records
}
