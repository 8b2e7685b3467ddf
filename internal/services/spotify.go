// Spotify API implementation of [PlaylistSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify rejects artist lookups with more ids than this.
	maxArtistsPerRequest = 50
)

var (
	errNotFound   = errors.New("resource not found")
	errBadRequest = errors.New("bad request")
)

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	DurationMS int             `json:"duration_ms"`
	Popularity int             `json:"popularity"`
	URI        string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist. Genres are only populated by the artists endpoint.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
	URI    string   `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for items Spotify can no longer resolve.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyTrackPage is one page of a playlist's tracks.
type SpotifyTrackPage struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifyPlaylist represents a Spotify playlist with the first page of its tracks.
type SpotifyPlaylist struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Public      bool             `json:"public"`
	Tracks      SpotifyTrackPage `json:"tracks"`
	URI         string           `json:"uri"`
}

// SpotifyService implements [PlaylistSource] for the Spotify Web API.
//
// Authenticates with the client credentials grant; the [oauth2] transport fetches and refreshes the app token.
type SpotifyService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSpotifyService creates a Spotify service from "client_id" and "client_secret" credentials.
//
// limit caps requests per second; zero or less disables limiting.
func NewSpotifyService(credentials map[string]string, limit rate.Limit) (*SpotifyService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}

	if limit <= 0 {
		limit = rate.Inf
	}

	return &SpotifyService{
		baseURL:    spotifyBaseURL,
		httpClient: config.Client(context.Background()),
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// doRequest performs a GET against the Spotify API and decodes the JSON body into result.
//
// endpoint is either a path relative to the API base or an absolute URL (pagination links).
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrNotAuthenticated, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, errNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, errBadRequest)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

// Playlist retrieves a playlist by ID with the first page of its tracks.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(playlistID))

	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, endpoint, &playlist); err != nil {
		switch {
		case errors.Is(err, errNotFound):
			return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
		case errors.Is(err, errBadRequest):
			return nil, fmt.Errorf("%w: malformed playlist id %q", shared.ErrInvalidInput, playlistID)
		}
		return nil, err
	}

	return &playlist, nil
}

// PlaylistItems retrieves every item of a playlist, following the pagination links.
func (s *SpotifyService) PlaylistItems(ctx context.Context, playlistID string) ([]SpotifyPlaylistTrack, error) {
	playlist, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items := playlist.Tracks.Items
	for next := playlist.Tracks.Next; next != nil && *next != ""; {
		var page SpotifyTrackPage
		if err := s.doRequest(ctx, *next, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch playlist page: %w", err)
		}
		items = append(items, page.Items...)
		next = page.Next
	}

	return items, nil
}

// SeveralArtists retrieves multiple artists by their IDs (up to 50).
//
// Unknown ids are omitted from the result.
func (s *SpotifyService) SeveralArtists(ctx context.Context, artistIDs []string) ([]SpotifyArtist, error) {
	if len(artistIDs) == 0 {
		return nil, nil
	}
	if len(artistIDs) > maxArtistsPerRequest {
		return nil, fmt.Errorf("%w: maximum %d artist IDs allowed", shared.ErrInvalidArgument, maxArtistsPerRequest)
	}

	endpoint := fmt.Sprintf("/artists?ids=%s", url.QueryEscape(strings.Join(artistIDs, ",")))

	var response struct {
		Artists []*SpotifyArtist `json:"artists"`
	}
	if err := s.doRequest(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	artists := make([]SpotifyArtist, 0, len(response.Artists))
	for _, a := range response.Artists {
		if a != nil {
			artists = append(artists, *a)
		}
	}
	return artists, nil
}

// PlaylistTracks returns the tracks of a playlist with their artists' genres.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	items, err := s.PlaylistItems(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	var artistIDs []string
	seen := make(map[string]bool)
	for _, item := range items {
		if item.Track == nil {
			continue
		}
		for _, a := range item.Track.Artists {
			if a.ID != "" && !seen[a.ID] {
				seen[a.ID] = true
				artistIDs = append(artistIDs, a.ID)
			}
		}
	}

	artists := make(map[string]models.Artist, len(artistIDs))
	for start := 0; start < len(artistIDs); start += maxArtistsPerRequest {
		end := min(start+maxArtistsPerRequest, len(artistIDs))
		batch, err := s.SeveralArtists(ctx, artistIDs[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to fetch artists: %w", err)
		}
		for _, a := range batch {
			artists[a.ID] = models.Artist{ID: a.ID, Name: a.Name, Genres: a.Genres}
		}
	}

	tracks := make([]models.Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil {
			continue
		}

		track := models.Track{
			ID:         item.Track.ID,
			Name:       item.Track.Name,
			Popularity: item.Track.Popularity,
			DurationMS: item.Track.DurationMS,
		}
		for _, a := range item.Track.Artists {
			if full, ok := artists[a.ID]; ok {
				track.Artists = append(track.Artists, full)
			} else {
				track.Artists = append(track.Artists, models.Artist{ID: a.ID, Name: a.Name})
			}
		}

		tracks = append(tracks, track)
	}

	return tracks, nil
}
