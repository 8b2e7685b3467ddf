package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/playstats/internal/models"
	"github.com/desertthunder/playstats/internal/shared"
	tu "github.com/desertthunder/playstats/internal/testing"
)

func TestStatsClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewStatsClient("http://example.com/", customClient)

			if c.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL and Nil Client", func(t *testing.T) {
			c := NewStatsClient("", nil)

			if c.baseURL != DefaultStatsURL {
				t.Errorf("expected default baseURL %s, got %s", DefaultStatsURL, c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("PlaylistURL", func(t *testing.T) {
		c := NewStatsClient("", nil)

		if got := c.PlaylistURL("42"); got != "http://127.0.0.1:5000/playlist?playlist_id=42" {
			t.Errorf("PlaylistURL() = %s", got)
		}

		for _, id := range []string{"6UeSakyzhiEt4NB3UAd6NQ", "a b&c=d", "ünïcode", ""} {
			u, err := url.Parse(c.PlaylistURL(id))
			if err != nil {
				t.Fatalf("PlaylistURL(%q) is not a valid URL: %v", id, err)
			}
			if u.Path != "/playlist" {
				t.Errorf("expected path /playlist, got %s", u.Path)
			}
			if got := u.Query().Get("playlist_id"); got != id {
				t.Errorf("playlist_id = %q, want %q", got, id)
			}
		}
	})

	t.Run("FetchStats", func(t *testing.T) {
		t.Run("Success", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/playlist" {
					t.Errorf("expected path /playlist, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("playlist_id") != "abc" {
					t.Errorf("expected playlist_id abc, got %s", r.URL.RawQuery)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tu.SampleStatsJSON))
			}))
			defer srv.Close()

			stats, err := NewStatsClient(srv.URL, srv.Client()).FetchStats(context.Background(), "abc")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := tu.SampleStats()
			if !reflect.DeepEqual(stats, want) {
				t.Errorf("FetchStats() = %+v, want %+v", stats, want)
			}
		})

		t.Run("Error Status With JSON Message", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"error":"playlist not found: abc"}`))
			}))
			defer srv.Close()

			_, err := NewStatsClient(srv.URL, srv.Client()).FetchStats(context.Background(), "abc")
			if !errors.Is(err, shared.ErrServiceStatus) {
				t.Fatalf("expected ErrServiceStatus, got %v", err)
			}
			if want := "status 404: playlist not found: abc"; !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in %q", want, err.Error())
			}
		})

		t.Run("Error Status Without Body", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			_, err := NewStatsClient(srv.URL, srv.Client()).FetchStats(context.Background(), "abc")
			if !errors.Is(err, shared.ErrServiceStatus) {
				t.Errorf("expected ErrServiceStatus, got %v", err)
			}
		})

		t.Run("Network Failure", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			baseURL := srv.URL
			srv.Close()

			_, err := NewStatsClient(baseURL, nil).FetchStats(context.Background(), "abc")
			if !errors.Is(err, shared.ErrRequestFailed) {
				t.Errorf("expected ErrRequestFailed, got %v", err)
			}
		})

		t.Run("Body Read Failure", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     make(http.Header),
			}, nil)}

			_, err := NewStatsClient("http://stats.test", client).FetchStats(context.Background(), "abc")
			if !errors.Is(err, shared.ErrRequestFailed) {
				t.Errorf("expected ErrRequestFailed, got %v", err)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tu.SampleStatsJSON))
			}))
			defer srv.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := NewStatsClient(srv.URL, srv.Client()).FetchStats(ctx, "abc")
			if !errors.Is(err, shared.ErrRequestFailed) || !errors.Is(err, context.Canceled) {
				t.Errorf("expected ErrRequestFailed wrapping context.Canceled, got %v", err)
			}
		})
	})

	t.Run("FetchTracks", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlist/tracks" {
				t.Errorf("expected path /playlist/tracks, got %s", r.URL.Path)
			}
			w.Write([]byte(`[{"track_id":"t1","track_name":"X","artist_names":["B"],"genres":["pop"],"popularity":90,"is_pop":true}]`))
		}))
		defer srv.Close()

		records, err := NewStatsClient(srv.URL, srv.Client()).FetchTracks(context.Background(), "abc")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(records) != 1 || records[0].TrackName != "X" || !records[0].IsPop {
			t.Errorf("unexpected records %+v", records)
		}
	})
}

func TestDecodeStats(t *testing.T) {
	tc := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "valid", body: tu.SampleStatsJSON},
		{
			name: "empty playlist",
			body: `{"track_count":0,"most_popular_track":"","most_popular_artist":"","most_tracks_artist":"","track_popularity_range":[0,0],"tracks":[]}`,
		},
		{name: "not json", body: `<html>oops</html>`, wantErr: shared.ErrRequestFailed},
		{name: "truncated", body: `{"track_count":5`, wantErr: shared.ErrRequestFailed},
		{name: "null body", body: `null`, wantErr: shared.ErrValidation},
		{name: "array body", body: `[]`, wantErr: shared.ErrValidation},
		{name: "missing fields", body: `{"track_count":5}`, wantErr: shared.ErrValidation},
		{
			name:    "string count",
			body:    `{"track_count":"5","most_popular_track":"A","most_popular_artist":"B","most_tracks_artist":"C","track_popularity_range":[10,90],"tracks":[]}`,
			wantErr: shared.ErrValidation,
		},
		{
			name:    "short range",
			body:    `{"track_count":5,"most_popular_track":"A","most_popular_artist":"B","most_tracks_artist":"C","track_popularity_range":[10],"tracks":[]}`,
			wantErr: shared.ErrValidation,
		},
		{
			name:    "reversed range",
			body:    `{"track_count":5,"most_popular_track":"A","most_popular_artist":"B","most_tracks_artist":"C","track_popularity_range":[90,10],"tracks":[]}`,
			wantErr: shared.ErrValidation,
		},
		{
			name:    "track without name",
			body:    `{"track_count":1,"most_popular_track":"A","most_popular_artist":"B","most_tracks_artist":"C","track_popularity_range":[10,90],"tracks":[{"name":"X"}]}`,
			wantErr: shared.ErrValidation,
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := DecodeStats([]byte(tt.body))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if stats == nil {
					t.Fatal("expected stats")
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("Reports Missing Field Names", func(t *testing.T) {
		_, err := DecodeStats([]byte(`{"track_count":5,"tracks":[]}`))
		for _, field := range []string{"most_popular_track", "most_popular_artist", "most_tracks_artist", "track_popularity_range"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("expected %s in %q", field, err.Error())
			}
		}
	})

	t.Run("Fractional Range", func(t *testing.T) {
		body := `{"track_count":1,"most_popular_track":"A","most_popular_artist":"B","most_tracks_artist":"C","track_popularity_range":[12.5,90],"tracks":[{"track_name":"A"}]}`
		stats, err := DecodeStats([]byte(body))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if stats.TrackPopularityRange != (models.PopularityRange{12.5, 90}) {
			t.Errorf("unexpected range %v", stats.TrackPopularityRange)
		}
	})
}
