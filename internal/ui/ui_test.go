package ui

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playstats/internal/loader"
	"github.com/desertthunder/playstats/internal/models"
	tu "github.com/desertthunder/playstats/internal/testing"
)

func newTestModel(fetcher *tu.MockFetcher, initialID string) *Model {
	m := NewModel(context.Background(), loader.New(fetcher, nil), initialID)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return m
}

func listNames(m *Model) []string {
	var names []string
	for _, item := range m.tracks.Items() {
		names = append(names, item.(trackItem).name)
	}
	return names
}

func TestModel(t *testing.T) {
	t.Run("Enter Loads And Renders", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Stats: map[string]*models.PlaylistStats{"42": tu.SampleStats()}}
		m := newTestModel(fetcher, " 42 ")

		cmd := m.activate()
		if !m.Loading() {
			t.Error("expected loading after activation")
		}

		m.Update(cmd())

		if m.Loading() {
			t.Error("expected loading to end after the outcome")
		}
		if len(fetcher.Calls) != 1 || fetcher.Calls[0] != "42" {
			t.Errorf("expected trimmed id to be fetched, got %q", fetcher.Calls)
		}

		d := m.Display()
		if d.TrackCount != "3" || d.MostPopularTrack != "Song B" || d.PopularityRange != "12 - 98" {
			t.Errorf("unexpected display %+v", d)
		}
		if !reflect.DeepEqual(listNames(m), []string{"Song A", "Song B", "Song C"}) {
			t.Errorf("unexpected list items %v", listNames(m))
		}

		view := m.View()
		for _, want := range []string{"Song B", "12 - 98", "Drake"} {
			if !strings.Contains(view, want) {
				t.Errorf("view missing %q", want)
			}
		}
	})

	t.Run("Enter Key Returns Command", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Stats: map[string]*models.PlaylistStats{"42": tu.SampleStats()}}
		m := newTestModel(fetcher, "42")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected a command for enter")
		}
		if m.loader.Latest() != 1 {
			t.Errorf("expected one activation, got %d", m.loader.Latest())
		}
	})

	t.Run("Enter Ignored While List Focused", func(t *testing.T) {
		m := newTestModel(&tu.MockFetcher{}, "42")

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != ListFocus {
			t.Fatal("expected list focus after tab")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.loader.Latest() != 0 {
			t.Error("enter should not load while the list is focused")
		}

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		if m.focus != InputFocus {
			t.Error("expected input focus after second tab")
		}
	})

	t.Run("Reload Replaces List", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Stats: map[string]*models.PlaylistStats{
			"a": tu.SampleStats(),
			"b": {TrackCount: 1, Tracks: []models.TrackName{{TrackName: "Only"}}},
		}}
		m := newTestModel(fetcher, "a")

		m.Update(m.activate()())
		m.input.SetValue("b")
		m.Update(m.activate()())

		if !reflect.DeepEqual(listNames(m), []string{"Only"}) {
			t.Errorf("expected list to be replaced, got %v", listNames(m))
		}
	})

	t.Run("Failure Leaves Screen Unchanged", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Stats: map[string]*models.PlaylistStats{"a": tu.SampleStats()}}
		m := newTestModel(fetcher, "a")
		m.Update(m.activate()())
		before := m.Display()

		fetcher.Err = errors.New("connection refused")
		m.Update(m.activate()())

		if !reflect.DeepEqual(m.Display(), before) {
			t.Errorf("display changed after failure: %+v", m.Display())
		}
		if len(listNames(m)) != 3 {
			t.Errorf("list changed after failure: %v", listNames(m))
		}
		if m.Loading() {
			t.Error("expected loading to end after a failure")
		}
	})

	t.Run("Superseded Outcome Ignored", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Stats: map[string]*models.PlaylistStats{
			"old": {TrackCount: 1, Tracks: []models.TrackName{{TrackName: "Old"}}},
			"new": {TrackCount: 1, Tracks: []models.TrackName{{TrackName: "New"}}},
		}}
		m := newTestModel(fetcher, "old")

		first := m.activate()
		m.input.SetValue("new")
		second := m.activate()

		m.Update(second())
		m.Update(first())

		if !reflect.DeepEqual(listNames(m), []string{"New"}) {
			t.Errorf("expected latest outcome to win, got %v", listNames(m))
		}
		if m.Loading() {
			t.Error("a superseded outcome should not affect loading state")
		}
	})

	t.Run("Superseded Outcome Keeps Loading", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Stats: map[string]*models.PlaylistStats{"a": tu.SampleStats()}}
		m := newTestModel(fetcher, "a")

		first := m.activate()
		m.activate()
		m.Update(first())

		if !m.Loading() {
			t.Error("expected loading to continue until the latest outcome arrives")
		}
	})

	t.Run("Quit", func(t *testing.T) {
		m := newTestModel(&tu.MockFetcher{}, "")

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})

	t.Run("Typing Updates Input", func(t *testing.T) {
		m := newTestModel(&tu.MockFetcher{}, "")

		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
		if m.input.Value() != "abc" {
			t.Errorf("expected input abc, got %q", m.input.Value())
		}
	})
}

func TestTrackItems(t *testing.T) {
	items := trackItems([]string{"X", "Y"})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if got := items[1].(trackItem).Title(); got != "2. Y" {
		t.Errorf("Title() = %q, want %q", got, "2. Y")
	}
	if got := items[0].FilterValue(); got != "X" {
		t.Errorf("FilterValue() = %q", got)
	}
}
