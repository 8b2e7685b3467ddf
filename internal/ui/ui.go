package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playstats/internal/loader"
)

// FocusState represents which component receives key input.
type FocusState int

const (
	InputFocus FocusState = iota
	ListFocus
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	loader  *loader.Loader
	focus   FocusState
	width   int
	height  int
	input   textinput.Model
	tracks  list.Model
	spinner spinner.Model
	loading bool
	display loader.Display
	help    help.Model
	keys    keyMap
}

// NewModel creates a TUI model bound to l. initialID pre-fills the input.
func NewModel(ctx context.Context, l *loader.Loader, initialID string) *Model {
	input := textinput.New()
	input.Placeholder = "Spotify playlist id"
	input.Prompt = "Playlist: "
	input.CharLimit = 256
	input.SetValue(initialID)
	input.Focus()

	return &Model{
		ctx:     ctx,
		loader:  l,
		focus:   InputFocus,
		input:   input,
		tracks:  newTrackList(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.warn)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the input cursor blinking.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
		m.tracks.SetSize(max(msg.Width-4, 0), max(msg.Height-14, 3))
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		switch msg.kind {
		case MsgStatsLoaded:
			return m, m.applyOutcome(msg.data.(loader.Outcome))
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.load) && m.focus == InputFocus:
		return m, tea.Batch(m.activate(), m.spinner.Tick)
	}

	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case InputFocus:
		m.input, cmd = m.input.Update(msg)
	case ListFocus:
		m.tracks, cmd = m.tracks.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == InputFocus {
		m.focus = ListFocus
		m.input.Blur()
		return
	}
	m.focus = InputFocus
	m.input.Focus()
}

// activate reads the input, starts a loader request and returns the command that runs it.
func (m *Model) activate() tea.Cmd {
	req := m.loader.Activate(m.ctx, m.input.Value())
	m.loading = true

	return func() tea.Msg {
		return statsLoadedMsg(m.loader.Run(req))
	}
}

// applyOutcome hands outcome to the loader and refreshes the track list if it was rendered.
func (m *Model) applyOutcome(outcome loader.Outcome) tea.Cmd {
	if outcome.Seq == m.loader.Latest() {
		m.loading = false
	}

	if !m.loader.Apply(&m.display, outcome) {
		return nil
	}

	m.tracks.ResetSelected()
	return m.tracks.SetItems(trackItems(m.display.Tracks))
}

// View renders the input, summary fields, track list and help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Playlist Stats"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderFields())
	b.WriteString("\n")
	b.WriteString(m.tracks.View())
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return b.String()
}

func (m *Model) renderFields() string {
	rows := [][2]string{
		{"Tracks", m.display.TrackCount},
		{"Most popular track", m.display.MostPopularTrack},
		{"Most popular artist", m.display.MostPopularArtist},
		{"Artist with most tracks", m.display.MostTracksArtist},
		{"Popularity range", m.display.PopularityRange},
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s%s\n", styles.label.Render(row[0]), styles.value.Render(row[1]))
	}
	return b.String()
}

// Display returns a copy of the rendered summary.
func (m *Model) Display() loader.Display {
	d := m.display
	d.Tracks = append([]string(nil), m.display.Tracks...)
	return d
}

// Loading reports whether the latest request is still in flight.
func (m *Model) Loading() bool {
	return m.loading
}
