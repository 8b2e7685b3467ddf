package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/list"
)

var _ list.Item = trackItem{}

// trackItem is a rendered track name implementing [list.Item].
type trackItem struct {
	position int
	name     string
}

func (i trackItem) FilterValue() string { return i.name }
func (i trackItem) Title() string       { return strconv.Itoa(i.position) + ". " + i.name }
func (i trackItem) Description() string { return "" }

func trackItems(names []string) []list.Item {
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = trackItem{position: i + 1, name: name}
	}
	return items
}

func newTrackList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tracks"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("track", "tracks")
	return l
}
