package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playstats/internal/loader"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStatsLoaded MsgKind = iota
)

// Kind returns the message kind.
func (m Msg) Kind() MsgKind { return m.kind }

// statsLoadedMsg is the constructor for [MsgStatsLoaded]
func statsLoadedMsg(outcome loader.Outcome) Msg {
	return Msg{kind: MsgStatsLoaded, data: outcome}
}
