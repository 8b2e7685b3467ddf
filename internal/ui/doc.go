// Package ui implements the interactive playlist stats viewer using bubbletea's Elm architecture.
//
// The screen has a playlist id input, five summary fields and the track list. Pressing enter in the input
// activates the [loader.Loader]: the fetch runs as a [tea.Cmd] and its outcome comes back through the Msg union
// type, where [loader.Loader.Apply] decides whether it is rendered. Failed or superseded loads leave the screen
// as it was; diagnostics go to the log file configured for the TUI.
//
// Keyboard: enter loads, tab switches focus between the input and the track list, esc or ctrl+c quits.
package ui
