package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playstats/internal/loader"
	"github.com/desertthunder/playstats/internal/shared"
	"github.com/desertthunder/playstats/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILogFile = "./tmp/playstats-tui.log"

// TUI launches the interactive terminal UI for playlist stats.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := r.config.Log.TUIFile
	if logPath == "" {
		logPath = defaultTUILogFile
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.logger.GetLevel())
	r.SetLogger(fileLogger)

	playlistID := cmd.String("id")
	if playlistID == "" {
		playlistID = r.config.Server.DefaultPlaylist
	}

	l := loader.New(r.statsClient(cmd.String("url")), shared.WithLogger(fileLogger, "component", "loader"))
	model := ui.NewModel(ctx, l, playlistID)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
