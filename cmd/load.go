package main

import (
	"context"

	"github.com/desertthunder/playstats/internal/formatter"
	"github.com/desertthunder/playstats/internal/loader"
	"github.com/urfave/cli/v3"
)

// silentExit is a [cli.ExitCoder] with an empty message, so urfave/cli exits with code without printing.
//
// The cause stays reachable through errors.Is and errors.As.
type silentExit struct {
	err  error
	code int
}

func (e silentExit) Error() string { return "" }
func (e silentExit) ExitCode() int { return e.code }
func (e silentExit) Unwrap() error { return e.err }

// Load fetches the summary for the playlist-id argument and prints the rendered fields.
//
// The loader has already logged a failure, so it only sets the exit status.
func (r *Runner) Load(ctx context.Context, cmd *cli.Command) error {
	l := loader.New(r.statsClient(cmd.String("url")), r.logger)

	var display loader.Display
	if err := l.Load(ctx, cmd.StringArg("playlist-id"), &display); err != nil {
		return silentExit{err: err, code: 1}
	}

	if cmd.Bool("json") {
		return r.writeJSON(display, cmd.Bool("pretty"))
	}
	return formatter.RenderPlain(r.output, &display)
}
