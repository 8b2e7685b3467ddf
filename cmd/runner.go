package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playstats/internal/services"
	"github.com/desertthunder/playstats/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/time/rate"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Dependencies not supplied through [RunnerOpts] are built from the loaded config on first use.
type Runner struct {
	config     *shared.Config
	configPath string
	source     services.PlaylistSource
	stats      *services.StatsClient
	httpClient *http.Client
	db         *sql.DB
	logger     *log.Logger
	output     io.Writer

	dbOnce sync.Once
	dbErr  error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Source     services.PlaylistSource
	Stats      *services.StatsClient
	HTTPClient *http.Client
	DB         *sql.DB
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		source:     opts.Source,
		stats:      opts.Stats,
		httpClient: opts.HTTPClient,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, loadCommand, tuiCommand, exportCommand, bulkExportCommand, historyCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file and .env overrides and applies the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")

	config, err := shared.LoadConfigOrDefault(r.configPath)
	if err != nil {
		return ctx, err
	}
	if err := config.ApplyEnv(cmd.String("env-file")); err != nil {
		return ctx, err
	}
	r.config = config

	level := config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return ctx, fmt.Errorf("%w: log level %q", shared.ErrInvalidConfig, level)
		}
		shared.SetLogLevel(r.logger, parsed)
	}

	r.logger.Debug("configuration loaded", "path", r.configPath)
	return ctx, nil
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// playlistSource returns the injected source or a Spotify service built from the config credentials.
func (r *Runner) playlistSource() (services.PlaylistSource, error) {
	if r.source != nil {
		return r.source, nil
	}

	spotify := r.config.Credentials.Spotify
	if !spotify.Configured() {
		return nil, fmt.Errorf("%w: set credentials.spotify in %s or %s and %s",
			shared.ErrMissingCredentials, r.configPathOrDefault(), shared.EnvSpotifyClientID, shared.EnvSpotifyClientSecret)
	}

	svc, err := services.NewSpotifyService(spotify.Map(), rate.Limit(spotify.RateLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	r.source = svc
	return svc, nil
}

// statsClient returns the injected client or one for baseURL (the configured loader URL when empty).
func (r *Runner) statsClient(baseURL string) *services.StatsClient {
	if r.stats != nil && baseURL == "" {
		return r.stats
	}
	if baseURL == "" {
		baseURL = r.config.Loader.BaseURL
	}

	client := r.httpClient
	if client == nil {
		client = &http.Client{Timeout: r.config.Loader.Timeout()}
	}

	return services.NewStatsClient(baseURL, client)
}

// database returns the injected database or opens and migrates the configured one.
func (r *Runner) database() (*sql.DB, error) {
	r.dbOnce.Do(func() {
		if r.db != nil {
			return
		}
		r.db, r.dbErr = shared.OpenDatabase(r.config.Database)
	})
	return r.db, r.dbErr
}

func (r *Runner) closeDatabase() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *Runner) configPathOrDefault() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
