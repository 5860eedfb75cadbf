package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadence/internal/cache"
	"github.com/desertthunder/cadence/internal/persist"
	"github.com/desertthunder/cadence/internal/services"
	"github.com/desertthunder/cadence/internal/shared"
	"github.com/desertthunder/cadence/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	HTTPClient *http.Client
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger swaps the runner's logger, used to redirect logs away from
// the terminal while the TUI owns it.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, cacheCommand, queueCommand, favoritesCommand, recentCommand, playCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the config file at path, trying the platform config
// location next and falling back to the runner's current config when no
// file is readable. An empty database path resolves to the platform data
// directory.
func (r *Runner) loadConfig(path string) *shared.Config {
	config := r.config

	resolved := shared.ResolveConfigPath(path)
	if _, err := os.Stat(resolved); err == nil {
		if loaded, err := shared.LoadConfig(resolved); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if err := config.EnsureDatabasePath(); err != nil {
		r.logger.Warn("failed to resolve default database path", "error", err)
	}
	return config
}

// openStore opens the sqlite-backed key-value store described by config.
// The returned closer must be called when the command finishes.
func (r *Runner) openStore(config *shared.Config) (*store.SQLiteStore, func(), error) {
	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	s, err := store.NewSQLiteStore(db, config.Database.Compress)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	return s, func() { db.Close() }, nil
}

// openCache opens the store and wraps it in a cache manager.
func (r *Runner) openCache(config *shared.Config) (*cache.Manager, func(), error) {
	s, closer, err := r.openStore(config)
	if err != nil {
		return nil, nil, err
	}
	return cache.NewManager(s, r.logger), closer, nil
}

// openCatalog returns a read-through cached view of the remote catalog.
// When the local store cannot be opened the raw catalog is used instead.
func (r *Runner) openCatalog(config *shared.Config) (services.Catalog, func(), error) {
	if r.catalog == nil {
		return nil, nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}

	manager, closer, err := r.openCache(config)
	if err != nil {
		r.logger.Warn("local store unavailable, queries will not be cached", "error", err)
		return r.catalog, func() {}, nil
	}

	return services.NewCachedCatalog(r.catalog, manager, config.Cache), closer, nil
}

// openCoordinator opens the store and builds a persistence coordinator over it.
func (r *Runner) openCoordinator(config *shared.Config) (*persist.Coordinator, func(), error) {
	s, closer, err := r.openStore(config)
	if err != nil {
		return nil, nil, err
	}

	coordinator := persist.New(s, config.Playback.SaveDebounce(), config.Playback.RecentLimit, r.logger)
	return coordinator, closer, nil
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
