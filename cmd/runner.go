package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/catalog"
	"github.com/desertthunder/reelx/internal/collection"
	"github.com/desertthunder/reelx/internal/models"
	"github.com/desertthunder/reelx/internal/repositories"
	"github.com/desertthunder/reelx/internal/services"
	"github.com/desertthunder/reelx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	service    services.CollectionService
	activities *repositories.ActivityRepository
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Service    services.CollectionService
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB // activity journal; nil disables recording and history
}

// NewRunner creates a new Runner with the provided configuration.
//
// Without a Service, an HTTP [services.CollectionClient] is built from the config.
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
	if opts.Service == nil {
		httpClient := opts.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: opts.Config.Client.TimeoutDuration()}
		}
		opts.Service = services.NewCollectionClient(services.ClientOpts{
			BaseURL:    opts.Config.Service.BaseURL,
			HTTPClient: httpClient,
			RateLimit:  opts.Config.Client.RateLimit,
		})
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		service:    opts.Service,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.DB != nil {
		r.activities = repositories.NewActivityRepository(opts.DB)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, moviesCommand, watchlistCommand, viewedCommand, exportCommand, historyCommand, mockCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) userID() models.UserID { return models.UserID(r.config.Service.UserID) }

func (r *Runner) newStore() *catalog.Store {
	return catalog.NewStore(r.service, r.logger)
}

// newSync builds a collection sync for the configured user, journaling to the activity
// repository when one is open.
func (r *Runner) newSync() *collection.Sync {
	opts := collection.SyncOpts{
		Service: r.service,
		UserID:  r.userID(),
		Logger:  r.logger,
	}
	if r.activities != nil {
		opts.Recorder = r.activities
	}
	return collection.NewSync(opts)
}

// loadCatalog fetches the catalog. Failure is fatal for the command.
func (r *Runner) loadCatalog(ctx context.Context, store *catalog.Store) ([]models.Movie, error) {
	movies, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not load the catalog from %s (run the command again to retry): %w", r.config.Service.BaseURL, err)
	}
	return movies, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
