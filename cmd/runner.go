package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cine/internal/catalog"
	"github.com/desertthunder/cine/internal/services"
	"github.com/desertthunder/cine/internal/session"
	"github.com/desertthunder/cine/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	videos     services.Catalog
	account    services.Account
	prober     services.Prober
	store      *session.Store
	aggregator *catalog.Aggregator
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Videos     services.Catalog
	Account    services.Account
	Prober     services.Prober
	Store      *session.Store
	Cache      catalog.VideoCache
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

	aggregator := catalog.NewAggregator(catalog.AggregatorOpts{
		Catalog:      opts.Videos,
		Account:      opts.Account,
		Cache:        opts.Cache,
		Categories:   opts.Config.Catalog.Categories,
		HistoryLimit: opts.Config.Catalog.HistoryLimit,
		Logger:       opts.Logger,
	})

	return &Runner{
		config:     opts.Config,
		videos:     opts.Videos,
		account:    opts.Account,
		prober:     opts.Prober,
		store:      opts.Store,
		aggregator: aggregator,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, feedCommand, trendingCommand, searchCommand, videoCommand, watchCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// restore loads the persisted session, if any. A rehydration failure
// degrades to an anonymous session instead of failing the command.
func (r *Runner) restore(ctx context.Context) {
	if r.store == nil {
		return
	}
	if err := r.store.Init(ctx); err != nil {
		if errors.Is(err, shared.ErrAuthFailed) {
			r.logger.Warn("stored session is no longer valid, continuing anonymously")
		} else {
			r.logger.Warnf("failed to restore session: %v", err)
		}
	}
}

// token returns the current bearer token, "" when anonymous.
func (r *Runner) token() string {
	if r.store == nil {
		return ""
	}
	return r.store.Current().Token
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
