package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/plsync/plsync/internal/services"
	"github.com/plsync/plsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	source services.Service
	dest   services.Service
	logger *log.Logger
	output io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Source services.Service
	Dest   services.Service
	Logger *log.Logger
	Output io.Writer
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
		config: opts.Config,
		source: opts.Source,
		dest:   opts.Dest,
		logger: opts.Logger,
		output: opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, playlistsCommand, exportCommand, runsCommand, authCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveService resolves a service name to its corresponding Service instance.
func (r *Runner) resolveService(serviceName string) (services.Service, error) {
	switch serviceName {
	case "spotify", "source":
		if r.source == nil {
			return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
		}
		return r.source, nil
	case "tidal", "dest":
		if r.dest == nil {
			return nil, fmt.Errorf("%w: Tidal service not initialized", shared.ErrServiceUnavailable)
		}
		return r.dest, nil
	default:
		return nil, fmt.Errorf("%w: invalid service '%s' (must be 'spotify' or 'tidal')", shared.ErrInvalidArgument, serviceName)
	}
}

// openDatabase opens the configured SQLite database and runs migrations.
func (r *Runner) openDatabase() (*sql.DB, error) {
	handle, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(handle, r.config.Database)
	if err := shared.RunMigrations(handle); err != nil {
		handle.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return handle, nil
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
