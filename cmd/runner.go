package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/walkon/internal/auth"
	"github.com/desertthunder/walkon/internal/models"
	"github.com/desertthunder/walkon/internal/server"
	"github.com/desertthunder/walkon/internal/services"
	"github.com/desertthunder/walkon/internal/shared"
	"github.com/desertthunder/walkon/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SessionGate is the slice of the auth facade the CLI needs.
// *auth.Gate satisfies it.
type SessionGate interface {
	server.CallbackCompleter
	Login(ctx context.Context) error
	IsAuthenticated() bool
	Logout() error
	Profile(ctx context.Context) (*auth.UserProfile, error)
}

// RosterStore is the roster persistence surface the CLI needs.
// *repositories.PlayerRepository satisfies it.
type RosterStore interface {
	GetByName(name string) (*models.Player, error)
	Create(player *models.Player) error
	Update(player *models.Player) error
	Delete(id string) error
	List(criteria map[string]any) ([]*models.Player, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	gate    SessionGate
	service services.Service
	players RosterStore
	engine  tasks.RosterEngine
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Gate    SessionGate
	Service services.Service
	Players RosterStore
	Cache   tasks.TrackCacher
	Engine  tasks.RosterEngine
	Logger  *log.Logger
	Output  io.Writer
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
	if opts.Engine == nil && opts.Service != nil && opts.Players != nil {
		opts.Engine = tasks.NewEngine(opts.Service, opts.Players, opts.Cache)
	}

	return &Runner{
		config:  opts.Config,
		gate:    opts.Gate,
		service: opts.Service,
		players: opts.Players,
		engine:  opts.Engine,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger. Used by the TUI to log to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, searchCommand, playerCommand, rosterCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireSession fails fast with a friendly message when no session exists.
func (r *Runner) requireSession() error {
	if r.gate == nil {
		return fmt.Errorf("%w: session gate not initialized", shared.ErrServiceUnavailable)
	}
	if !r.gate.IsAuthenticated() {
		return fmt.Errorf("%w: run 'walkon auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
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
