package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/copilette/misty/internal/robot"
	"github.com/copilette/misty/internal/shared"
	"github.com/copilette/misty/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	robot      *robot.Robot
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.BackupEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Robot      *robot.Robot
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
		opts.HTTPClient = &http.Client{
			Timeout: time.Duration(opts.Config.Robot.TimeoutSecs) * time.Second,
		}
	}
	if opts.Robot == nil && opts.Config.Robot.Host != "" {
		opts.Robot = robot.New(opts.Config.Robot.Host, opts.HTTPClient)
		opts.Robot.SetLogger(opts.Logger)
	}

	r := &Runner{
		config:     opts.Config,
		robot:      opts.Robot,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.Robot != nil {
		r.engine = tasks.NewBackupEngine(tasks.NewRobotAssets(opts.Robot))
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, systemCommand, imageCommand, audioCommand, faceCommand,
		moveCommand, listenCommand, exportCommand, backupCommand, apiCommand,
		monitorCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// recoveryContext derives a short-lived context for cleanup calls that must
// run even after the parent was canceled.
func recoveryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
}

// requireRobot guards actions that need a reachable robot.
func (r *Runner) requireRobot() error {
	if r.robot == nil {
		return fmt.Errorf("%w: set robot.host in config.toml or pass --host", shared.ErrMissingHost)
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
	text := fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
