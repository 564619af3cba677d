package invoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/scout/pkg/log"
)

// ErrCommandExecution is returned when the launched command fails.
var ErrCommandExecution = errors.New("run")

const (
	// EnvAgent holds the agent ID in the launched command's environment.
	EnvAgent = "SCOUT_AGENT"
	// EnvTask holds the task in the launched command's environment.
	EnvTask = "SCOUT_TASK"
)

// Runner launches agent runner commands with the caller's standard streams.
type Runner struct {
	tracer  trace.Tracer
	baseEnv map[string]string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	dir     string
}

// RunnerOpt is a functional option for configuring a [Runner].
type RunnerOpt func(*Runner)

// WithStdio sets the standard streams of launched commands.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) RunnerOpt {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithDir sets the working directory of launched commands.
func WithDir(dir string) RunnerOpt {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithBaseEnv sets the caller environment, which defaults to [os.Environ].
func WithBaseEnv(environ []string) RunnerOpt {
	return func(r *Runner) {
		r.baseEnv = ParseEnv(environ)
	}
}

// NewRunner creates a new [Runner].
func NewRunner(opts ...RunnerOpt) *Runner {
	r := &Runner{
		tracer:  otel.Tracer("invoker"),
		baseEnv: ParseEnv(os.Environ()),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run launches the command described by cfg for the given agent and task and
// waits for it to exit.
func (r *Runner) Run(ctx context.Context, cfg *Config, data Data) error {
	ctx, span := r.tracer.Start(ctx, "invoke", trace.WithAttributes(
		attribute.String("agent", data.Agent),
		attribute.String("command", cfg.Command),
	))
	defer span.End()

	logger := log.WithContext(ctx)

	argv, err := cfg.Argv(data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return fmt.Errorf("build command: %w", err)
	}

	//nolint:gosec // G204: The command is configured by the user; arguments never pass through a shell.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.dir
	cmd.Stdin = r.stdin
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr
	cmd.Env = cfg.buildEnv(r.baseEnv, map[string]string{
		EnvAgent: data.Agent,
		EnvTask:  data.Task,
	})

	logger.DebugContext(ctx, "invoke agent",
		slog.String("agent", data.Agent),
		slog.Any("argv", argv),
	)

	err = cmd.Run()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.ErrorContext(ctx, "agent command failed",
			slog.String("agent", data.Agent),
			slog.Any("error", err),
		)

		return fmt.Errorf("%w %s: %w", ErrCommandExecution, cfg.Command, err)
	}

	logger.DebugContext(ctx, "agent command completed", slog.String("agent", data.Agent))

	return nil
}
