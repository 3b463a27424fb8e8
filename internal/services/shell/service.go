package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/mcoot/signalbot/internal/dependencies/cmdexec"
	"github.com/mcoot/signalbot/internal/model"
)

// DefaultTimeout caps every external process the bot starts
const DefaultTimeout = 5 * time.Second

// ExitError reports a process that ran but exited non-zero
type ExitError struct {
	Code   int
	Output string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("[Error code %d]: %s", e.Code, e.Output)
}

func (e *ExitError) Unwrap() error {
	return model.ErrExternalProcess
}

// Service runs external commands with a fixed timeout
type Service struct {
	runner  cmdexec.Runner
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a new shell Service. A non-positive timeout uses DefaultTimeout.
func New(runner cmdexec.Runner, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		runner:  runner,
		timeout: timeout,
		logger:  logger,
	}
}

// Timeout returns the per-command time limit
func (s *Service) Timeout() time.Duration {
	return s.timeout
}

// Run executes argv and returns its combined stdout and stderr
func (s *Service) Run(ctx context.Context, argv []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.runner.CombinedOutput(ctx, argv...)
	s.logger.Debug("external command finished",
		slog.String("command", strings.Join(argv, " ")),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("ok", err == nil),
	)

	return string(out), s.classify(ctx, err, out)
}

// Pipe executes `first | second` under a single timeout
func (s *Service) Pipe(ctx context.Context, first, second []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.runner.Pipe(ctx, first, second)
	s.logger.Debug("external pipeline finished",
		slog.String("command", strings.Join(first, " ")+" | "+strings.Join(second, " ")),
		slog.Duration("duration", time.Since(start)),
		slog.Bool("ok", err == nil),
	)

	return string(out), s.classify(ctx, err, out)
}

// classify maps runner errors onto the model taxonomy. A deadline always
// wins, since a killed process also reports a non-zero exit.
func (s *Service) classify(ctx context.Context, err error, out []byte) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", model.ErrProcessTimeout, s.timeout)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Output: string(out)}
	}
	return err
}
