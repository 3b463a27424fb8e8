package cmdexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/mcoot/signalbot/internal/model"
)

// Runner abstracts external command execution so it can be mocked for testing
type Runner interface {
	// Exists reports whether the named program is on PATH
	Exists(name string) bool

	// CombinedOutput runs argv and returns stdout and stderr interleaved
	CombinedOutput(ctx context.Context, argv ...string) ([]byte, error)

	// Pipe runs `first | second` and returns the combined output of second
	Pipe(ctx context.Context, first, second []string) ([]byte, error)
}

// ExecRunner implements Runner with os/exec
type ExecRunner struct{}

// New creates a new ExecRunner
func New() *ExecRunner {
	return &ExecRunner{}
}

var _ Runner = (*ExecRunner)(nil)

func (ExecRunner) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (r ExecRunner) command(ctx context.Context, argv []string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command", model.ErrCommandNotFound)
	}
	if !r.Exists(argv[0]) {
		return nil, fmt.Errorf("%w: %s", model.ErrCommandNotFound, argv[0])
	}
	return exec.CommandContext(ctx, argv[0], argv[1:]...), nil
}

func (r ExecRunner) CombinedOutput(ctx context.Context, argv ...string) ([]byte, error) {
	cmd, err := r.command(ctx, argv)
	if err != nil {
		return nil, err
	}
	return cmd.CombinedOutput()
}

func (r ExecRunner) Pipe(ctx context.Context, first, second []string) ([]byte, error) {
	src, err := r.command(ctx, first)
	if err != nil {
		return nil, err
	}
	dst, err := r.command(ctx, second)
	if err != nil {
		return nil, err
	}

	pipe, err := src.StdoutPipe()
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	dst.Stdin = pipe
	dst.Stdout = &out
	dst.Stderr = &out

	if err := src.Start(); err != nil {
		return nil, err
	}
	if err := dst.Start(); err != nil {
		_ = src.Process.Kill()
		_ = src.Wait()
		return nil, err
	}

	srcErr := src.Wait()
	if err := dst.Wait(); err != nil {
		return out.Bytes(), err
	}
	return out.Bytes(), srcErr
}
