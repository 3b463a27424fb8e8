package cmdexec

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/signalbot/internal/model"
)

type RunnerSuite struct {
	suite.Suite
	runner *ExecRunner
	ctx    context.Context
}

func TestRunnerSuite(t *testing.T) {
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupTest() {
	s.runner = New()
	if !s.runner.Exists("sh") {
		s.T().Skip("sh not available")
	}
	s.ctx = context.Background()
}

func (s *RunnerSuite) TestCombinedOutput() {
	out, err := s.runner.CombinedOutput(s.ctx, "sh", "-c", "echo out; echo err >&2")
	s.Require().NoError(err)
	s.Equal("out\nerr\n", string(out))
}

func (s *RunnerSuite) TestMissingCommand() {
	_, err := s.runner.CombinedOutput(s.ctx, "definitely-not-a-real-command-xyz")
	s.ErrorIs(err, model.ErrCommandNotFound)
	s.Contains(err.Error(), "definitely-not-a-real-command-xyz")
}

func (s *RunnerSuite) TestEmptyCommand() {
	_, err := s.runner.CombinedOutput(s.ctx)
	s.ErrorIs(err, model.ErrCommandNotFound)
}

func (s *RunnerSuite) TestNonZeroExit() {
	out, err := s.runner.CombinedOutput(s.ctx, "sh", "-c", "echo oops; exit 3")

	var exitErr *exec.ExitError
	s.Require().True(errors.As(err, &exitErr))
	s.Equal(3, exitErr.ExitCode())
	s.Equal("oops\n", string(out))
}

func (s *RunnerSuite) TestContextDeadlineKillsProcess() {
	ctx, cancel := context.WithTimeout(s.ctx, 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.runner.CombinedOutput(ctx, "sleep", "5")
	s.Error(err)
	s.Less(time.Since(start), 4*time.Second)
}

func (s *RunnerSuite) TestPipe() {
	out, err := s.runner.Pipe(s.ctx, []string{"echo", "hello"}, []string{"tr", "a-z", "A-Z"})
	s.Require().NoError(err)
	s.Equal("HELLO\n", string(out))
}

func (s *RunnerSuite) TestPipeMissingSecondCommand() {
	_, err := s.runner.Pipe(s.ctx, []string{"echo", "hello"}, []string{"definitely-not-a-real-command-xyz"})
	s.ErrorIs(err, model.ErrCommandNotFound)
}
