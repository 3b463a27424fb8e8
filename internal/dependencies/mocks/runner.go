package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/signalbot/internal/dependencies/cmdexec"
)

// MockRunner is a mock implementation of Runner for testing
type MockRunner struct {
	mu sync.Mutex

	// Calls records each argv run; a pipe is recorded as first, "|", second
	Calls [][]string

	// Output and Err are returned when RunFunc is nil
	Output []byte
	Err    error

	// RunFunc overrides Output and Err when set
	RunFunc func(ctx context.Context, argv []string) ([]byte, error)

	// Missing lists program names that Exists reports as absent
	Missing map[string]bool
}

// Ensure MockRunner implements Runner
var _ cmdexec.Runner = (*MockRunner)(nil)

// NewMockRunner creates a MockRunner that returns empty output
func NewMockRunner() *MockRunner {
	return &MockRunner{Missing: make(map[string]bool)}
}

// Exists reports false only for names added to Missing
func (r *MockRunner) Exists(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.Missing[name]
}

// CombinedOutput records the call and returns the configured result
func (r *MockRunner) CombinedOutput(ctx context.Context, argv ...string) ([]byte, error) {
	return r.run(ctx, argv)
}

// Pipe records both commands as a single call
func (r *MockRunner) Pipe(ctx context.Context, first, second []string) ([]byte, error) {
	argv := make([]string, 0, len(first)+len(second)+1)
	argv = append(argv, first...)
	argv = append(argv, "|")
	argv = append(argv, second...)
	return r.run(ctx, argv)
}

func (r *MockRunner) run(ctx context.Context, argv []string) ([]byte, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, argv)
	fn := r.RunFunc
	out, err := r.Output, r.Err
	r.mu.Unlock()

	if fn != nil {
		return fn(ctx, argv)
	}
	return out, err
}

// LastCall returns the most recent argv, or nil if nothing ran
func (r *MockRunner) LastCall() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Calls) == 0 {
		return nil
	}
	return r.Calls[len(r.Calls)-1]
}
