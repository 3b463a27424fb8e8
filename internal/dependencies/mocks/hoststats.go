package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/signalbot/internal/model"
)

// MockStatsSource returns a fixed host snapshot
type MockStatsSource struct {
	mu    sync.Mutex
	Stats model.HostStats
	Err   error
	calls int
}

// NewMockStatsSource creates a MockStatsSource for a small idle host
func NewMockStatsSource() *MockStatsSource {
	return &MockStatsSource{Stats: model.HostStats{
		Hostname:   "testhost",
		Platform:   "linux",
		Uptime:     3600,
		MemUsedPct: 25,
		MemTotalMB: 4096,
		MemAvailMB: 3072,
	}}
}

func (m *MockStatsSource) Snapshot(ctx context.Context) (*model.HostStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	stats := m.Stats
	return &stats, nil
}

// Calls returns how many snapshots were taken
func (m *MockStatsSource) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
