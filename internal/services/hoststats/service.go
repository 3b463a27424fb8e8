package hoststats

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/mcoot/signalbot/internal/dependencies/clock"
	"github.com/mcoot/signalbot/internal/format"
	"github.com/mcoot/signalbot/internal/model"
)

// Source collects a snapshot of host statistics
type Source interface {
	Snapshot(ctx context.Context) (*model.HostStats, error)
}

// Gopsutil reads host statistics from the local machine
type Gopsutil struct {
	// DiskPath is the mount point whose usage is reported
	DiskPath string
	clock    clock.Clock
}

// NewGopsutil creates a Source backed by gopsutil
func NewGopsutil(diskPath string, clk clock.Clock) *Gopsutil {
	return &Gopsutil{DiskPath: diskPath, clock: clk}
}

var _ Source = (*Gopsutil)(nil)

// Snapshot gathers host, load, memory, CPU and disk figures.
// Host info and memory are required; the rest are best-effort.
func (g *Gopsutil) Snapshot(ctx context.Context) (*model.HostStats, error) {
	h, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("host info: %w", err)
	}
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory: %w", err)
	}

	stats := &model.HostStats{
		Hostname:    h.Hostname,
		Platform:    strings.TrimSpace(h.Platform + " " + h.PlatformVersion),
		Uptime:      h.Uptime,
		MemUsedPct:  v.UsedPercent,
		MemTotalMB:  v.Total / 1024 / 1024,
		MemAvailMB:  v.Available / 1024 / 1024,
		CollectedAt: g.clock.Now(),
	}

	if l, err := load.AvgWithContext(ctx); err == nil {
		stats.Load1, stats.Load5, stats.Load15 = l.Load1, l.Load5, l.Load15
	}
	if c, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false); err == nil && len(c) > 0 {
		stats.CPUPercent = c[0]
	}
	if g.DiskPath != "" {
		if d, err := disk.UsageWithContext(ctx, g.DiskPath); err == nil {
			stats.DiskPath = g.DiskPath
			stats.DiskUsedPct = d.UsedPercent
			stats.DiskTotal = d.Total
		}
	}

	return stats, nil
}

// Service renders host statistics for the status command
type Service struct {
	source  Source
	clock   clock.Clock
	started time.Time
	logger  *slog.Logger
}

// New creates a new hoststats Service; bot uptime counts from now
func New(source Source, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		source:  source,
		clock:   clk,
		started: clk.Now(),
		logger:  logger,
	}
}

// Report collects a snapshot and renders it as chat text
func (s *Service) Report(ctx context.Context) (string, error) {
	stats, err := s.source.Snapshot(ctx)
	if err != nil {
		s.logger.Warn("collecting host stats failed", slog.String("error", err.Error()))
		return "", err
	}
	return Render(stats) + "\nBot uptime: " + format.FormatDuration(s.clock.Since(s.started)), nil
}

// Render formats a snapshot as plain text
func Render(st *model.HostStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", st.Hostname, st.Platform)
	fmt.Fprintf(&b, "Uptime: %s\n", format.FormatUptime(st.Uptime))
	fmt.Fprintf(&b, "Load: %.2f %.2f %.2f\n", st.Load1, st.Load5, st.Load15)
	fmt.Fprintf(&b, "CPU: %s %.1f%%\n", format.MakeProgressBar(st.CPUPercent), st.CPUPercent)
	fmt.Fprintf(&b, "RAM: %s %.1f%% (%s free of %s)",
		format.MakeProgressBar(st.MemUsedPct), st.MemUsedPct,
		format.FormatRAM(st.MemAvailMB), format.FormatRAM(st.MemTotalMB))
	if st.DiskPath != "" {
		fmt.Fprintf(&b, "\nDisk %s: %s %.1f%% of %s",
			st.DiskPath, format.MakeProgressBar(st.DiskUsedPct), st.DiskUsedPct, format.FormatBytes(st.DiskTotal))
	}
	return b.String()
}
