package model

import "time"

// HostStats is a point-in-time view of the machine the bot runs on
type HostStats struct {
	Hostname    string
	Platform    string
	Uptime      uint64 // seconds
	Load1       float64
	Load5       float64
	Load15      float64
	CPUPercent  float64
	MemUsedPct  float64
	MemTotalMB  uint64
	MemAvailMB  uint64
	DiskPath    string
	DiskUsedPct float64
	DiskTotal   uint64 // bytes
	CollectedAt time.Time
}
