// metrics.go - Metrics collection for the evidence service
package server

import (
	"runtime"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
)

// ServiceMetrics holds granular health metrics for the service.
type ServiceMetrics struct {
	UptimeSeconds  int64   `json:"uptime_seconds"`
	ChainLength    int     `json:"chain_length"`
	EvidenceCount  int     `json:"evidence_count"`
	CPULoadPercent float64 `json:"cpu_load_percent"`
	MemoryMB       float64 `json:"memory_mb"`
	DiskFreeMB     float64 `json:"disk_free_mb"`
	LastAppendTime string  `json:"last_append_time"`
}

// Track server start time for uptime calculation
var startTime = time.Now()

// GetServiceMetrics returns current health metrics for the service.
func (s *Server) GetServiceMetrics() ServiceMetrics {
	uptime := int64(time.Since(startTime).Seconds())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryMB := float64(m.Alloc) / (1024 * 1024)

	// Disk usage (root partition)
	var disk syscall.Statfs_t
	diskFreeMB := 0.0
	if err := syscall.Statfs("/", &disk); err == nil {
		diskFreeMB = float64(disk.Bfree) * float64(disk.Bsize) / (1024 * 1024)
	}

	// CPU usage: Use gopsutil to get current CPU percent
	cpuPercents, err := cpu.Percent(0, false)
	cpuLoad := 0.0
	if err == nil && len(cpuPercents) > 0 {
		cpuLoad = cpuPercents[0]
	}

	lastAppend := ""
	if tail := s.ledger.Latest(); tail != nil {
		lastAppend = tail.Timestamp.Format(time.RFC3339)
	}

	return ServiceMetrics{
		UptimeSeconds:  uptime,
		ChainLength:    s.ledger.Len(),
		EvidenceCount:  len(s.capture.ListAll()),
		CPULoadPercent: cpuLoad,
		MemoryMB:       memoryMB,
		DiskFreeMB:     diskFreeMB,
		LastAppendTime: lastAppend,
	}
}
