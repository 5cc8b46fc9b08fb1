// Package sysinfo supplies the system metrics the interpreter's
// introspection verbs format: CPU load, memory, the process list, disk
// usage, and the boot time. The interpreter consumes only the Provider
// interface; the default implementation samples the host via gopsutil.
package sysinfo

import (
	"context"
	"time"
)

// Memory describes virtual memory usage.
type Memory struct {
	Total       uint64
	Used        uint64
	UsedPercent float64
}

// Process is one entry of the process list.
type Process struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float32
}

// Disk describes usage of one filesystem.
type Disk struct {
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// Provider supplies system metrics. Implementations may block while
// sampling (CPUPercent in particular measures over an interval), so every
// method takes a context.
type Provider interface {
	CPUPercent(ctx context.Context) (float64, error)
	VirtualMemory(ctx context.Context) (Memory, error)
	Processes(ctx context.Context) ([]Process, error)
	DiskUsage(ctx context.Context, path string) (Disk, error)
	BootTime(ctx context.Context) (time.Time, error)
}
