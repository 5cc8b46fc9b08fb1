package sysinfo

import (
	"context"
	"time"
)

// Stub is a fixed-value Provider for tests.
type Stub struct {
	CPU   float64
	Mem   Memory
	Procs []Process
	Disk  Disk
	Boot  time.Time
	Err   error
}

func (s *Stub) CPUPercent(ctx context.Context) (float64, error) {
	return s.CPU, s.Err
}

func (s *Stub) VirtualMemory(ctx context.Context) (Memory, error) {
	return s.Mem, s.Err
}

func (s *Stub) Processes(ctx context.Context) ([]Process, error) {
	return s.Procs, s.Err
}

func (s *Stub) DiskUsage(ctx context.Context, path string) (Disk, error) {
	return s.Disk, s.Err
}

func (s *Stub) BootTime(ctx context.Context) (time.Time, error) {
	return s.Boot, s.Err
}
