package websh

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// The system-introspection verbs format what the metrics provider
// reports. They never change location, so each returns the unchanged
// sentinel (empty Dir) regardless of the working directory passed in.

// cmdCpu implements the cpu command.
func (it *Interpreter) cmdCpu(ctx context.Context, args []string, cwd string) Result {
	pct, err := it.metrics.CPUPercent(ctx)
	if err != nil {
		return errorResult(cwd, err)
	}
	return Result{Stdout: fmt.Sprintf("CPU: %.1f%%\n", pct)}
}

// cmdMem implements the mem command.
func (it *Interpreter) cmdMem(ctx context.Context, args []string, cwd string) Result {
	m, err := it.metrics.VirtualMemory(ctx)
	if err != nil {
		return errorResult(cwd, err)
	}
	return Result{Stdout: fmt.Sprintf("Memory: %d/%d bytes (%.1f%%)\n", m.Used, m.Total, m.UsedPercent)}
}

// cmdPs implements the ps command: one row per process, sorted
// lexicographically, capped at 200 rows.
func (it *Interpreter) cmdPs(ctx context.Context, args []string, cwd string) Result {
	procs, err := it.metrics.Processes(ctx)
	if err != nil {
		return errorResult(cwd, err)
	}

	rows := make([]string, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, fmt.Sprintf("%6d %-20.20s CPU%%:%5.1f MEM%%:%5.1f",
			p.PID, p.Name, p.CPUPercent, p.MemPercent))
	}
	sort.Strings(rows)
	if len(rows) > 200 {
		rows = rows[:200]
	}
	return Result{Stdout: strings.Join(rows, "\n") + "\n"}
}

// cmdDf implements the df command over the root filesystem.
func (it *Interpreter) cmdDf(ctx context.Context, args []string, cwd string) Result {
	d, err := it.metrics.DiskUsage(ctx, "/")
	if err != nil {
		return errorResult(cwd, err)
	}

	var sb strings.Builder
	sb.WriteString("Filesystem     Size      Used     Avail    Use%\n")
	fmt.Fprintf(&sb, "root      %10d %10d %10d  %3.0f%%\n", d.Total, d.Used, d.Free, d.UsedPercent)
	return Result{Stdout: sb.String()}
}

// cmdUptime implements the uptime command.
func (it *Interpreter) cmdUptime(ctx context.Context, args []string, cwd string) Result {
	boot, err := it.metrics.BootTime(ctx)
	if err != nil {
		return errorResult(cwd, err)
	}

	up := time.Since(boot)
	days := int(up.Hours()) / 24
	rem := int(up.Seconds()) - days*86400
	hours := rem / 3600
	minutes := (rem % 3600) / 60
	return Result{Stdout: fmt.Sprintf("up %d days, %d:%02d\n", days, hours, minutes)}
}
