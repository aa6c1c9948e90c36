// Package sysinfo reports facts about the host for neofetch, the about
// window and the dock CPU graph.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Snapshot is a point-in-time view of the host. Fields that could not be
// determined are left zero.
type Snapshot struct {
	Hostname string
	Platform string
	Kernel   string
	Arch     string
	Uptime   time.Duration
	Procs    uint64
	CPUModel string
	CPUCores int
	MemTotal uint64
	MemUsed  uint64
}

// Collect gathers a snapshot. Partial failures are joined into the returned
// error; the snapshot holds whatever was available.
func Collect(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	var errs []error

	if info, err := host.InfoWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("host: %w", err))
	} else {
		s.Hostname = info.Hostname
		s.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		s.Kernel = info.KernelVersion
		s.Arch = info.KernelArch
		s.Uptime = time.Duration(info.Uptime) * time.Second
		s.Procs = info.Procs
	}

	if n, err := cpu.CountsWithContext(ctx, true); err != nil {
		errs = append(errs, fmt.Errorf("cpu count: %w", err))
	} else {
		s.CPUCores = n
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		s.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		errs = append(errs, fmt.Errorf("memory: %w", err))
	} else {
		s.MemTotal = vm.Total
		s.MemUsed = vm.Used
	}

	return s, errors.Join(errs...)
}

// FormatBytes renders a byte count with binary units.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatUptime renders d as "2 days, 3 hours, 4 mins".
func FormatUptime(d time.Duration) string {
	mins := int(d.Minutes())
	days, hours := mins/(24*60), (mins/60)%24
	mins %= 60

	var parts []string
	plural := func(n int, unit string) {
		if n == 0 {
			return
		}
		if n > 1 {
			unit += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, unit))
	}
	plural(days, "day")
	plural(hours, "hour")
	plural(mins, "min")
	if len(parts) == 0 {
		return "0 mins"
	}
	return strings.Join(parts, ", ")
}

// CPUMonitor keeps a short history of total CPU usage.
type CPUMonitor struct {
	mu       sync.Mutex
	history  []float64
	size     int
	interval time.Duration
	last     time.Time
	sample   func() (float64, error)
}

// NewCPUMonitor keeps up to size samples taken at most once per interval.
func NewCPUMonitor(size int, interval time.Duration) *CPUMonitor {
	return &CPUMonitor{
		size:     size,
		interval: interval,
		sample: func() (float64, error) {
			// A zero interval compares against the previous call.
			pct, err := cpu.Percent(0, false)
			if err != nil || len(pct) == 0 {
				return 0, err
			}
			return pct[0], nil
		},
	}
}

// Update records a sample if the interval has elapsed since the last one.
func (m *CPUMonitor) Update(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now.Sub(m.last) < m.interval {
		return
	}
	m.last = now
	usage, err := m.sample()
	if err != nil {
		return
	}
	if len(m.history) >= m.size {
		m.history = m.history[1:]
	}
	m.history = append(m.history, usage)
}

// Graph returns a fixed-width bar graph with the latest percentage, e.g.
// "CPU:▁▂▃▅▇      42%".
func (m *CPUMonitor) Graph() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := 0.0
	if len(m.history) > 0 {
		current = m.history[len(m.history)-1]
	}

	bars := []rune("▁▂▃▄▅▆▇█")
	var sb strings.Builder
	if pad := m.size - len(m.history); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	for _, usage := range m.history {
		level := min(int(usage/12.5), len(bars)-1)
		level = max(level, 0)
		sb.WriteRune(bars[level])
	}
	return fmt.Sprintf("CPU:%s %3.0f%%", sb.String(), current)
}
