package programs

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
)

// About shows system information and what is running on the desktop.
type About struct {
	inst *program.Instance
	deps *Deps
	now  func() time.Time

	mu     sync.Mutex
	snap   sysinfo.Snapshot
	err    error
	scroll int
}

func newAbout(d *Deps) program.Factory {
	return func(ctx context.Context, inst *program.Instance, _ program.Options) (program.Content, error) {
		a := &About{inst: inst, deps: d, now: time.Now}
		a.Refresh(ctx)
		return a, nil
	}
}

// Refresh collects a new system snapshot.
func (a *About) Refresh(ctx context.Context) {
	snap, err := a.deps.SysInfo(ctx)
	if err != nil {
		a.deps.Logger.Debug("partial system information", "err", err)
	}
	a.mu.Lock()
	a.snap, a.err = snap, err
	a.mu.Unlock()
}

// StorageUsage returns the bytes used by desktop files and the quota,
// zero when unlimited.
func (a *About) StorageUsage() (used, quota int64, files int) {
	quota = a.deps.Config.Storage.QuotaBytes
	names, err := a.deps.Store.List()
	if err != nil {
		return 0, quota, 0
	}
	for _, n := range names {
		content, err := a.deps.Store.Read(n)
		if err != nil {
			continue
		}
		used += int64(len(n) + len(content))
	}
	return used, quota, len(names)
}

// Lines returns the information shown in the window.
func (a *About) Lines() []string {
	a.mu.Lock()
	snap := a.snap
	a.mu.Unlock()

	or := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	row := func(k, v string) string { return fmt.Sprintf("  %-16s%s", k, v) }

	lines := []string{
		config.OSName,
		"Version " + config.OSVersion,
		"A terminal operating system simulation",
		"",
		"System Information",
	}

	lines = append(lines, "", "Memory")
	if snap.MemTotal > 0 {
		free := snap.MemTotal - snap.MemUsed
		lines = append(lines,
			row("Total Memory", sysinfo.FormatBytes(snap.MemTotal)),
			row("Used Memory", sysinfo.FormatBytes(snap.MemUsed)),
			row("Free Memory", sysinfo.FormatBytes(free)),
			row("Memory Usage", fmt.Sprintf("%.0f%%", float64(snap.MemUsed)/float64(snap.MemTotal)*100)),
		)
	} else {
		lines = append(lines, row("Total Memory", "Unknown"))
	}

	cores := "Unknown"
	if snap.CPUCores > 0 {
		cores = fmt.Sprint(snap.CPUCores)
	}
	lines = append(lines, "", "Processor",
		row("Model", or(snap.CPUModel, "Virtual")),
		row("Cores", cores),
		row("Architecture", or(snap.Arch, runtime.GOARCH)),
		row("Platform", or(strings.TrimSpace(snap.Platform), runtime.GOOS)),
	)

	used, quota, files := a.StorageUsage()
	lines = append(lines, "", "Storage",
		row("Desktop Files", fmt.Sprint(files)),
		row("Used Storage", sysinfo.FormatBytes(uint64(used))),
	)
	if quota > 0 {
		lines = append(lines,
			row("Total Storage", sysinfo.FormatBytes(uint64(quota))),
			row("Free Storage", sysinfo.FormatBytes(uint64(max(quota-used, 0)))),
			row("Storage Usage", fmt.Sprintf("%.0f%%", float64(used)/float64(quota)*100)),
		)
	}

	lines = append(lines, "", "Session")
	if snap.Hostname != "" {
		lines = append(lines, row("Host", snap.Hostname))
	}
	if a.deps.Resolution != nil {
		w, h := a.deps.Resolution()
		lines = append(lines, row("Resolution", fmt.Sprintf("%d × %d", w, h)))
	}
	if a.inst != nil {
		reg := a.inst.Registry()
		counts := map[string]int{}
		for _, inst := range reg.Instances() {
			counts[inst.BaseType()]++
		}
		lines = append(lines, row("Open Windows", fmt.Sprint(len(reg.Instances()))))
		for _, t := range reg.Classes() {
			if n := counts[t]; n > 0 {
				lines = append(lines, row("  "+t, fmt.Sprint(n)))
			}
		}
	}

	return append(lines, "",
		fmt.Sprintf("© %d Korze OS. All rights reserved.", a.now().Year()),
		"Licensed under the MIT License")
}

func (a *About) HandleKey(ctx context.Context, k program.Key) bool {
	switch k.Name {
	case "r":
		a.Refresh(ctx)
	case "up", "k":
		a.mu.Lock()
		a.scroll = max(a.scroll-1, 0)
		a.mu.Unlock()
	case "down", "j":
		a.mu.Lock()
		a.scroll++
		a.mu.Unlock()
	default:
		return false
	}
	return true
}

func (a *About) View(width, height int) string {
	lines := a.Lines()
	for i, l := range lines {
		switch {
		case i == 0:
			lines[i] = heading(l)
		case l != "" && !strings.HasPrefix(l, " ") && i > 2 && i < len(lines)-2:
			lines[i] = label(l)
		case i == 1 || i == 2 || i >= len(lines)-2:
			lines[i] = muted(l)
		}
	}
	rows := wrapRows(lines, width)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.scroll = clampScroll(a.scroll, len(rows), height)
	return frame(rows[a.scroll:], width, height)
}
