package programs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// Settings is the preferences window: theme selection and desktop chrome
// toggles. Applied changes are written back to the config file.
type Settings struct {
	deps *Deps
	now  func() time.Time

	mu     sync.Mutex
	cfg    config.Config
	cursor int
}

// settingsItem is one selectable row.
type settingsItem struct {
	label  string
	theme  string
	toggle func(*config.AppearanceConfig) *bool
}

func newSettings(d *Deps) program.Factory {
	return func(context.Context, *program.Instance, program.Options) (program.Content, error) {
		return NewSettings(d), nil
	}
}

// NewSettings returns the settings window for the current configuration.
func NewSettings(d *Deps) *Settings {
	return &Settings{deps: d, now: time.Now, cfg: *d.Config}
}

func (s *Settings) items() []settingsItem {
	items := []settingsItem{{label: "Terminal colors", theme: ""}}
	for _, name := range theme.Available {
		items = append(items, settingsItem{label: name, theme: name})
	}
	return append(items,
		settingsItem{label: "Show clock", toggle: func(a *config.AppearanceConfig) *bool { return &a.ShowClock }},
		settingsItem{label: "Desktop icons", toggle: func(a *config.AppearanceConfig) *bool { return &a.DesktopIcons }},
	)
}

// Config returns the configuration as edited in this window.
func (s *Settings) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// ApplyTheme switches the desktop theme and persists the choice.
func (s *Settings) ApplyTheme(name string) error {
	if !theme.Set(name) {
		name = theme.Name()
	}
	s.mu.Lock()
	s.cfg.Appearance.Theme = name
	s.mu.Unlock()
	shown := name
	if shown == "" {
		shown = "terminal colors"
	}
	return s.persist(fmt.Sprintf("Theme changed to %s", shown))
}

// Toggle flips the boolean appearance option at row i.
func (s *Settings) Toggle(i int) error {
	items := s.items()
	if i < 0 || i >= len(items) || items[i].toggle == nil {
		return nil
	}
	s.mu.Lock()
	v := items[i].toggle(&s.cfg.Appearance)
	*v = !*v
	state := "off"
	if *v {
		state = "on"
	}
	s.mu.Unlock()
	return s.persist(fmt.Sprintf("%s %s", items[i].label, state))
}

func (s *Settings) persist(msg string) error {
	cfg := s.Config()
	if s.deps.ConfigPath != "" {
		if err := config.Save(s.deps.ConfigPath, &cfg); err != nil {
			s.deps.Logger.Error("saving settings", "err", err)
			s.deps.Notifier.Alert("Settings", "Could not save settings: "+err.Error())
			return err
		}
	}
	if s.deps.OnConfig != nil {
		s.deps.OnConfig(cfg)
	}
	s.deps.Notifier.Notify(msg)
	return nil
}

func (s *Settings) HandleKey(_ context.Context, k program.Key) bool {
	items := s.items()
	s.mu.Lock()
	switch k.Name {
	case "up", "k":
		s.cursor = max(s.cursor-1, 0)
	case "down", "j":
		s.cursor = min(s.cursor+1, len(items)-1)
	case "enter", "space":
		item := items[s.cursor]
		i := s.cursor
		s.mu.Unlock()
		if item.toggle != nil {
			_ = s.Toggle(i)
		} else {
			_ = s.ApplyTheme(item.theme)
		}
		return true
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()
	return true
}

func (s *Settings) View(width, height int) string {
	items := s.items()
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []string{heading("Appearance"), label("Theme")}
	cursorRow := 0
	for i, it := range items {
		var row string
		if it.toggle == nil {
			mark := "( )"
			if it.theme == s.cfg.Appearance.Theme {
				mark = "(•)"
			}
			row = "  " + mark + " " + it.label
		} else {
			if i > 0 && items[i-1].toggle == nil {
				rows = append(rows, "", label("Desktop"))
			}
			mark := "[ ]"
			if *it.toggle(&s.cfg.Appearance) {
				mark = "[x]"
			}
			row = "  " + mark + " " + it.label
		}
		if i == s.cursor {
			row = reverse(pad(row, width))
			cursorRow = len(rows)
		}
		rows = append(rows, row)
	}

	rows = append(rows, "", label("System"))
	if s.deps.Resolution != nil {
		w, h := s.deps.Resolution()
		rows = append(rows, fmt.Sprintf("  Resolution: %d × %d", w, h))
	}
	rows = append(rows, "  Date/Time:  "+s.now().Format(time.DateTime))

	offset := 0
	if cursorRow >= height {
		offset = cursorRow - height + 1
	}
	return frame(rows[offset:], width, height)
}
