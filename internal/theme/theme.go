// Package theme provides the color themes used to draw the desktop.
package theme

import (
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var (
	mu      sync.RWMutex
	enabled bool
	name    string
	once    sync.Once
)

// Available lists the themes offered in the settings window.
var Available = []string{
	"default",
	"dracula",
	"nord",
	"gruvbox_dark",
	"tokyo_night",
	"catppuccin_mocha",
	"solarized_dark",
	"one_dark",
}

// Initialize sets up the theme registry with the specified theme name.
// If themeName is empty, theming is disabled and standard terminal colors
// are used.
func Initialize(themeName string) error {
	Set(themeName)
	return nil
}

// Set switches to themeName and reports whether it exists. Unknown names
// fall back to the default theme; an empty name disables theming.
func Set(themeName string) bool {
	mu.Lock()
	defer mu.Unlock()

	if themeName == "" {
		enabled = false
		name = ""
		return true
	}

	once.Do(func() { tint.NewDefaultRegistry() })
	enabled = true
	if tint.SetTintID(themeName) {
		name = themeName
		return true
	}
	tint.SetTintID("default")
	name = "default"
	return false
}

// Name returns the active theme, or "" when theming is disabled.
func Name() string {
	mu.RLock()
	defer mu.RUnlock()
	return name
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Current returns the currently active theme, or nil if theming is
// disabled.
func Current() *tint.Tint {
	mu.RLock()
	defer mu.RUnlock()
	if !enabled {
		return nil
	}
	return tint.Current()
}

func pick(fallback string, fn func(t *tint.Tint) color.Color) color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color(fallback)
	}
	return fn(t)
}

// Desktop background and text.
func DesktopBg() color.Color {
	return pick("#1b1d2b", func(t *tint.Tint) color.Color { return t.Bg })
}

func DesktopFg() color.Color {
	return pick("#c8c8d0", func(t *tint.Tint) color.Color { return t.Fg })
}

func DesktopPattern() color.Color {
	return pick("#2a2d40", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

// Menu bar colors
func MenuBarBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

func MenuBarFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

func MenuBarHighlight() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// Window colors
func ContentFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

func ContentBg() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Bg })
}

func BorderUnfocused() color.Color {
	return pick("#6c6c7c", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func BorderFocused() color.Color {
	return pick("#AFFFFF", func(t *tint.Tint) color.Color { return t.BrightCyan })
}

func Cursor() color.Color {
	return pick("#00ff00", func(t *tint.Tint) color.Color { return t.Cursor })
}

// Window control buttons
func ButtonClose() color.Color {
	return pick("#ff5f56", func(t *tint.Tint) color.Color { return t.BrightRed })
}

func ButtonMinimize() color.Color {
	return pick("#ffbd2e", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

func ButtonMaximize() color.Color {
	return pick("#27c93f", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

// Dock styling colors
func DockBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

func DockFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

func DockHighlight() color.Color {
	return pick("#00ff00", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

func DockDimmed() color.Color {
	return lipgloss.Color("#5a5a68")
}

func DockAccent() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

// Notification colors
func NotificationError() color.Color {
	return pick("#cd0000", func(t *tint.Tint) color.Color { return t.Red })
}

func NotificationWarning() color.Color {
	return pick("#cdcd00", func(t *tint.Tint) color.Color { return t.Yellow })
}

func NotificationSuccess() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.Green })
}

func NotificationInfo() color.Color {
	return pick("#0000ee", func(t *tint.Tint) color.Color { return t.Blue })
}

func NotificationBg() color.Color {
	return pick("#000000", func(t *tint.Tint) color.Color { return t.Bg })
}

func NotificationFg() color.Color {
	return pick("#e5e5e5", func(t *tint.Tint) color.Color { return t.Fg })
}

// Text roles inside windows
func TextPrompt() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.BrightGreen })
}

func TextDirectory() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.BrightBlue })
}

func TextExecutable() color.Color {
	return pick("#00cd00", func(t *tint.Tint) color.Color { return t.Green })
}

func TextFile() color.Color {
	return ContentFg()
}

func TextError() color.Color {
	return pick("#ff0000", func(t *tint.Tint) color.Color { return t.BrightRed })
}

func TextAccent() color.Color {
	return pick("#66c2cd", func(t *tint.Tint) color.Color { return t.Cyan })
}

func TextHeading() color.Color {
	return pick("#f9a825", func(t *tint.Tint) color.Color { return t.BrightYellow })
}

func TextLabel() color.Color {
	return pick("#f9a825", func(t *tint.Tint) color.Color { return t.Yellow })
}

func TextMuted() color.Color {
	return pick("#7f7f7f", func(t *tint.Tint) color.Color { return t.BrightBlack })
}

func TextLink() color.Color {
	return pick("#5c5cff", func(t *tint.Tint) color.Color { return t.Blue })
}
