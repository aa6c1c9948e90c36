package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
)

// =============================================================================
// Default Configuration Tests
// =============================================================================

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config does not validate: %v", err)
	}

	if cfg.Shell.Home != "/home/korze" {
		t.Errorf("Expected home /home/korze, got %q", cfg.Shell.Home)
	}

	if cfg.Shell.SnippetLength != 500 {
		t.Errorf("Expected snippet length 500, got %d", cfg.Shell.SnippetLength)
	}

	if cfg.Desktop.WindowWidth < cfg.Desktop.MinWindowWidth {
		t.Errorf("Default window width %d below minimum %d", cfg.Desktop.WindowWidth, cfg.Desktop.MinWindowWidth)
	}
}

func TestDefaultKeybindings(t *testing.T) {
	cfg := config.DefaultConfig()

	requiredActions := []string{
		"new_terminal",
		"close_window",
		"next_window",
		"quit",
	}

	for _, action := range requiredActions {
		keys, ok := cfg.Keybindings[action]
		if !ok {
			t.Errorf("Expected %s keybinding to exist", action)
			continue
		}
		if len(keys) == 0 {
			t.Errorf("Expected %s to have at least one key bound", action)
		}
	}
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"valid", func(*config.Config) {}, ""},
		{"zero minimum", func(c *config.Config) { c.Desktop.MinWindowWidth = 0 }, "minimum window size"},
		{"window below minimum", func(c *config.Config) { c.Desktop.WindowHeight = 2 }, "below the minimum"},
		{"relative home", func(c *config.Config) { c.Shell.Home = "home/korze" }, "must be absolute"},
		{"negative quota", func(c *config.Config) { c.Storage.QuotaBytes = -1 }, "quota_bytes"},
		{"negative connection limit", func(c *config.Config) { c.Web.MaxConnections = -1 }, "max_connections"},
		{"empty key", func(c *config.Config) { c.Keybindings["quit"] = []string{""} }, "empty key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

// =============================================================================
// Load / Save Tests
// =============================================================================

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := config.DefaultConfig()
	cfg.Appearance.Theme = "dracula"
	cfg.Shell.User = "guest"

	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[appearance]\ntheme = \"nord\"\n\n[keybindings]\nquit = [\"ctrl+x\"]\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Appearance.Theme != "nord" {
		t.Errorf("theme = %q, want nord", cfg.Appearance.Theme)
	}
	if cfg.Shell.Home != "/home/korze" {
		t.Errorf("missing key lost its default: home = %q", cfg.Shell.Home)
	}
	if got := cfg.Keybindings["quit"]; len(got) != 1 || got[0] != "ctrl+x" {
		t.Errorf("quit = %v, want [ctrl+x]", got)
	}
	if len(cfg.Keybindings["new_terminal"]) == 0 {
		t.Error("unlisted keybinding should fall back to its default")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[shell]\nhome = \"relative\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *config.Config, 4)
	logger := log.New(os.Stderr)
	logger.SetLevel(log.ErrorLevel)
	if err := config.Watch(ctx, path, logger, func(c *config.Config) { changes <- c }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Appearance.Theme = "gruvbox"
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		if got.Appearance.Theme != "gruvbox" {
			t.Errorf("reloaded theme = %q, want gruvbox", got.Appearance.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

// =============================================================================
// KeybindRegistry Tests
// =============================================================================

func TestKeybindRegistry_GetKeys(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("new_terminal")
	if len(keys) == 0 {
		t.Error("Expected new_terminal to have keys")
	}
}

func TestKeybindRegistry_GetAction(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("new_terminal")
	if len(keys) == 0 {
		t.Skip("No keys bound to new_terminal")
	}

	action := registry.GetAction(keys[0])
	if action != "new_terminal" {
		t.Errorf("Expected action 'new_terminal', got %q", action)
	}
}

func TestKeybindRegistry_AliasLookup(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Keybindings["focus_desktop"] = []string{"Escape"}
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetAction("esc"); got != "focus_desktop" {
		t.Errorf("GetAction(esc) = %q, want focus_desktop", got)
	}
}

func TestKeybindRegistry_GetKeysForDisplay(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	if got := registry.GetKeysForDisplay("quit"); got != "Ctrl+Q" {
		t.Errorf("GetKeysForDisplay(quit) = %q, want Ctrl+Q", got)
	}
}

func TestKeybindRegistry_UnknownAction(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	keys := registry.GetKeys("nonexistent_action")
	if len(keys) != 0 {
		t.Errorf("Expected empty keys for nonexistent action, got %v", keys)
	}
}

func TestKeybindRegistry_UnknownKey(t *testing.T) {
	cfg := config.DefaultConfig()
	registry := config.NewKeybindRegistry(cfg)

	action := registry.GetAction("ctrl+shift+alt+super+hyper+x")
	if action != "" {
		t.Errorf("Expected empty action for unbound key, got %q", action)
	}
}

// =============================================================================
// Key Normalizer Tests
// =============================================================================

func TestKeyNormalizer(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"ctrl+a", "ctrl+a"},
		{"Ctrl+A", "ctrl+a"},
		{"CTRL+A", "ctrl+a"},
		{"return", "enter"},
		{"escape", "esc"},
		{"enter", "enter"},
		{"opt+x", "alt+x"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := normalizer.NormalizeKey(tc.input)
			if len(got) == 0 {
				t.Errorf("NormalizeKey(%q) returned empty slice", tc.input)
				return
			}
			found := false
			for _, k := range got {
				if k == tc.expected {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("NormalizeKey(%q) = %v, want to contain %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestKeyNormalizer_ValidateKey(t *testing.T) {
	normalizer := config.NewKeyNormalizer()

	tests := []struct {
		input   string
		isValid bool
	}{
		{"ctrl+a", true},
		{"n", true},
		{"enter", true},
		{"esc", true},
		{"tab", true},
		{"", false},
		{"ctrl+", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			valid, _ := normalizer.ValidateKey(tc.input)
			if valid != tc.isValid {
				t.Errorf("ValidateKey(%q) = %v, want %v", tc.input, valid, tc.isValid)
			}
		})
	}
}

func TestGetKeybindingsHasDescriptions(t *testing.T) {
	for _, section := range config.GetKeybindings(nil) {
		if section.Title == "" {
			t.Error("section without title")
		}
		for _, b := range section.Bindings {
			if b.Key == "" || b.Description == "" {
				t.Errorf("%s: incomplete binding %+v", section.Title, b)
			}
		}
	}
}
