// Package config loads, validates and persists the tuidesk configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Config is the root of config.toml.
type Config struct {
	Desktop     DesktopConfig       `toml:"desktop"`
	Appearance  AppearanceConfig    `toml:"appearance"`
	Shell       ShellConfig         `toml:"shell"`
	Programs    ProgramsConfig      `toml:"programs"`
	Storage     StorageConfig       `toml:"storage"`
	Server      ServerConfig        `toml:"server"`
	Web         WebConfig           `toml:"web"`
	Logging     LoggingConfig       `toml:"logging"`
	Keybindings map[string][]string `toml:"keybindings"`
}

// DesktopConfig holds window geometry limits, in terminal cells.
type DesktopConfig struct {
	MinWindowWidth  int `toml:"min_window_width"`
	MinWindowHeight int `toml:"min_window_height"`
	WindowWidth     int `toml:"window_width"`
	WindowHeight    int `toml:"window_height"`
	MenuBarHeight   int `toml:"menu_bar_height"`
	DockHeight      int `toml:"dock_height"`
	HeaderHeight    int `toml:"header_height"`
	ControlWidth    int `toml:"control_width"`
	HandleSize      int `toml:"handle_size"`
	VisibleMargin   int `toml:"visible_margin"`
}

// AppearanceConfig controls colors and chrome.
type AppearanceConfig struct {
	Theme        string `toml:"theme"`
	ShowClock    bool   `toml:"show_clock"`
	DesktopIcons bool   `toml:"desktop_icons"`
}

// ShellConfig configures the virtual shell inside terminal windows.
type ShellConfig struct {
	User           string `toml:"user"`
	Home           string `toml:"home"`
	Banner         bool   `toml:"banner"`
	FetchTimeout   int    `toml:"fetch_timeout_seconds"`
	SnippetLength  int    `toml:"snippet_length"`
	ScrollbackSize int    `toml:"scrollback_lines"`
}

// ProgramsConfig configures the bundled applications.
type ProgramsConfig struct {
	BrowserHome   string `toml:"browser_home"`
	SearchURL     string `toml:"search_url"`
	MailRecipient string `toml:"mail_recipient"`
}

// StorageConfig configures the desktop file store.
type StorageConfig struct {
	Path       string `toml:"path"`
	QuotaBytes int64  `toml:"quota_bytes"`
	Ephemeral  bool   `toml:"ephemeral"`
}

// ServerConfig configures `tuidesk ssh`.
type ServerConfig struct {
	Host    string `toml:"host"`
	Port    string `toml:"port"`
	KeyPath string `toml:"key_path"`
}

// WebConfig configures `tuidesk web`.
type WebConfig struct {
	Host           string `toml:"host"`
	Port           string `toml:"port"`
	ReadOnly       bool   `toml:"read_only"`
	MaxConnections int    `toml:"max_connections"`
}

// LoggingConfig configures the log file.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Desktop: DesktopConfig{
			MinWindowWidth:  30,
			MinWindowHeight: 8,
			WindowWidth:     DefaultWindowWidth,
			WindowHeight:    DefaultWindowHeight,
			MenuBarHeight:   1,
			DockHeight:      1,
			HeaderHeight:    1,
			ControlWidth:    2,
			HandleSize:      2,
			VisibleMargin:   8,
		},
		Appearance: AppearanceConfig{
			Theme:        "",
			ShowClock:    true,
			DesktopIcons: true,
		},
		Shell: ShellConfig{
			User:           DefaultUser,
			Home:           "/home/" + DefaultUser,
			Banner:         true,
			FetchTimeout:   10,
			SnippetLength:  DefaultSnippetLength,
			ScrollbackSize: DefaultScrollbackLines,
		},
		Programs: ProgramsConfig{
			BrowserHome:   "https://korze.org",
			SearchURL:     "https://www.google.com/search?q=",
			MailRecipient: "korze84@gmail.com",
		},
		Storage: StorageConfig{
			QuotaBytes: 5 * 1024 * 1024,
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "2222",
		},
		Web: WebConfig{
			Host: "localhost",
			Port: "7681",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Keybindings: defaultKeybindings(),
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	d := c.Desktop
	if d.MinWindowWidth < 1 || d.MinWindowHeight < 1 {
		errs = append(errs, fmt.Errorf("desktop: minimum window size must be positive, got %dx%d", d.MinWindowWidth, d.MinWindowHeight))
	}
	if d.WindowWidth < d.MinWindowWidth || d.WindowHeight < d.MinWindowHeight {
		errs = append(errs, fmt.Errorf("desktop: default window size %dx%d is below the minimum", d.WindowWidth, d.WindowHeight))
	}
	if d.HeaderHeight < 1 {
		errs = append(errs, errors.New("desktop: header_height must be at least 1"))
	}
	if d.MenuBarHeight < 0 || d.DockHeight < 0 {
		errs = append(errs, errors.New("desktop: menu_bar_height and dock_height cannot be negative"))
	}
	if !strings.HasPrefix(c.Shell.Home, "/") {
		errs = append(errs, fmt.Errorf("shell: home %q must be absolute", c.Shell.Home))
	}
	if c.Shell.SnippetLength < 1 {
		errs = append(errs, errors.New("shell: snippet_length must be positive"))
	}
	if c.Web.MaxConnections < 0 {
		errs = append(errs, errors.New("web: max_connections cannot be negative"))
	}
	if c.Storage.QuotaBytes < 0 {
		errs = append(errs, errors.New("storage: quota_bytes cannot be negative"))
	}
	normalizer := NewKeyNormalizer()
	for action, keys := range c.Keybindings {
		for _, key := range keys {
			if ok, reason := normalizer.ValidateKey(key); !ok {
				errs = append(errs, fmt.Errorf("keybindings: %s: %q: %s", action, key, reason))
			}
		}
	}
	return errors.Join(errs...)
}

// GetConfigPath returns the location of config.toml, creating parent
// directories as needed.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "config.toml"))
}

// GetStorePath returns the default location of the desktop file database.
func GetStorePath() (string, error) {
	return xdg.DataFile(filepath.Join(AppName, "files.db"))
}

// GetLogPath returns the default log file location.
func GetLogPath() (string, error) {
	return xdg.StateFile(filepath.Join(AppName, AppName+".log"))
}

// GetHostKeyPath returns the default SSH host key location.
func GetHostKeyPath() (string, error) {
	return xdg.DataFile(filepath.Join(AppName, "ssh_host_ed25519"))
}

// LoadUserConfig loads config.toml from the XDG config directory, writing
// the defaults first if it does not exist yet.
func LoadUserConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}
	return Load(path)
}

// Load reads a config file. Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := DefaultConfig()
	cfg.Keybindings = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Keybindings == nil {
		cfg.Keybindings = make(map[string][]string)
	}
	for action, keys := range defaultKeybindings() {
		if _, ok := cfg.Keybindings[action]; !ok {
			cfg.Keybindings[action] = keys
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with a short header.
func Save(path string, cfg *Config) error {
	var sb strings.Builder
	sb.WriteString("# tuidesk configuration file\n")
	sb.WriteString("# Location: " + path + "\n\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
