package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/server"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

// filterMouseMotion drops mouse motion unless a window is being dragged or
// resized.
func filterMouseMotion(model tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseMotionMsg); !ok {
		return msg
	}
	d, ok := model.(*app.Desktop)
	if !ok || d.Interacting() {
		return msg
	}
	return nil
}

// loadConfig loads --config or the XDG config file and returns it with the
// path it came from. A broken file falls back to the defaults.
func loadConfig(logger *log.Logger) (*config.Config, string) {
	path := configFile
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			logger.Warn("could not determine config path, using defaults", "err", err)
			return config.DefaultConfig(), ""
		}
		path = p
	}

	var (
		cfg *config.Config
		err error
	)
	if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
		cfg = config.DefaultConfig()
		err = config.Save(path, cfg)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "err", err)
		return config.DefaultConfig(), path
	}
	return cfg, path
}

// openStore opens the desktop file store selected by flags and config. The
// closer is nil for in-memory stores.
func openStore(cfg *config.Config) (vfs.Store, io.Closer, error) {
	if ephemeral || cfg.Storage.Ephemeral {
		s := vfs.NewMemory(cfg.Storage.QuotaBytes)
		if err := vfs.Seed(s, vfs.DefaultFiles()); err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	}

	path := storePath
	if path == "" {
		path = cfg.Storage.Path
	}
	if path == "" {
		p, err := config.GetStorePath()
		if err != nil {
			return nil, nil, fmt.Errorf("could not determine store path: %w", err)
		}
		path = p
	}
	b, err := vfs.OpenBolt(path, cfg.Storage.QuotaBytes)
	if err != nil {
		return nil, nil, err
	}
	if err := vfs.Seed(b, vfs.DefaultFiles()); err != nil {
		_ = b.Close()
		return nil, nil, err
	}
	return b, b, nil
}

func newWebClient(cfg *config.Config, logger *log.Logger) *web.Client {
	wc := web.DefaultConfig()
	if cfg.Shell.FetchTimeout > 0 {
		wc.Timeout = time.Duration(cfg.Shell.FetchTimeout) * time.Second
	}
	wc.Logger = logger.WithPrefix("web")
	return web.NewClient(wc)
}

func runLocal(ctx context.Context) error {
	// The desktop owns the terminal, so nothing may write to stderr until it
	// exits.
	stderr := logging.New(os.Stderr, config.AppName)
	cfg, cfgPath := loadConfig(stderr)
	if themeName != "" {
		cfg.Appearance.Theme = themeName
	}

	logger, logFile, err := logging.OpenFile(cfg.Logging, debugMode)
	if err != nil {
		stderr.Warn("logging disabled", "err", err)
		logger = logging.Discard()
	} else {
		defer func() { _ = logFile.Close() }()
	}
	if debugMode {
		path, _ := config.GetLogPath()
		if cfg.Logging.File != "" {
			path = cfg.Logging.File
		}
		fmt.Printf("Debug mode enabled, logging to %s\n", path)
	}

	if name := cfg.Appearance.Theme; !theme.Set(name) && name != "" {
		logger.Warn("unknown theme, using default", "theme", name)
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("could not open desktop files: %w", err)
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Error("failed to close store", "err", err)
			}
		}()
	}

	desktop := app.New(ctx, app.Options{
		Config:     cfg,
		ConfigPath: cfgPath,
		Watch:      true,
		Store:      store,
		Web:        newWebClient(cfg, logger),
		Logger:     logger,
	})
	defer desktop.Close()

	p := tea.NewProgram(
		desktop,
		tea.WithContext(ctx),
		tea.WithFPS(config.NormalFPS),
		tea.WithFilter(filterMouseMotion),
	)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

// serverSetup prepares the shared state of the SSH and web servers.
func serverSetup() (*config.Config, *log.Logger) {
	logger := logging.New(os.Stderr, config.AppName)
	cfg, _ := loadConfig(logger)
	if themeName != "" {
		cfg.Appearance.Theme = themeName
	}
	logger.SetLevel(logging.ParseLevel(cfg.Logging.Level))
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}
	if name := cfg.Appearance.Theme; !theme.Set(name) && name != "" {
		logger.Warn("unknown theme, using default", "theme", name)
	}

	// Our stdout is not what clients see. Render in full color and let each
	// session's renderer downsample for its own terminal.
	lipgloss.Writer.Profile = colorprofile.TrueColor
	return cfg, logger
}

func runSSHServer(ctx context.Context, host, port, keyPath string) error {
	cfg, logger := serverSetup()
	if host == "" {
		host = cfg.Server.Host
	}
	if port == "" {
		port = cfg.Server.Port
	}
	if keyPath == "" {
		keyPath = cfg.Server.KeyPath
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("could not open desktop files: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	srv, err := server.New(server.SSHServerConfig{
		Host:    host,
		Port:    port,
		KeyPath: keyPath,
		Desktop: cfg,
		Store:   store,
		Web:     newWebClient(cfg, logger),
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("SSH server error: %w", err)
	}
	return nil
}

type webServerFlags struct {
	host, port     string
	readOnly       bool
	maxConnections int
	// setReadOnly and setMax record whether the flags were given, so the
	// config file values apply otherwise.
	setReadOnly, setMax bool
}

func runWebServer(ctx context.Context, flags webServerFlags) error {
	cfg, logger := serverSetup()

	wc := cfg.Web
	if flags.host != "" {
		wc.Host = flags.host
	}
	if flags.port != "" {
		wc.Port = flags.port
	}
	if flags.setReadOnly {
		wc.ReadOnly = flags.readOnly
	}
	if flags.setMax {
		wc.MaxConnections = flags.maxConnections
	}

	store, closer, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("could not open desktop files: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	srv := server.NewWeb(server.WebServerConfig{
		Host:           wc.Host,
		Port:           wc.Port,
		ReadOnly:       wc.ReadOnly,
		MaxConnections: wc.MaxConnections,
		Debug:          debugMode,
		Desktop:        cfg,
		Store:          store,
		Web:            newWebClient(cfg, logger),
		Logger:         logger,
	})
	if err := srv.Serve(ctx); err != nil {
		return fmt.Errorf("web server error: %w", err)
	}
	return nil
}
