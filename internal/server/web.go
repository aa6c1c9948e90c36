package server

import (
	"context"
	"net"

	tea "charm.land/bubbletea/v2"
	"github.com/Gaurav-Gosain/sip"
	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	tdlog "github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

// WebServerConfig holds configuration for the browser front end.
type WebServerConfig struct {
	Host           string
	Port           string
	ReadOnly       bool
	MaxConnections int
	Debug          bool

	Desktop *config.Config
	Store   vfs.Store
	Web     *web.Client
	Logger  *log.Logger
}

// WebServer serves the desktop to browsers. Like the SSH server it runs one
// desktop per connection over a shared store.
type WebServer struct {
	cfg    WebServerConfig
	logger *log.Logger
	sip    *sip.Server
}

// NewWeb creates the browser front end.
func NewWeb(cfg WebServerConfig) *WebServer {
	if cfg.Desktop == nil {
		cfg.Desktop = config.DefaultConfig()
	}
	if cfg.Store == nil {
		cfg.Store = vfs.NewMemory(cfg.Desktop.Storage.QuotaBytes)
	}

	sipConfig := sip.DefaultConfig()
	sipConfig.Host = cfg.Host
	sipConfig.Port = cfg.Port
	sipConfig.ReadOnly = cfg.ReadOnly
	sipConfig.MaxConnections = cfg.MaxConnections
	sipConfig.Debug = cfg.Debug

	return &WebServer{
		cfg:    cfg,
		logger: tdlog.OrDiscard(cfg.Logger),
		sip:    sip.NewServer(sipConfig),
	}
}

// Addr returns the configured listen address.
func (s *WebServer) Addr() string { return net.JoinHostPort(s.cfg.Host, s.cfg.Port) }

// Serve runs until ctx is done. Desktops still open at that point are
// closed with it.
func (s *WebServer) Serve(ctx context.Context) error {
	s.logger.Info("starting web server", "addr", s.Addr(), "read_only", s.cfg.ReadOnly)
	return s.sip.Serve(ctx, func(sess sip.Session) (tea.Model, []tea.ProgramOption) {
		return s.newDesktop(ctx, sess.Pty().Width, sess.Pty().Height)
	})
}

func (s *WebServer) newDesktop(ctx context.Context, width, height int) (tea.Model, []tea.ProgramOption) {
	desktop := app.New(ctx, app.Options{
		Config: s.cfg.Desktop,
		Store:  s.cfg.Store,
		Web:    s.cfg.Web,
		Logger: s.logger.WithPrefix("web"),
		Width:  width,
		Height: height,
	})
	context.AfterFunc(ctx, desktop.Close)
	s.logger.Debug("web session started", "cols", width, "rows", height)
	return desktop, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}
