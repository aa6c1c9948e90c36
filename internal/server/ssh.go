// Package server serves the desktop over SSH and to browsers. Every session
// gets its own desktop; all sessions share one file store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/activeterm"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	tdlog "github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

const shutdownTimeout = 10 * time.Second

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string

	// Desktop is the configuration every session starts with. Settings
	// changed inside a session are not written back.
	Desktop *config.Config
	Store   vfs.Store
	Web     *web.Client
	Logger  *log.Logger
}

// Server accepts SSH sessions and runs a desktop in each.
type Server struct {
	cfg      SSHServerConfig
	logger   *log.Logger
	srv      *ssh.Server
	sessions atomic.Int64
}

// New creates the SSH server. The host key is generated at KeyPath if it
// does not exist yet.
func New(cfg SSHServerConfig) (*Server, error) {
	if cfg.Desktop == nil {
		cfg.Desktop = config.DefaultConfig()
	}
	if cfg.Store == nil {
		cfg.Store = vfs.NewMemory(cfg.Desktop.Storage.QuotaBytes)
	}
	if cfg.KeyPath == "" {
		path, err := config.GetHostKeyPath()
		if err != nil {
			return nil, err
		}
		cfg.KeyPath = path
	}
	s := &Server{cfg: cfg, logger: tdlog.OrDiscard(cfg.Logger)}

	srv, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(cfg.KeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(s.teaHandler),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(s.logger),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Sessions returns the number of connected sessions.
func (s *Server) Sessions() int { return int(s.sessions.Load()) }

// ListenAndServe runs the server until ctx is done, then shuts it down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting SSH server", "addr", s.srv.Addr)
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down SSH server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// teaHandler creates a desktop for each SSH session.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sess.Pty()
	if !active {
		return nil, nil
	}

	desktop := app.New(sess.Context(), app.Options{
		Config: s.cfg.Desktop,
		Store:  s.cfg.Store,
		Web:    s.cfg.Web,
		Logger: s.logger.WithPrefix(sess.User()),
		Width:  pty.Window.Width,
		Height: pty.Window.Height,
	})

	n := s.sessions.Add(1)
	s.logger.Info("session started", "user", sess.User(), "remote", sess.RemoteAddr(), "sessions", n)
	context.AfterFunc(sess.Context(), func() {
		desktop.Close()
		s.logger.Info("session ended", "user", sess.User(), "sessions", s.sessions.Add(-1))
	})

	return desktop, []tea.ProgramOption{
		tea.WithFPS(config.NormalFPS),
	}
}
