package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gaurav-Gosain/tuidesk/internal/app"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/programs"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
)

func TestNewGeneratesHostKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "host_key")
	s, err := New(SSHServerConfig{Host: "127.0.0.1", Port: "0", KeyPath: keyPath})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(keyPath); err != nil {
		t.Errorf("host key not written: %v", err)
	}
	if got := s.Addr(); got != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", got)
	}
	if s.cfg.Store == nil || s.cfg.Desktop == nil {
		t.Error("defaults not applied")
	}
	if s.Sessions() != 0 {
		t.Errorf("Sessions() = %d before any connection", s.Sessions())
	}
}

func TestListenAndServeStopsWithContext(t *testing.T) {
	s, err := New(SSHServerConfig{
		Host:    "127.0.0.1",
		Port:    "0",
		KeyPath: filepath.Join(t.TempDir(), "host_key"),
		Store:   vfs.NewMemory(0),
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestNewWebDefaults(t *testing.T) {
	s := NewWeb(WebServerConfig{Host: "127.0.0.1", Port: "7681"})
	if got := s.Addr(); got != "127.0.0.1:7681" {
		t.Errorf("Addr() = %q", got)
	}
	if s.cfg.Store == nil || s.cfg.Desktop == nil {
		t.Error("defaults not applied")
	}
}

func TestWebDesktopClosesWithServer(t *testing.T) {
	s := NewWeb(WebServerConfig{Store: vfs.NewMemory(0)})
	ctx, cancel := context.WithCancel(context.Background())
	model, opts := s.newDesktop(ctx, 90, 30)
	if len(opts) == 0 {
		t.Error("no program options")
	}
	d, ok := model.(*app.Desktop)
	if !ok {
		t.Fatalf("model is %T", model)
	}
	if w, h := d.Size(); w != 90 || h != 30 {
		t.Errorf("Size() = %dx%d, want 90x30", w, h)
	}
	if _, err := d.Registry().Launch(context.Background(), programs.TypeTerminal, program.Options{}); err != nil {
		t.Fatal(err)
	}

	cancel()
	deadline := time.Now().Add(5 * time.Second)
	for len(d.Registry().Instances()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("desktop not closed after the server context ended")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
