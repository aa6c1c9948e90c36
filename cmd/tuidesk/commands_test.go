package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
)

func useConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	old := configFile
	configFile = path
	t.Cleanup(func() { configFile = old })
	return path
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"first non-empty line", "\n\n  hello \nworld", "hello"},
		{"long line", strings.Repeat("x", 50), strings.Repeat("x", 39) + "…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.content); got != tt.want {
				t.Errorf("preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileCommands(t *testing.T) {
	s := vfs.NewMemory(0)

	if err := writeFile(s, strings.NewReader("ignored"), []string{"a.txt", "from args"}); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(s, strings.NewReader("from stdin\n"), []string{"b.txt"}); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(s, nil, []string{"bad/name", "x"}); !errors.Is(err, vfs.ErrInvalidName) {
		t.Errorf("writeFile(bad/name) = %v, want ErrInvalidName", err)
	}

	var out bytes.Buffer
	if err := catFile(s, &out, "b.txt"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "from stdin\n" {
		t.Errorf("cat = %q", out.String())
	}

	out.Reset()
	if err := listFiles(s, &out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"a.txt", "b.txt", "from args"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := removeFile(s, strings.NewReader("no\n"), &out, "a.txt", false); err != nil {
		t.Fatal(err)
	}
	if err := removeFile(s, strings.NewReader("y\n"), &out, "b.txt", false); err != nil {
		t.Fatal(err)
	}
	if err := removeFile(s, nil, &out, "missing.txt", true); !errors.Is(err, vfs.ErrNotFound) {
		t.Errorf("removeFile(missing) = %v, want ErrNotFound", err)
	}

	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.txt"}, names); diff != "" {
		t.Errorf("files after rm (-want +got):\n%s", diff)
	}
}

func TestListFilesEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := listFiles(vfs.NewMemory(0), &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No desktop files.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestConfigCommands(t *testing.T) {
	path := useConfigFile(t)

	var out bytes.Buffer
	if err := printConfigPath(&out); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("path = %q, want %q", out.String(), path)
	}

	// No file yet: reset writes without asking.
	out.Reset()
	if err := resetConfigToDefaults(strings.NewReader(""), &out, false); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(config.DefaultConfig(), cfg); diff != "" {
		t.Errorf("reset config differs from defaults (-want +got):\n%s", diff)
	}

	cfg.Appearance.ShowClock = false
	if err := config.Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	out.Reset()
	if err := resetConfigToDefaults(strings.NewReader("no\n"), &out, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Reset cancelled.") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	if err := showConfig(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "show_clock = false") {
		t.Errorf("show did not reflect the file:\n%s", out.String())
	}

	if err := resetConfigToDefaults(nil, &out, true); err != nil {
		t.Fatal(err)
	}
	if cfg, err = config.Load(path); err != nil {
		t.Fatal(err)
	}
	if !cfg.Appearance.ShowClock {
		t.Error("reset --yes did not restore defaults")
	}
}

func TestConfirmRefusesWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := confirm(f, &bytes.Buffer{}, "Sure?"); !errors.Is(err, errNotConfirmed) {
		t.Errorf("confirm() = %v, want errNotConfirmed", err)
	}
}

func TestListKeybindings(t *testing.T) {
	useConfigFile(t)
	var out bytes.Buffer
	if err := listKeybindings(&out); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"WINDOWS", "DESKTOP", "Ctrl+N", "New terminal"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestOpenStoreEphemeralSeedsDefaults(t *testing.T) {
	old := ephemeral
	ephemeral = true
	t.Cleanup(func() { ephemeral = old })

	s, closer, err := openStore(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if closer != nil {
		t.Error("memory store returned a closer")
	}
	if _, err := s.Read("welcome.txt"); err != nil {
		t.Errorf("welcome.txt not seeded: %v", err)
	}
}

func TestOpenStoreBolt(t *testing.T) {
	old := storePath
	storePath = filepath.Join(t.TempDir(), "files.db")
	t.Cleanup(func() { storePath = old })

	s, closer, err := openStore(config.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer closer.Close()
	names, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != len(vfs.DefaultFiles()) {
		t.Errorf("List() = %v", names)
	}
}
