// Package programs implements the applications that run inside desktop
// windows and registers them, together with their menu actions, on a
// program registry.
package programs

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/menubar"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

// Notifier reports events to the user.
type Notifier interface {
	// Notify shows a transient message.
	Notify(msg string)
	// Alert opens a dialog the user has to dismiss.
	Alert(title, msg string)
}

// Clipboard is the desktop clipboard shared by all windows of a session.
type Clipboard interface {
	Copy(text string)
	Paste() string
}

// Deps are the collaborators programs need from the desktop.
type Deps struct {
	Config *config.Config
	// ConfigPath is where settings changes are persisted. Empty disables
	// persistence.
	ConfigPath string
	Store      vfs.Store
	Web        *web.Client
	Notifier   Notifier
	Clipboard  Clipboard
	SysInfo    func(context.Context) (sysinfo.Snapshot, error)
	Resolution func() (width, height int)
	// OnConfig is told about configuration changes made by the settings
	// window.
	OnConfig func(config.Config)
	Logger   *log.Logger
}

func (d *Deps) setDefaults() {
	if d.Config == nil {
		d.Config = config.DefaultConfig()
	}
	if d.Store == nil {
		d.Store = vfs.NewMemory(d.Config.Storage.QuotaBytes)
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Clipboard == nil {
		d.Clipboard = &MemoryClipboard{}
	}
	if d.SysInfo == nil {
		d.SysInfo = sysinfo.Collect
	}
	d.Logger = logging.OrDiscard(d.Logger)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string)         {}
func (nopNotifier) Alert(string, string) {}

// MemoryClipboard is a process-local clipboard.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) Copy(text string) {
	c.mu.Lock()
	c.text = text
	c.mu.Unlock()
}

func (c *MemoryClipboard) Paste() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Actor is implemented by content that handles menu actions.
type Actor interface {
	Action(ctx context.Context, action string) error
}

// Base types of the bundled programs.
const (
	TypeTerminal  = "terminal"
	TypeBrowser   = "browser"
	TypeMail      = "mail"
	TypeSettings  = "settings"
	TypePDFViewer = "pdf-viewer"
	TypeEditor    = "editor"
	TypeAbout     = "about"
)

// Register adds every bundled program to reg and routes their menu
// actions through menu. menu may be nil.
func Register(reg *program.Registry, menu *menubar.Controller, deps Deps) {
	deps.setDefaults()
	d := &deps
	w, h := d.Config.Desktop.WindowWidth, d.Config.Desktop.WindowHeight

	reg.Register(TypeTerminal, program.Class{Title: "Terminal", Width: w, Height: h, New: newTerminal(d)})
	reg.Register(TypeBrowser, program.Class{Title: "Browser", Width: w + 16, Height: h + 4, New: newBrowser(d)})
	reg.Register(TypeMail, program.Class{Title: "Mail", Width: w - 8, Height: h - 2, New: newMail(d)})
	reg.Register(TypeSettings, program.Class{Title: "Settings", Width: 52, Height: h - 2, Singleton: true, New: newSettings(d)})
	reg.Register(TypePDFViewer, program.Class{Title: "File Viewer", Width: w, Height: h + 2, New: newPDFViewer(d)})
	reg.Register(TypeEditor, program.Class{Title: "Text Editor", Width: w, Height: h, New: newEditor(d)})
	reg.Register(TypeAbout, program.Class{Title: "About This System", Width: 60, Height: h, Singleton: true, New: newAbout(d)})

	if menu == nil {
		return
	}
	for _, t := range []string{TypeTerminal, TypeBrowser, TypeMail, TypePDFViewer, TypeEditor, TypeSettings, TypeAbout} {
		menu.Handle(t, menubar.ActionHandlerFunc(contentAction))
	}
	menu.Handle(program.DesktopType, menubar.ActionHandlerFunc(func(ctx context.Context, _ *program.Instance, action string) error {
		return desktopAction(ctx, reg, d, action)
	}))
}

func contentAction(ctx context.Context, inst *program.Instance, action string) error {
	if inst == nil {
		return fmt.Errorf("%w: %s", menubar.ErrUnknownAction, action)
	}
	a, ok := inst.Content().(Actor)
	if !ok {
		return fmt.Errorf("%w: %s for %s", menubar.ErrUnknownAction, action, inst.BaseType())
	}
	return a.Action(ctx, action)
}

func unknownAction(action string) error {
	return fmt.Errorf("%w: %s", menubar.ErrUnknownAction, action)
}

func desktopAction(ctx context.Context, reg *program.Registry, d *Deps, action string) error {
	switch action {
	case "new-file":
		name, err := NewFile(d.Store)
		if err != nil {
			d.Notifier.Alert("Storage Error", err.Error())
			return err
		}
		_, err = reg.Launch(ctx, TypeEditor, program.Options{File: name})
		return err
	}
	return unknownAction(action)
}

// NewFile creates an empty, uniquely named text file in s.
func NewFile(s vfs.Store) (string, error) {
	names, err := s.List()
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(names))
	for _, n := range names {
		taken[n] = true
	}
	name := "untitled.txt"
	for i := 2; taken[name]; i++ {
		name = fmt.Sprintf("untitled-%d.txt", i)
	}
	if err := s.Write(name, ""); err != nil {
		return "", err
	}
	return name, nil
}

// OpenFile launches the program that displays name: PDFs in the file
// viewer, everything else in the editor.
func OpenFile(ctx context.Context, reg *program.Registry, name string) (*program.Instance, error) {
	baseType := TypeEditor
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		baseType = TypePDFViewer
	}
	return reg.Launch(ctx, baseType, program.Options{File: name})
}
