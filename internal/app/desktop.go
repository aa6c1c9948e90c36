// Package app implements the desktop: a bubbletea model that draws program
// windows, the menu bar, the dock and the desktop file icons, and routes
// keyboard and mouse input to them.
package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/menubar"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/programs"
	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
	"github.com/Gaurav-Gosain/tuidesk/internal/sysinfo"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
	"github.com/Gaurav-Gosain/tuidesk/internal/web"
)

// Options configure a Desktop.
type Options struct {
	Config *config.Config
	// ConfigPath is where settings are saved and, with Watch set, watched
	// for changes.
	ConfigPath string
	Watch      bool

	Store   vfs.Store
	Web     *web.Client
	SysInfo func(context.Context) (sysinfo.Snapshot, error)
	Logger  *log.Logger

	// Width and Height are the initial viewport until the first window
	// size message arrives.
	Width, Height int
}

// Desktop is one desktop session. All exported methods are safe to call
// from program goroutines; Update and View run on the bubbletea loop.
type Desktop struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *log.Logger

	configPath string
	watch      bool
	reloads    chan *config.Config

	stack     *surface.Stack
	registry  *program.Registry
	menu      *menubar.Controller
	store     vfs.Store
	cpu       *sysinfo.CPUMonitor
	clipboard *programs.MemoryClipboard
	now       func() time.Time

	mu            sync.Mutex
	cfg           config.Config
	keys          *config.KeybindRegistry
	width, height int
	notifications []Notification
	dialogs       []Dialog

	// UI loop state.
	openMenu   int
	menuCursor int
	gesture    *surface.Surface
	lastClick  click
	files      []string
	scannedAt  time.Time
	selected   int
	closed     bool
}

// click remembers the previous press for double-click detection.
type click struct {
	target string
	at     time.Time
}

const doubleClickInterval = 400 * time.Millisecond

// New creates a desktop and registers the bundled programs on it.
func New(ctx context.Context, opts Options) *Desktop {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := opts.Store
	if store == nil {
		store = vfs.NewMemory(cfg.Storage.QuotaBytes)
	}
	logger := logging.OrDiscard(opts.Logger)
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 120, 40
	}

	ctx, cancel := context.WithCancel(ctx)
	d := &Desktop{
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
		configPath: opts.ConfigPath,
		watch:      opts.Watch && opts.ConfigPath != "",
		reloads:    make(chan *config.Config, 1),
		store:      store,
		cpu:        sysinfo.NewCPUMonitor(10, time.Second),
		clipboard:  &programs.MemoryClipboard{},
		now:        time.Now,
		cfg:        *cfg,
		keys:       config.NewKeybindRegistry(cfg),
		width:      width,
		height:     height,
		openMenu:   -1,
		selected:   -1,
	}

	d.stack = surface.NewStack(boundsFor(cfg, width, height))
	d.registry = program.NewRegistry(d.stack, logger.WithPrefix("programs"))
	d.menu = menubar.New(d.registry, logger.WithPrefix("menubar"))
	d.registry.SetFocusListener(d.menu)
	d.menu.OnRefresh(func() {
		d.scanFiles(true)
	})

	programs.Register(d.registry, d.menu, programs.Deps{
		Config:     cfg,
		ConfigPath: opts.ConfigPath,
		Store:      store,
		Web:        opts.Web,
		Notifier:   d,
		Clipboard:  d.clipboard,
		SysInfo:    opts.SysInfo,
		Resolution: d.Size,
		OnConfig:   d.applyConfig,
		Logger:     logger.WithPrefix("app"),
	})
	d.scanFiles(true)
	return d
}

// boundsFor converts the desktop config into surface bounds for a
// viewport.
func boundsFor(cfg *config.Config, width, height int) surface.Bounds {
	dc := cfg.Desktop
	return surface.Bounds{
		Width:         width,
		Height:        height,
		TopInset:      dc.MenuBarHeight,
		BottomInset:   dc.DockHeight,
		MinWidth:      dc.MinWindowWidth,
		MinHeight:     dc.MinWindowHeight,
		HeaderHeight:  dc.HeaderHeight,
		ControlWidth:  dc.ControlWidth,
		HandleSize:    dc.HandleSize,
		VisibleMargin: dc.VisibleMargin,
	}
}

// Close closes every window and stops background work. It is idempotent.
func (d *Desktop) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.registry.CloseAll()
	d.cancel()
}

// Registry returns the program registry of the desktop.
func (d *Desktop) Registry() *program.Registry { return d.registry }

// Stack returns the window stack.
func (d *Desktop) Stack() *surface.Stack { return d.stack }

// Menu returns the menu bar controller.
func (d *Desktop) Menu() *menubar.Controller { return d.menu }

// Size returns the viewport size in cells.
func (d *Desktop) Size() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

// Config returns the active configuration.
func (d *Desktop) Config() config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

// Interacting reports whether a window is being dragged or resized. Call
// it from the bubbletea loop only.
func (d *Desktop) Interacting() bool { return d.gesture != nil }

func (d *Desktop) resize(width, height int) {
	d.mu.Lock()
	d.width, d.height = width, height
	d.mu.Unlock()
	d.stack.SetViewport(width, height)
}

// applyConfig switches to cfg. Window geometry limits only affect the
// viewport insets; live windows keep their size.
func (d *Desktop) applyConfig(cfg config.Config) {
	d.mu.Lock()
	d.cfg = cfg
	d.keys = config.NewKeybindRegistry(&cfg)
	d.mu.Unlock()
	d.logger.Debug("configuration applied", "theme", cfg.Appearance.Theme)
}

func (d *Desktop) keybinds() *config.KeybindRegistry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.keys
}

// scanFiles refreshes the desktop icons from the store, at most once a
// second unless forced.
func (d *Desktop) scanFiles(force bool) {
	now := d.now()
	if !force && now.Sub(d.scannedAt) < time.Second {
		return
	}
	d.scannedAt = now
	names, err := d.store.List()
	if err != nil {
		d.logger.Warn("listing desktop files", "err", err)
		return
	}
	slices.Sort(names)
	d.files = names
	if d.selected >= len(names) {
		d.selected = len(names) - 1
	}
}

// Files returns the desktop files shown as icons.
func (d *Desktop) Files() []string { return slices.Clone(d.files) }

// focused returns the focused instance with initialized content.
func (d *Desktop) focused() (*program.Instance, program.Content) {
	inst := d.registry.FocusedInstance()
	if inst == nil {
		return nil, nil
	}
	return inst, inst.Content()
}
