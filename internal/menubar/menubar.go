// Package menubar tracks which program type is focused and exposes the menus
// and actions the top bar shows for it.
package menubar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
)

// ErrUnknownAction is returned when no handler accepts an action.
var ErrUnknownAction = errors.New("unknown menu action")

// Item is a menu entry. Separators have no label or action.
type Item struct {
	Label     string
	Action    string
	Separator bool
}

// Menu is a titled dropdown.
type Menu struct {
	Title string
	Items []Item
}

var separator = Item{Separator: true}

var appMenus = map[string][]Menu{
	program.DesktopType: {
		{Title: "File", Items: []Item{
			{Label: "New File", Action: "new-file"},
			separator,
			{Label: "Open Terminal", Action: "show-terminal"},
		}},
	},
	"terminal": {
		{Title: "File", Items: []Item{
			{Label: "New Terminal", Action: "new-terminal"},
			separator,
			{Label: "Close Terminal", Action: "close-terminal"},
		}},
		{Title: "Edit", Items: []Item{
			{Label: "Copy", Action: "copy"},
			{Label: "Paste", Action: "paste"},
			separator,
			{Label: "Clear Buffer", Action: "clear-terminal"},
		}},
	},
	"browser": {
		{Title: "File", Items: []Item{
			{Label: "New Tab", Action: "new-tab"},
		}},
		{Title: "View", Items: []Item{
			{Label: "Reload Page", Action: "reload-page"},
			{Label: "Back", Action: "go-back"},
			{Label: "Forward", Action: "go-forward"},
			{Label: "Home", Action: "go-home"},
		}},
	},
	"mail": {
		{Title: "File", Items: []Item{
			{Label: "New Message", Action: "new-email"},
			separator,
			{Label: "Send", Action: "send-email"},
		}},
	},
	"pdf-viewer": {
		{Title: "File", Items: []Item{
			{Label: "Open File...", Action: "open-pdf"},
		}},
	},
	"editor": {
		{Title: "File", Items: []Item{
			{Label: "Save", Action: "save-file"},
			{Label: "Revert", Action: "revert-file"},
			separator,
			{Label: "Delete", Action: "delete-file"},
		}},
	},
}

var windowMenu = Menu{Title: "Window", Items: []Item{
	{Label: "Minimize", Action: "minimize-window"},
	{Label: "Maximize", Action: "maximize-window"},
	separator,
	{Label: "Terminal", Action: "show-terminal"},
	{Label: "Browser", Action: "show-browser"},
	{Label: "Mail", Action: "show-mail"},
	{Label: "File Viewer", Action: "show-fileviewer"},
}}

var logoMenu = []Item{
	{Label: "About This System", Action: "about"},
	separator,
	{Label: "System Preferences...", Action: "preferences"},
	separator,
	{Label: "Terminal", Action: "show-terminal"},
	{Label: "Browser", Action: "show-browser"},
	{Label: "Mail", Action: "show-mail"},
	{Label: "File Viewer", Action: "show-fileviewer"},
	separator,
	{Label: "Force Refresh UI", Action: "refresh-ui"},
}

var appNames = map[string]string{
	"terminal":   "Terminal",
	"browser":    "Browser",
	"mail":       "Mail",
	"pdf-viewer": "File Viewer",
	"editor":     "Editor",
	"settings":   "Settings",
	"about":      "About",
}

// showActions map launcher actions to the program type they bring up.
var showActions = map[string]string{
	"show-terminal":   "terminal",
	"show-browser":    "browser",
	"show-mail":       "mail",
	"show-fileviewer": "pdf-viewer",
	"show-editor":     "editor",
	"about":           "about",
	"preferences":     "settings",
}

// ActionHandler handles the per-program actions of one type. inst is the
// focused instance, nil for the desktop. Unhandled actions should return
// ErrUnknownAction.
type ActionHandler interface {
	HandleAction(ctx context.Context, inst *program.Instance, action string) error
}

// ActionHandlerFunc adapts a function to ActionHandler.
type ActionHandlerFunc func(ctx context.Context, inst *program.Instance, action string) error

// HandleAction calls f.
func (f ActionHandlerFunc) HandleAction(ctx context.Context, inst *program.Instance, action string) error {
	return f(ctx, inst, action)
}

// Controller is the menu bar state. It listens for focus changes from the
// registry.
type Controller struct {
	registry *program.Registry
	logger   *log.Logger

	mu        sync.Mutex
	current   string
	renders   int
	handlers  map[string]ActionHandler
	onRefresh func()
}

// New returns a controller showing the desktop menus. The caller still has
// to install it with registry.SetFocusListener.
func New(registry *program.Registry, logger *log.Logger) *Controller {
	return &Controller{
		registry: registry,
		logger:   logging.OrDiscard(logger),
		current:  program.DesktopType,
		handlers: make(map[string]ActionHandler),
	}
}

// OnFocusedTypeChanged implements program.FocusListener.
func (c *Controller) OnFocusedTypeChanged(baseType string) {
	if baseType == "" {
		baseType = program.DesktopType
	}
	c.mu.Lock()
	c.current = baseType
	c.renders++
	c.mu.Unlock()
	c.logger.Debug("menu bar updated", "type", baseType)
}

// Current returns the program type whose menus are shown.
func (c *Controller) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Renders counts focus notifications received.
func (c *Controller) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// AppName is the bold title next to the logo.
func (c *Controller) AppName() string {
	if name, ok := appNames[c.Current()]; ok {
		return name
	}
	return "korzeOS"
}

// Menus returns the dropdowns for the focused type followed by the Window
// menu.
func (c *Controller) Menus() []Menu {
	menus := append([]Menu(nil), appMenus[c.Current()]...)
	return append(menus, windowMenu)
}

// LogoMenu returns the system menu.
func LogoMenu() []Item {
	return append([]Item(nil), logoMenu...)
}

// Handle registers the action handler for a program type. The desktop
// handler is registered under program.DesktopType.
func (c *Controller) Handle(baseType string, h ActionHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[baseType] = h
}

// OnRefresh sets the function run by the refresh-ui action.
func (c *Controller) OnRefresh(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRefresh = fn
}

// Activate runs a menu action. Launchers and window actions are handled
// here; anything else goes to the handler of the focused type.
func (c *Controller) Activate(ctx context.Context, action string) error {
	if baseType, ok := showActions[action]; ok {
		return c.ShowProgram(ctx, baseType)
	}

	switch action {
	case "refresh-ui":
		c.mu.Lock()
		fn := c.onRefresh
		c.renders++
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
		return nil
	case "minimize-window":
		if inst := c.registry.FocusedInstance(); inst != nil {
			inst.Hide()
		}
		return nil
	case "maximize-window":
		if inst := c.registry.FocusedInstance(); inst != nil {
			return inst.ToggleFullscreen(ctx)
		}
		return nil
	}

	c.mu.Lock()
	current := c.current
	h, ok := c.handlers[current]
	c.mu.Unlock()
	if !ok {
		c.logger.Warn("action not implemented", "action", action, "type", current)
		return fmt.Errorf("%w: %q for %s", ErrUnknownAction, action, current)
	}

	var inst *program.Instance
	if current != program.DesktopType {
		inst = c.registry.FocusedInstance()
	}
	if err := h.HandleAction(ctx, inst, action); err != nil {
		if errors.Is(err, ErrUnknownAction) {
			c.logger.Warn("action not implemented", "action", action, "type", current)
		}
		return err
	}
	return nil
}

// ShowProgram brings up the most recently launched window of baseType, or
// launches one when none exists.
func (c *Controller) ShowProgram(ctx context.Context, baseType string) error {
	if existing := c.registry.InstancesByType(baseType); len(existing) > 0 {
		return existing[len(existing)-1].Show(ctx)
	}
	_, err := c.registry.Launch(ctx, baseType, program.Options{})
	return err
}
