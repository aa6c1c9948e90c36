package app

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/menubar"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/programs"
	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// TickerMsg drives periodic redraws, which pick up asynchronous program
// initialization and shell output.
type TickerMsg time.Time

// ConfigReloadMsg carries a configuration file changed on disk.
type ConfigReloadMsg struct {
	Config *config.Config
}

// TickCmd schedules the next tick.
func TickCmd() tea.Cmd {
	return tea.Tick(config.TickInterval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Init starts the ticker and, if enabled, the config watcher.
func (d *Desktop) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd()}
	if d.watch {
		err := config.Watch(d.ctx, d.configPath, d.logger, func(cfg *config.Config) {
			select {
			case d.reloads <- cfg:
			case <-d.ctx.Done():
			}
		})
		if err != nil {
			d.logger.Warn("live config reload disabled", "err", err)
		} else {
			cmds = append(cmds, d.waitReload())
		}
	}
	return tea.Batch(cmds...)
}

func (d *Desktop) waitReload() tea.Cmd {
	return func() tea.Msg {
		select {
		case cfg := <-d.reloads:
			return ConfigReloadMsg{Config: cfg}
		case <-d.ctx.Done():
			return nil
		}
	}
}

// Update handles incoming events.
func (d *Desktop) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.resize(msg.Width, msg.Height)

	case TickerMsg:
		d.cpu.Update(time.Time(msg))
		d.CleanupNotifications()
		d.scanFiles(false)
		return d, TickCmd()

	case ConfigReloadMsg:
		d.reload(msg.Config)
		return d, d.waitReload()

	case tea.KeyPressMsg:
		return d, d.handleKey(msg)

	case tea.PasteMsg:
		d.paste(msg.Content)

	case tea.MouseClickMsg:
		d.handleClick(tea.Mouse(msg))

	case tea.MouseMotionMsg:
		if d.gesture != nil {
			d.gesture.GestureMove(msg.X, msg.Y)
		}

	case tea.MouseReleaseMsg:
		if d.gesture != nil {
			d.gesture.EndGesture()
			d.gesture = nil
		}

	case tea.MouseWheelMsg:
		d.handleWheel(tea.Mouse(msg))
	}
	return d, nil
}

func (d *Desktop) reload(cfg *config.Config) {
	if !theme.Set(cfg.Appearance.Theme) {
		d.logger.Warn("unknown theme in config", "theme", cfg.Appearance.Theme)
	}
	d.applyConfig(*cfg)
	d.Notify("Configuration reloaded")
}

func (d *Desktop) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if _, ok := d.Dialog(); ok {
		switch key {
		case "enter", "esc", "space":
			d.DismissDialog()
		}
		return nil
	}
	if d.openMenu >= 0 {
		d.handleMenuKey(key)
		return nil
	}

	switch d.keybinds().GetAction(key) {
	case "quit":
		return tea.Quit
	case "new_terminal":
		d.launch(programs.TypeTerminal, program.Options{})
	case "close_window":
		if inst := d.registry.FocusedInstance(); inst != nil {
			inst.Close()
		}
	case "minimize_window":
		if inst := d.registry.FocusedInstance(); inst != nil {
			inst.Hide()
		}
	case "toggle_fullscreen":
		if inst := d.registry.FocusedInstance(); inst != nil {
			_ = inst.ToggleFullscreen(d.ctx)
		}
	case "next_window":
		d.cycle(1)
	case "prev_window":
		d.cycle(-1)
	case "restore_all":
		for _, inst := range d.minimized() {
			_ = inst.Show(d.ctx)
		}
	case "open_menu":
		d.openMenuAt(min(1, len(d.menuSpots())-1))
	case "focus_desktop":
		d.registry.SetFocusedInstance("")
	default:
		d.forwardKey(key, msg.Text)
	}
	return nil
}

// forwardKey delivers a key to the focused window, or drives the icon
// selection when the desktop has focus.
func (d *Desktop) forwardKey(key, text string) {
	inst, content := d.focused()
	if inst == nil {
		d.desktopKey(key)
		return
	}
	if h, ok := content.(program.KeyHandler); ok {
		h.HandleKey(d.ctx, program.Key{Name: key, Text: text})
	}
}

func (d *Desktop) desktopKey(key string) {
	if len(d.files) == 0 {
		return
	}
	switch key {
	case "up", "left":
		d.selected = max(d.selected-1, 0)
	case "down", "right", "tab":
		d.selected = min(d.selected+1, len(d.files)-1)
	case "enter":
		if d.selected >= 0 {
			d.openFile(d.files[d.selected])
		}
	case "esc":
		d.selected = -1
	}
}

func (d *Desktop) handleMenuKey(key string) {
	spots := d.menuSpots()
	if d.openMenu >= len(spots) {
		d.closeMenu()
		return
	}
	items := spots[d.openMenu].Items
	switch key {
	case "esc", "f10":
		d.closeMenu()
	case "up":
		d.menuCursor = nextItem(items, d.menuCursor, -1)
	case "down", "tab":
		d.menuCursor = nextItem(items, d.menuCursor, 1)
	case "left":
		d.openMenuAt((d.openMenu - 1 + len(spots)) % len(spots))
	case "right":
		d.openMenuAt((d.openMenu + 1) % len(spots))
	case "enter", "space":
		if d.menuCursor >= 0 && d.menuCursor < len(items) {
			action := items[d.menuCursor].Action
			d.closeMenu()
			d.runAction(action)
		}
	}
}

func (d *Desktop) openMenuAt(i int) {
	spots := d.menuSpots()
	if i < 0 || i >= len(spots) {
		return
	}
	d.openMenu = i
	d.menuCursor = nextItem(spots[i].Items, -1, 1)
}

func (d *Desktop) closeMenu() {
	d.openMenu = -1
	d.menuCursor = -1
}

// OpenMenu returns the index of the open menu bar dropdown, or -1.
func (d *Desktop) OpenMenu() int { return d.openMenu }

// runAction activates a menu action on behalf of the focused program.
func (d *Desktop) runAction(action string) {
	err := d.menu.Activate(d.ctx, action)
	switch {
	case err == nil:
	case errors.Is(err, menubar.ErrUnknownAction):
		d.ShowNotification("Not available: "+action, "error", config.NotificationDuration)
	default:
		d.logger.Warn("menu action failed", "action", action, "err", err)
	}
	d.scanFiles(true)
}

func (d *Desktop) launch(baseType string, opts program.Options) {
	if _, err := d.registry.Launch(d.ctx, baseType, opts); err != nil {
		d.ShowNotification("Could not start "+baseType+": "+err.Error(), "error", config.NotificationDuration)
	}
}

func (d *Desktop) openFile(name string) {
	if _, err := programs.OpenFile(d.ctx, d.registry, name); err != nil {
		d.ShowNotification("Could not open "+name+": "+err.Error(), "error", config.NotificationDuration)
	}
}

// cycle moves focus through the visible windows in launch order.
func (d *Desktop) cycle(delta int) {
	var visible []*program.Instance
	for _, inst := range d.registry.Instances() {
		if s := inst.Surface(); s != nil && s.State() != surface.Minimized {
			visible = append(visible, inst)
		}
	}
	if len(visible) == 0 {
		return
	}
	cur := -1
	id := d.registry.FocusedID()
	for i, inst := range visible {
		if inst.ID() == id {
			cur = i
		}
	}
	next := 0
	switch {
	case cur >= 0:
		next = (cur + delta + len(visible)) % len(visible)
	case delta < 0:
		next = len(visible) - 1
	}
	d.focusWindow(visible[next])
}

// focusWindow focuses inst and makes sure its window is frontmost. Focus
// alone does not raise a window that is already focused, which happens
// after it leaves fullscreen behind another window.
func (d *Desktop) focusWindow(inst *program.Instance) {
	d.registry.SetFocusedInstance(inst.ID())
	if s := inst.Surface(); s != nil && d.stack.Front() != s {
		s.BringToFront()
	}
}

// paste puts text on the clipboard and hands it to the focused window,
// through its paste action when it has one.
func (d *Desktop) paste(text string) {
	d.clipboard.Copy(text)
	inst, content := d.focused()
	if inst == nil {
		return
	}
	if a, ok := content.(programs.Actor); ok {
		if err := a.Action(d.ctx, "paste"); err == nil {
			return
		}
	}
	if h, ok := content.(program.KeyHandler); ok {
		h.HandleKey(d.ctx, program.Key{Name: "paste", Text: text})
	}
}

func (d *Desktop) handleClick(m tea.Mouse) {
	if m.Button != tea.MouseLeft {
		return
	}
	x, y := m.X, m.Y
	w, h := d.Size()

	if _, r, ok := d.dialogLayout(w, h); ok {
		if r.Contains(x, y) && y == r.Bottom()-3 {
			d.DismissDialog()
		}
		return
	}

	b := d.stack.Bounds()
	if d.openMenu >= 0 {
		spots := d.menuSpots()
		if d.openMenu < len(spots) {
			spot := spots[d.openMenu]
			if i := dropdownItemAt(spot, b.TopInset, x, y); i >= 0 {
				action := spot.Items[i].Action
				d.closeMenu()
				d.runAction(action)
				return
			}
			if dropdownRect(spot, b.TopInset).Contains(x, y) {
				return
			}
		}
	}

	if y < b.TopInset {
		d.clickMenuBar(x)
		return
	}
	d.closeMenu()

	if b.BottomInset > 0 && y >= h-b.BottomInset {
		d.clickDock(x)
		return
	}
	if s := d.stack.At(x, y); s != nil {
		d.clickWindow(s, x, y)
		return
	}
	d.clickDesktop(x, y)
}

func (d *Desktop) clickMenuBar(x int) {
	for i, spot := range d.menuSpots() {
		if x >= spot.X && x < spot.X+spot.Width {
			if d.openMenu == i {
				d.closeMenu()
			} else {
				d.openMenuAt(i)
			}
			return
		}
	}
	d.closeMenu()
}

func (d *Desktop) clickDock(x int) {
	spot, ok := dockSpotAt(d.dockSpots(), x)
	if !ok {
		return
	}
	if spot.ID == "" {
		d.runAction(spot.Action)
		return
	}
	if inst := d.registry.Instance(spot.ID); inst != nil {
		_ = inst.Show(d.ctx)
	}
}

func (d *Desktop) clickWindow(s *surface.Surface, x, y int) {
	id := s.ID()
	inst := d.registry.Instance(id)
	if inst == nil {
		return
	}

	zone := s.HitTest(x, y)
	switch zone {
	case surface.ZoneClose:
		inst.Close()
		return
	case surface.ZoneMinimize:
		inst.Hide()
		return
	}

	d.focusWindow(inst)
	switch zone {
	case surface.ZoneMaximize:
		s.ToggleFullscreen()
	case surface.ZoneHeader:
		if d.doubleClick("window:" + id) {
			s.ToggleFullscreen()
			return
		}
		if s.BeginDrag(x, y) {
			d.gesture = s
		}
	case surface.ZoneResizeBottomRight:
		if s.BeginResize(surface.BottomRight, x, y) {
			d.gesture = s
		}
	case surface.ZoneResizeBottomLeft:
		if s.BeginResize(surface.BottomLeft, x, y) {
			d.gesture = s
		}
	}
}

// clickDesktop focuses the desktop and selects the icon under the
// pointer. Double-clicking an icon opens the file.
func (d *Desktop) clickDesktop(x, y int) {
	d.registry.SetFocusedInstance("")
	i := iconAt(d.iconSpots(), x, y)
	d.selected = i
	if i < 0 {
		d.lastClick = click{}
		return
	}
	name := d.files[i]
	if d.doubleClick("icon:" + name) {
		d.openFile(name)
	}
}

func (d *Desktop) doubleClick(target string) bool {
	now := d.now()
	double := d.lastClick.target == target && now.Sub(d.lastClick.at) <= doubleClickInterval
	if double {
		d.lastClick = click{}
	} else {
		d.lastClick = click{target: target, at: now}
	}
	return double
}

// handleWheel scrolls the window under the pointer.
func (d *Desktop) handleWheel(m tea.Mouse) {
	s := d.stack.At(m.X, m.Y)
	if s == nil {
		return
	}
	inst := d.registry.Instance(s.ID())
	if inst == nil {
		return
	}
	h, ok := inst.Content().(program.KeyHandler)
	if !ok {
		return
	}
	switch m.Button {
	case tea.MouseWheelUp:
		h.HandleKey(d.ctx, program.Key{Name: "pgup"})
	case tea.MouseWheelDown:
		h.HandleKey(d.ctx, program.Key{Name: "pgdown"})
	}
}
