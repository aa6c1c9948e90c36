package app

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/menubar"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
)

const logoGlyph = "◆"

// menuSpot is a clickable title in the menu bar.
type menuSpot struct {
	X, Width int
	Title    string
	Items    []menubar.Item
}

// menuSpots lays out the menu bar: the logo menu, the bold application
// name and the dropdowns of the focused program.
func (d *Desktop) menuSpots() []menuSpot {
	spots := []menuSpot{{X: 0, Width: 3, Title: logoGlyph, Items: menubar.LogoMenu()}}
	x := 3 + ansi.StringWidth(d.menu.AppName()) + 2
	for _, m := range d.menu.Menus() {
		w := ansi.StringWidth(m.Title) + 2
		spots = append(spots, menuSpot{X: x, Width: w, Title: m.Title, Items: m.Items})
		x += w
	}
	return spots
}

// dropdownRect is the frame of an open menu.
func dropdownRect(spot menuSpot, top int) surface.Rect {
	inner := 0
	for _, it := range spot.Items {
		inner = max(inner, ansi.StringWidth(it.Label))
	}
	return surface.Rect{X: spot.X, Y: top, Width: inner + 4, Height: len(spot.Items) + 2}
}

// dropdownItemAt returns the item index under the point, or -1.
func dropdownItemAt(spot menuSpot, top, x, y int) int {
	r := dropdownRect(spot, top)
	if !r.Contains(x, y) {
		return -1
	}
	i := y - r.Y - 1
	if i < 0 || i >= len(spot.Items) || spot.Items[i].Separator {
		return -1
	}
	return i
}

// nextItem moves from i by delta, skipping separators.
func nextItem(items []menubar.Item, i, delta int) int {
	if len(items) == 0 {
		return -1
	}
	for range items {
		i = (i + delta + len(items)) % len(items)
		if !items[i].Separator {
			return i
		}
	}
	return -1
}

// dockSpot is a launcher or minimized window in the dock.
type dockSpot struct {
	X, Width int
	Label    string
	// Action is a menu action for launchers; ID names the instance of a
	// minimized window.
	Action string
	ID     string
}

var launchers = []struct{ label, action string }{
	{"Terminal", "show-terminal"},
	{"Browser", "show-browser"},
	{"Mail", "show-mail"},
	{"Files", "show-fileviewer"},
	{"Editor", "show-editor"},
	{"Settings", "preferences"},
}

const dockTitleWidth = 16

// dockSpots lays out the dock row: launchers, a divider, then one entry
// per minimized window.
func (d *Desktop) dockSpots() []dockSpot {
	var spots []dockSpot
	x := 1
	for _, l := range launchers {
		label := " " + l.label + " "
		spots = append(spots, dockSpot{X: x, Width: len(label), Label: label, Action: l.action})
		x += len(label)
	}
	x += 3
	for _, inst := range d.minimized() {
		label := " ▾ " + ansi.Truncate(inst.Title(), dockTitleWidth, "…") + " "
		w := ansi.StringWidth(label)
		spots = append(spots, dockSpot{X: x, Width: w, Label: label, ID: inst.ID()})
		x += w
	}
	return spots
}

// minimized returns the instances whose windows are minimized, in launch
// order.
func (d *Desktop) minimized() []*program.Instance {
	var out []*program.Instance
	for _, inst := range d.registry.Instances() {
		if s := inst.Surface(); s != nil && s.State() == surface.Minimized {
			out = append(out, inst)
		}
	}
	return out
}

func dockSpotAt(spots []dockSpot, x int) (dockSpot, bool) {
	for _, s := range spots {
		if x >= s.X && x < s.X+s.Width {
			return s, true
		}
	}
	return dockSpot{}, false
}

// iconSpot is a desktop file icon.
type iconSpot struct {
	surface.Rect
	Name string
}

const (
	iconWidth  = 12
	iconHeight = 3
)

// iconSpots places the file icons in columns down the left edge of the
// usable area.
func (d *Desktop) iconSpots() []iconSpot {
	cfg := d.Config()
	if !cfg.Appearance.DesktopIcons {
		return nil
	}
	b := d.stack.Bounds()
	top := b.TopInset + 1
	bottom := b.Height - b.BottomInset
	x, y := 2, top
	spots := make([]iconSpot, 0, len(d.files))
	for _, name := range d.files {
		if y+iconHeight > bottom && y != top {
			x += iconWidth + 2
			y = top
		}
		spots = append(spots, iconSpot{
			Rect: surface.Rect{X: x, Y: y, Width: iconWidth, Height: iconHeight - 1},
			Name: name,
		})
		y += iconHeight
	}
	return spots
}

func iconAt(spots []iconSpot, x, y int) int {
	for i, s := range spots {
		if s.Contains(x, y) {
			return i
		}
	}
	return -1
}

func iconGlyph(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "▤"
	case strings.HasSuffix(lower, ".txt"), strings.HasSuffix(lower, ".md"):
		return "≡"
	}
	return "▢"
}

// contentRect is the area inside a window frame.
func contentRect(r surface.Rect, b surface.Bounds) surface.Rect {
	header := max(b.HeaderHeight, 1)
	return surface.Rect{
		X:      r.X + 1,
		Y:      r.Y + header,
		Width:  max(r.Width-2, 0),
		Height: max(r.Height-header-1, 0),
	}
}
