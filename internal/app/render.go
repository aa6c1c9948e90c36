package app

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/tuidesk/internal/config"
	"github.com/Gaurav-Gosain/tuidesk/internal/pool"
	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
	"github.com/Gaurav-Gosain/tuidesk/internal/theme"
)

// Layer z-indexes. Windows use zWindows plus their stack z-index, the
// chrome sits above every window.
const (
	zDesktop  = 0
	zIcons    = 1
	zWindows  = 10
	zMenuBar  = 1 << 24
	zDropdown = zMenuBar + 1
	zDock     = zMenuBar + 2
	zToast    = zMenuBar + 3
	zDialog   = zMenuBar + 64
)

const clockFormat = "Mon Jan 2 15:04"

// View returns the rendered view.
func (d *Desktop) View() tea.View {
	var view tea.View
	view.SetContent(lipgloss.Sprint(d.Render()))
	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	view.WindowTitle = config.OSName
	return view
}

// Render draws the whole desktop.
func (d *Desktop) Render() string {
	w, h := d.Size()
	return lipgloss.NewCanvas(w, h).Compose(lipgloss.NewCompositor(d.layers(w, h)...)).Render()
}

func (d *Desktop) layers(w, h int) []*lipgloss.Layer {
	b := d.stack.Bounds()

	bg := lipgloss.NewStyle().Background(theme.DesktopBg()).Width(w).Height(h).Render("")
	layers := []*lipgloss.Layer{lipgloss.NewLayer(bg).Z(zDesktop).ID("desktop")}

	for i, spot := range d.iconSpots() {
		layers = append(layers, lipgloss.NewLayer(renderIcon(spot, i == d.selected)).
			X(spot.X).Y(spot.Y).Z(zIcons).ID("icon-"+spot.Name))
	}

	focusedID := d.registry.FocusedID()
	for _, s := range d.stack.Ordered() {
		if s.State() == surface.Minimized || s.Destroyed() {
			continue
		}
		r := s.Rect()
		clipped, x, y := clipWindowContent(d.renderWindow(s, b, s.ID() == focusedID), r.X, r.Y, w, h)
		if clipped == "" {
			continue
		}
		layers = append(layers, lipgloss.NewLayer(clipped).X(x).Y(y).Z(zWindows+s.Z()).ID(s.ID()))
	}

	if b.TopInset > 0 {
		spots := d.menuSpots()
		layers = append(layers, lipgloss.NewLayer(d.renderMenuBar(w, spots)).Z(zMenuBar).ID("menubar"))
		if d.openMenu >= 0 && d.openMenu < len(spots) {
			spot := spots[d.openMenu]
			layers = append(layers, lipgloss.NewLayer(d.renderDropdown(spot)).
				X(spot.X).Y(b.TopInset).Z(zDropdown).ID("dropdown"))
		}
	}
	if b.BottomInset > 0 {
		layers = append(layers, lipgloss.NewLayer(d.renderDock(w, d.dockSpots())).
			Y(h-1).Z(zDock).ID("dock"))
	}

	y := b.TopInset
	for i, n := range d.Notifications() {
		box := renderNotification(n, max(w/2, 10))
		layers = append(layers, lipgloss.NewLayer(box).
			X(max(w-lipgloss.Width(box)-1, 0)).Y(y).Z(zToast+i).ID("toast-"+n.ID))
		y += lipgloss.Height(box)
	}

	if box, r, ok := d.dialogLayout(w, h); ok {
		layers = append(layers, lipgloss.NewLayer(box).X(r.X).Y(r.Y).Z(zDialog).ID("dialog"))
	}
	return layers
}

// renderWindow draws a window frame: the header with the close, minimize
// and maximize buttons and the title, the content and the bottom edge.
func (d *Desktop) renderWindow(s *surface.Surface, b surface.Bounds, focused bool) string {
	r := s.Rect()
	border := theme.BorderUnfocused()
	if focused {
		border = theme.BorderFocused()
	}
	edge := lipgloss.NewStyle().Foreground(border)

	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	sb.WriteString(edge.Render("╭"))
	used := 1
	cw := max(b.ControlWidth, 1)
	for _, c := range []color.Color{theme.ButtonClose(), theme.ButtonMinimize(), theme.ButtonMaximize()} {
		sb.WriteString(lipgloss.NewStyle().Foreground(c).Render("●"))
		sb.WriteString(strings.Repeat(" ", cw-1))
		used += cw
	}
	avail := max(r.Width-used-1, 0)
	title := ansi.Truncate(" "+s.Title()+" ", avail, "…")
	sb.WriteString(edge.Bold(focused).Render(title))
	sb.WriteString(edge.Render(strings.Repeat("─", max(avail-ansi.StringWidth(title), 0)) + "╮"))

	inner := contentRect(r, b)
	for range max(b.HeaderHeight, 1) - 1 {
		sb.WriteString("\n" + edge.Render("│") + strings.Repeat(" ", inner.Width) + edge.Render("│"))
	}

	lines := strings.Split(d.contentView(d.registry.Instance(s.ID()), inner.Width, inner.Height), "\n")
	for i := range inner.Height {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		sb.WriteString("\n")
		sb.WriteString(edge.Render("│"))
		sb.WriteString(fit(line, inner.Width))
		sb.WriteString(edge.Render("│"))
	}
	sb.WriteString("\n" + edge.Render("╰"+strings.Repeat("─", max(r.Width-2, 0))+"╯"))
	return sb.String()
}

func (d *Desktop) contentView(inst *program.Instance, width, height int) string {
	if inst == nil {
		return ""
	}
	c := inst.Content()
	if c == nil {
		return lipgloss.NewStyle().Foreground(theme.TextMuted()).Render("Loading...")
	}
	return c.View(width, height)
}

// fit truncates or pads a styled line to exactly width cells.
func fit(line string, width int) string {
	w := ansi.StringWidth(line)
	if w > width {
		line = ansi.Truncate(line, width, "")
		w = ansi.StringWidth(line)
	}
	if strings.Contains(line, "\x1b") {
		line += ansi.ResetStyle
	}
	return line + strings.Repeat(" ", max(width-w, 0))
}

func (d *Desktop) renderMenuBar(w int, spots []menuSpot) string {
	bar := lipgloss.NewStyle().Background(theme.MenuBarBg()).Foreground(theme.MenuBarFg())
	open := bar.Background(theme.MenuBarHighlight())

	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	for i, spot := range spots {
		style := bar
		if i == d.openMenu {
			style = open
		}
		sb.WriteString(style.Render(" " + spot.Title + " "))
		if i == 0 {
			sb.WriteString(bar.Bold(true).Render(" " + d.menu.AppName() + " "))
		}
	}

	left := sb.String()
	right := ""
	if d.Config().Appearance.ShowClock {
		right = d.now().Format(clockFormat) + " "
	}
	gap := w - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		right, gap = "", max(w-ansi.StringWidth(left), 0)
	}
	return ansi.Truncate(left+bar.Render(strings.Repeat(" ", gap)+right), w, "")
}

func (d *Desktop) renderDropdown(spot menuSpot) string {
	inner := dropdownRect(spot, 0).Width - 2
	base := lipgloss.NewStyle().Background(theme.MenuBarBg()).Foreground(theme.MenuBarFg())

	rows := make([]string, 0, len(spot.Items))
	for i, it := range spot.Items {
		if it.Separator {
			rows = append(rows, base.Foreground(theme.DockDimmed()).Render(strings.Repeat("─", inner)))
			continue
		}
		style := base
		if i == d.menuCursor {
			style = style.Background(theme.MenuBarHighlight())
		}
		label := " " + it.Label
		rows = append(rows, style.Render(label+strings.Repeat(" ", max(inner-ansi.StringWidth(label), 0))))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocused()).
		Render(strings.Join(rows, "\n"))
}

func (d *Desktop) renderDock(w int, spots []dockSpot) string {
	bg := lipgloss.NewStyle().Background(theme.DockBg()).Foreground(theme.DockFg())

	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)

	x := 0
	for _, spot := range spots {
		if gap := spot.X - x; gap > 0 {
			if spot.ID != "" && gap == 3 {
				sb.WriteString(bg.Foreground(theme.DockDimmed()).Render(" │ "))
			} else {
				sb.WriteString(bg.Render(strings.Repeat(" ", gap)))
			}
		}
		style := bg
		if spot.ID != "" {
			style = bg.Foreground(theme.DockHighlight())
		}
		sb.WriteString(style.Render(spot.Label))
		x = spot.X + spot.Width
	}

	graph := d.cpu.Graph() + " "
	if gap := w - x - ansi.StringWidth(graph); gap > 0 {
		sb.WriteString(bg.Render(strings.Repeat(" ", gap)))
		sb.WriteString(bg.Foreground(theme.DockAccent()).Render(graph))
	} else if w > x {
		sb.WriteString(bg.Render(strings.Repeat(" ", w-x)))
	}
	return ansi.Truncate(sb.String(), w, "")
}

func renderIcon(spot iconSpot, selected bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.DesktopFg()).
		Background(theme.DesktopBg()).
		Width(spot.Width).
		Align(lipgloss.Center)
	name := style
	if selected {
		name = name.Reverse(true)
	}
	return style.Render(iconGlyph(spot.Name)) + "\n" +
		name.Render(ansi.Truncate(spot.Name, spot.Width, "…"))
}

func renderNotification(n Notification, width int) string {
	accent := theme.NotificationInfo()
	if n.Type == "error" {
		accent = theme.NotificationError()
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Background(theme.NotificationBg()).
		Foreground(theme.NotificationFg()).
		Padding(0, 1).
		Render(ansi.Truncate(n.Message, width, "…"))
}

// dialogLayout renders the open dialog centered in the viewport.
func (d *Desktop) dialogLayout(w, h int) (string, surface.Rect, bool) {
	dlg, ok := d.Dialog()
	if !ok {
		return "", surface.Rect{}, false
	}
	width := min(48, max(w-10, 16))
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.NotificationError()).Render(dlg.Title)
	msg := ansi.Wordwrap(dlg.Message, width, "")
	button := lipgloss.NewStyle().Reverse(true).Render(" OK ")

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderFocused()).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, title, "", msg, "", button))

	bw, bh := lipgloss.Width(box), lipgloss.Height(box)
	return box, surface.Rect{X: max((w-bw)/2, 0), Y: max((h-bh)/2, 0), Width: bw, Height: bh}, true
}

// clipWindowContent clips a rendered window to the viewport and returns
// the visible part with its on-screen position.
func clipWindowContent(content string, x, y, viewportWidth, viewportHeight int) (string, int, int) {
	lines := strings.Split(content, "\n")
	windowWidth := 0
	if len(lines) > 0 {
		windowWidth = ansi.StringWidth(lines[0])
	}

	if x+windowWidth <= 0 || x >= viewportWidth || y+len(lines) <= 0 || y >= viewportHeight {
		return "", max(x, 0), max(y, 0)
	}

	clipTop, clipLeft := max(-y, 0), max(-x, 0)
	finalX, finalY := max(x, 0), max(y, 0)

	visible := lines[clipTop:]
	if n := viewportHeight - finalY; n < len(visible) {
		visible = visible[:n]
	}

	if clipLeft > 0 || finalX+windowWidth > viewportWidth {
		right := clipLeft + viewportWidth - finalX
		for i, line := range visible {
			visible[i] = ansi.Cut(line, clipLeft, right)
		}
	}
	return strings.Join(visible, "\n"), finalX, finalY
}
