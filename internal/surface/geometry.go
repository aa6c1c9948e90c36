// Package surface implements the movable, resizable, stackable window frames
// of the desktop. A Stack owns the z-order counter and the single focus flag;
// each Surface belongs to exactly one Stack.
//
// Geometry is unit-agnostic: the desktop front end works in terminal cells,
// DefaultBounds uses the pixel values of the original web desktop.
package surface

import "fmt"

// Rect is a window rectangle. X and Y are the top-left corner.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Right returns the first column to the right of r.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row below r.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// State is the display state of a surface. The states are mutually
// exclusive.
type State int

const (
	Normal State = iota
	Minimized
	Fullscreen
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Minimized:
		return "minimized"
	case Fullscreen:
		return "fullscreen"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Corner selects the resize handle of a gesture.
type Corner int

const (
	BottomRight Corner = iota
	BottomLeft
)

// Zone classifies a point relative to a surface.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneHeader
	ZoneClose
	ZoneMinimize
	ZoneMaximize
	ZoneContent
	ZoneResizeBottomRight
	ZoneResizeBottomLeft
)

// IsControl reports whether z is one of the header buttons.
func (z Zone) IsControl() bool {
	return z == ZoneClose || z == ZoneMinimize || z == ZoneMaximize
}

// Bounds describes the viewport surfaces live in and the limits applied to
// them.
type Bounds struct {
	// Viewport size.
	Width, Height int

	// TopInset is reserved for the menu bar, BottomInset for the dock.
	TopInset    int
	BottomInset int

	MinWidth  int
	MinHeight int

	// HeaderHeight is the draggable title area at the top of each surface.
	HeaderHeight int
	// ControlWidth is the width of each of the three header buttons.
	ControlWidth int
	// HandleSize is the extent of the bottom corner resize handles.
	HandleSize int
	// VisibleMargin is how much of a surface must stay on screen
	// horizontally when it is moved.
	VisibleMargin int
}

// DefaultBounds returns pixel bounds matching a 1280x800 browser viewport.
func DefaultBounds() Bounds {
	return Bounds{
		Width:         1280,
		Height:        800,
		TopInset:      30,
		MinWidth:      400,
		MinHeight:     300,
		HeaderHeight:  30,
		ControlWidth:  20,
		HandleSize:    15,
		VisibleMargin: 50,
	}
}

// usable returns the area available to fullscreen surfaces.
func (b Bounds) usable() Rect {
	h := b.Height - b.TopInset - b.BottomInset
	if h < 0 {
		h = 0
	}
	return Rect{X: 0, Y: b.TopInset, Width: b.Width, Height: h}
}

func (b Bounds) clampSize(w, h int) (int, int) {
	if w < b.MinWidth {
		w = b.MinWidth
	}
	if h < b.MinHeight {
		h = b.MinHeight
	}
	return w, h
}

// clampPosition keeps at least the visible margin of the header on screen.
func (b Bounds) clampPosition(x, y, w int) (int, int) {
	margin := b.VisibleMargin
	if margin > w {
		margin = w
	}
	minX, maxX := margin-w, b.Width-margin
	if maxX < minX {
		maxX = minX
	}
	x = clamp(x, minX, maxX)

	minY := b.TopInset
	maxY := b.Height - b.BottomInset - b.HeaderHeight
	if maxY < minY {
		maxY = minY
	}
	y = clamp(y, minY, maxY)
	return x, y
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
