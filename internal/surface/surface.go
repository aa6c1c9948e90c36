package surface

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gestureResize
)

type gesture struct {
	kind      gestureKind
	corner    Corner
	startX    int
	startY    int
	startRect Rect
	offsetX   int
	offsetY   int
}

type savedGeometry struct {
	rect Rect
	z    int
}

// Surface is one window frame.
type Surface struct {
	stack *Stack

	id    string
	title string
	rect  Rect
	z     int
	state State

	saved             *savedGeometry
	restoreFullscreen bool
	gesture           gesture
	destroyed         bool
}

// ID returns the identifier the surface was created with.
func (s *Surface) ID() string { return s.id }

// Title returns the header text.
func (s *Surface) Title() string {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.title
}

// SetTitle replaces the header text.
func (s *Surface) SetTitle(title string) {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	s.title = title
}

// Rect returns the current geometry.
func (s *Surface) Rect() Rect {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.rect
}

// Z returns the current z-index.
func (s *Surface) Z() int {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.z
}

// State returns the display state.
func (s *Surface) State() State {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.state
}

// Focused reports whether s carries the stack's focus flag.
func (s *Surface) Focused() bool {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.stack.focused == s
}

// Destroyed reports whether Destroy has been called.
func (s *Surface) Destroyed() bool {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.destroyed
}

// MoveTo moves the top-left corner, keeping part of the header visible.
// It has no effect in fullscreen.
func (s *Surface) MoveTo(x, y int) {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	s.moveLocked(x, y)
}

func (s *Surface) moveLocked(x, y int) {
	if s.state == Fullscreen || s.destroyed {
		return
	}
	s.rect.X, s.rect.Y = s.stack.bounds.clampPosition(x, y, s.rect.Width)
}

// ResizeTo changes the size, clamped to the minimum. It has no effect in
// fullscreen.
func (s *Surface) ResizeTo(w, h int) {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.state == Fullscreen || s.destroyed {
		return
	}
	s.rect.Width, s.rect.Height = s.stack.bounds.clampSize(w, h)
}

// BringToFront gives s the highest z-index in its stack and the focus flag.
func (s *Surface) BringToFront() {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.destroyed {
		return
	}
	s.stack.raise(s)
}

// Minimize hides the surface, keeping its geometry. A minimized surface
// never holds the focus flag.
func (s *Surface) Minimize() {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.state == Minimized || s.destroyed {
		return
	}
	s.restoreFullscreen = s.state == Fullscreen
	s.state = Minimized
	s.gesture = gesture{}
	if s.stack.focused == s {
		s.stack.focused = nil
	}
}

// Show clears the minimized state and brings the surface to the front.
// A surface minimized from fullscreen returns to fullscreen.
func (s *Surface) Show() {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.destroyed {
		return
	}
	if s.state == Minimized {
		s.state = Normal
		if s.restoreFullscreen {
			s.state = Fullscreen
			s.rect = s.stack.bounds.usable()
		}
		s.restoreFullscreen = false
	}
	s.stack.raise(s)
}

// ToggleFullscreen enters fullscreen, filling the viewport below the top
// inset, or restores the geometry and z-index saved on entry.
func (s *Surface) ToggleFullscreen() {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.destroyed {
		return
	}

	switch s.state {
	case Fullscreen:
		if s.saved != nil {
			s.rect = s.saved.rect
			s.z = s.saved.z
			s.saved = nil
		}
		s.state = Normal
	case Normal:
		s.saved = &savedGeometry{rect: s.rect, z: s.z}
		s.gesture = gesture{}
		s.state = Fullscreen
		s.rect = s.stack.bounds.usable()
		s.stack.raise(s)
	case Minimized:
		// Restore first; the next toggle acts on the visible window.
	}
}

// Destroy removes the surface from its stack. Further operations are
// ignored.
func (s *Surface) Destroy() {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.gesture = gesture{}
	s.stack.remove(s)
}

// HitTest classifies a point in viewport coordinates.
func (s *Surface) HitTest(x, y int) Zone {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()

	if s.destroyed || s.state == Minimized || !s.rect.Contains(x, y) {
		return ZoneNone
	}
	b := s.stack.bounds
	r := s.rect

	if y < r.Y+b.HeaderHeight {
		if b.ControlWidth > 0 {
			rel := x - (r.X + 1)
			if rel >= 0 && rel < 3*b.ControlWidth {
				return []Zone{ZoneClose, ZoneMinimize, ZoneMaximize}[rel/b.ControlWidth]
			}
		}
		return ZoneHeader
	}

	if y >= r.Bottom()-b.HandleSize {
		if x >= r.Right()-b.HandleSize {
			return ZoneResizeBottomRight
		}
		if x < r.X+b.HandleSize {
			return ZoneResizeBottomLeft
		}
	}
	return ZoneContent
}

// BeginDrag starts moving the surface with the pointer at (px, py). It is
// refused in fullscreen and when the point is not on the header.
func (s *Surface) BeginDrag(px, py int) bool {
	if s.HitTest(px, py) != ZoneHeader {
		return false
	}
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.state == Fullscreen {
		return false
	}
	s.gesture = gesture{
		kind:      gestureDrag,
		startX:    px,
		startY:    py,
		startRect: s.rect,
		offsetX:   px - s.rect.X,
		offsetY:   py - s.rect.Y,
	}
	return true
}

// BeginResize starts resizing from the given corner. It is refused in
// fullscreen and while minimized.
func (s *Surface) BeginResize(corner Corner, px, py int) bool {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	if s.destroyed || s.state != Normal {
		return false
	}
	s.gesture = gesture{
		kind:      gestureResize,
		corner:    corner,
		startX:    px,
		startY:    py,
		startRect: s.rect,
	}
	return true
}

// Gesturing reports whether a drag or resize is in progress.
func (s *Surface) Gesturing() bool {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	return s.gesture.kind != gestureNone
}

// GestureMove applies pointer motion to the gesture in progress.
func (s *Surface) GestureMove(px, py int) {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()

	g := s.gesture
	switch g.kind {
	case gestureDrag:
		s.moveLocked(px-g.offsetX, py-g.offsetY)
	case gestureResize:
		s.resizeFromCorner(g, px, py)
	}
}

// EndGesture finishes a drag or resize, committing the current geometry.
func (s *Surface) EndGesture() {
	s.stack.mu.Lock()
	defer s.stack.mu.Unlock()
	s.gesture = gesture{}
}

func (s *Surface) resizeFromCorner(g gesture, px, py int) {
	b := s.stack.bounds
	start := g.startRect
	dx, dy := px-g.startX, py-g.startY

	h := start.Height + dy
	if h < b.MinHeight {
		h = b.MinHeight
	}

	switch g.corner {
	case BottomRight:
		w := start.Width + dx
		if w < b.MinWidth {
			w = b.MinWidth
		}
		s.rect.Width, s.rect.Height = w, h
	case BottomLeft:
		w := start.Width - dx
		x := start.X + dx
		if w < b.MinWidth {
			w = b.MinWidth
			x = start.Right() - b.MinWidth
		}
		s.rect.X, s.rect.Width, s.rect.Height = x, w, h
	}
}
