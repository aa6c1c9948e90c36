package surface

import (
	"slices"
	"sync"
)

// Stack owns a set of surfaces, their z-order counter and the focus flag.
// At most one surface in a stack is flagged as focused. It is safe for
// concurrent use; a single mutex guards the stack and all of its surfaces.
type Stack struct {
	mu       sync.Mutex
	bounds   Bounds
	counter  int
	focused  *Surface
	surfaces []*Surface
}

// NewStack creates an empty stack with the given bounds.
func NewStack(b Bounds) *Stack {
	return &Stack{bounds: b}
}

// Bounds returns the current bounds.
func (st *Stack) Bounds() Bounds {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.bounds
}

// New creates a surface with geometry r, clamped to the minimum size and to
// the viewport. The surface gets a fresh z-index but is not focused.
func (st *Stack) New(id, title string, r Rect) *Surface {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := &Surface{stack: st, id: id, title: title}
	r.Width, r.Height = st.bounds.clampSize(r.Width, r.Height)
	r.X, r.Y = st.bounds.clampPosition(r.X, r.Y, r.Width)
	s.rect = r
	st.counter++
	s.z = st.counter
	st.surfaces = append(st.surfaces, s)
	return s
}

// Centered returns a w by h rectangle centered in the usable area, offset
// by a cascade step so consecutive windows do not cover each other exactly.
func (st *Stack) Centered(w, h int) Rect {
	st.mu.Lock()
	defer st.mu.Unlock()

	w, h = st.bounds.clampSize(w, h)
	area := st.bounds.usable()
	step := len(st.surfaces) % 6
	x := area.X + (area.Width-w)/2 + step*2
	y := area.Y + (area.Height-h)/2 + step
	x, y = st.bounds.clampPosition(x, y, w)
	return Rect{X: x, Y: y, Width: w, Height: h}
}

// SetViewport updates the viewport size, re-clamping every surface and
// refitting fullscreen ones.
func (st *Stack) SetViewport(width, height int) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.bounds.Width, st.bounds.Height = width, height
	for _, s := range st.surfaces {
		switch s.state {
		case Fullscreen:
			s.rect = st.bounds.usable()
		default:
			s.rect.X, s.rect.Y = st.bounds.clampPosition(s.rect.X, s.rect.Y, s.rect.Width)
		}
	}
}

// Focused returns the flagged surface, or nil.
func (st *Stack) Focused() *Surface {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.focused
}

// ClearFocus removes the focus flag from every surface.
func (st *Stack) ClearFocus() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.focused = nil
}

// Front returns the non-minimized surface with the highest z-index, or nil.
func (st *Stack) Front() *Surface {
	st.mu.Lock()
	defer st.mu.Unlock()

	var front *Surface
	for _, s := range st.surfaces {
		if s.state == Minimized {
			continue
		}
		if front == nil || s.z > front.z {
			front = s
		}
	}
	return front
}

// Ordered returns all surfaces sorted by ascending z-index, which is the
// order they must be painted in.
func (st *Stack) Ordered() []*Surface {
	st.mu.Lock()
	defer st.mu.Unlock()

	out := slices.Clone(st.surfaces)
	slices.SortStableFunc(out, func(a, b *Surface) int { return a.z - b.z })
	return out
}

// At returns the topmost visible surface containing the point, or nil.
func (st *Stack) At(x, y int) *Surface {
	st.mu.Lock()
	defer st.mu.Unlock()

	var top *Surface
	for _, s := range st.surfaces {
		if s.state == Minimized || !s.rect.Contains(x, y) {
			continue
		}
		if top == nil || s.z > top.z {
			top = s
		}
	}
	return top
}

// Len returns the number of surfaces in the stack.
func (st *Stack) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.surfaces)
}

// raise must be called with st.mu held.
func (st *Stack) raise(s *Surface) {
	st.counter++
	s.z = st.counter
	st.focused = s
}

// remove must be called with st.mu held.
func (st *Stack) remove(s *Surface) {
	st.surfaces = slices.DeleteFunc(st.surfaces, func(o *Surface) bool { return o == s })
	if st.focused == s {
		st.focused = nil
	}
}
