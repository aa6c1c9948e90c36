package surface

import (
	"sync"
	"testing"
)

func newTestStack() *Stack {
	return NewStack(DefaultBounds())
}

func TestBringToFrontIsStrictlyHighest(t *testing.T) {
	st := newTestStack()
	a := st.New("a", "A", Rect{X: 10, Y: 40, Width: 500, Height: 400})
	b := st.New("b", "B", Rect{X: 20, Y: 50, Width: 500, Height: 400})
	c := st.New("c", "C", Rect{X: 30, Y: 60, Width: 500, Height: 400})

	for _, s := range []*Surface{b, a, c, a, b} {
		s.BringToFront()
		for _, other := range []*Surface{a, b, c} {
			if other != s && other.Z() >= s.Z() {
				t.Fatalf("after raising %s: %s has z %d >= %d", s.ID(), other.ID(), other.Z(), s.Z())
			}
		}
		if st.Front() != s {
			t.Fatalf("Front() = %s, want %s", st.Front().ID(), s.ID())
		}
		if !s.Focused() || st.Focused() != s {
			t.Fatalf("%s should carry the focus flag", s.ID())
		}
	}
}

func TestOnlyOneSurfaceFocused(t *testing.T) {
	st := newTestStack()
	a := st.New("a", "A", Rect{Width: 500, Height: 400})
	b := st.New("b", "B", Rect{Width: 500, Height: 400})

	a.BringToFront()
	b.BringToFront()
	if a.Focused() {
		t.Error("a should lose the focus flag when b is raised")
	}
	st.ClearFocus()
	if a.Focused() || b.Focused() {
		t.Error("ClearFocus left a flagged surface")
	}
}

func TestResizeClampsToMinimum(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 600, Height: 400})

	s.ResizeTo(350, 500)
	if r := s.Rect(); r.Width != 400 || r.Height != 500 {
		t.Errorf("ResizeTo(350, 500) = %dx%d, want 400x500", r.Width, r.Height)
	}

	s.ResizeTo(50, 10)
	if r := s.Rect(); r.Width != 400 || r.Height != 300 {
		t.Errorf("ResizeTo(50, 10) = %dx%d, want 400x300", r.Width, r.Height)
	}
}

func TestNewClampsSize(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 10, Height: 10})
	if r := s.Rect(); r.Width != 400 || r.Height != 300 {
		t.Errorf("new surface = %dx%d, want 400x300", r.Width, r.Height)
	}
}

func TestMoveKeepsHeaderVisible(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})

	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
	}{
		{"inside", 200, 200, 200, 200},
		{"above menu bar", 200, 0, 200, 30},
		{"far left", -2000, 200, -450, 200},
		{"far right", 5000, 200, 1230, 200},
		{"below bottom", 200, 5000, 200, 770},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s.MoveTo(tc.x, tc.y)
			r := s.Rect()
			if r.X != tc.wantX || r.Y != tc.wantY {
				t.Errorf("MoveTo(%d, %d) = (%d, %d), want (%d, %d)", tc.x, tc.y, r.X, r.Y, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestFullscreenSavesAndRestores(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})
	other := st.New("o", "O", Rect{X: 300, Y: 300, Width: 500, Height: 400})
	other.BringToFront()

	before, z := s.Rect(), s.Z()

	s.ToggleFullscreen()
	if s.State() != Fullscreen {
		t.Fatalf("state = %v, want fullscreen", s.State())
	}
	want := Rect{X: 0, Y: 30, Width: 1280, Height: 770}
	if got := s.Rect(); got != want {
		t.Errorf("fullscreen rect = %v, want %v", got, want)
	}
	if st.Front() != s {
		t.Error("fullscreen surface should be in front")
	}

	s.MoveTo(5, 5)
	s.ResizeTo(10, 10)
	if s.BeginDrag(10, 35) {
		t.Error("drag should be refused in fullscreen")
	}
	if s.BeginResize(BottomRight, 1270, 790) {
		t.Error("resize should be refused in fullscreen")
	}
	if got := s.Rect(); got != want {
		t.Errorf("fullscreen surface moved to %v", got)
	}

	s.ToggleFullscreen()
	if s.State() != Normal {
		t.Fatalf("state = %v, want normal", s.State())
	}
	if s.Rect() != before || s.Z() != z {
		t.Errorf("restored %v z=%d, want %v z=%d", s.Rect(), s.Z(), before, z)
	}
}

func TestMinimizeAndShow(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})
	s.BringToFront()
	geom := s.Rect()

	s.Minimize()
	if s.State() != Minimized {
		t.Fatalf("state = %v, want minimized", s.State())
	}
	if s.Focused() {
		t.Error("minimized surface kept the focus flag")
	}
	if st.Front() != nil {
		t.Error("Front() should skip minimized surfaces")
	}
	if s.Rect() != geom {
		t.Error("minimize changed geometry")
	}
	if st.At(200, 200) != nil {
		t.Error("minimized surface should not be hit")
	}

	zBefore := s.Z()
	s.Show()
	if s.State() != Normal || !s.Focused() || s.Z() <= zBefore {
		t.Errorf("after Show: state=%v focused=%v z=%d", s.State(), s.Focused(), s.Z())
	}
}

func TestMinimizeFromFullscreenRestoresFullscreen(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})
	s.ToggleFullscreen()
	s.Minimize()
	s.Show()
	if s.State() != Fullscreen {
		t.Fatalf("state = %v, want fullscreen", s.State())
	}
	s.ToggleFullscreen()
	if got := s.Rect(); got.Width != 500 || got.X != 100 {
		t.Errorf("exit fullscreen restored %v", got)
	}
}

func TestHitTest(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})

	tests := []struct {
		name string
		x, y int
		want Zone
	}{
		{"outside", 50, 50, ZoneNone},
		{"close", 101, 110, ZoneClose},
		{"minimize", 125, 110, ZoneMinimize},
		{"maximize", 145, 110, ZoneMaximize},
		{"header", 300, 110, ZoneHeader},
		{"content", 300, 300, ZoneContent},
		{"bottom right", 595, 495, ZoneResizeBottomRight},
		{"bottom left", 102, 495, ZoneResizeBottomLeft},
		{"bottom middle", 300, 495, ZoneContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.HitTest(tc.x, tc.y); got != tc.want {
				t.Errorf("HitTest(%d, %d) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestDragGesture(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})

	if s.BeginDrag(300, 300) {
		t.Fatal("drag must start on the header")
	}
	if s.BeginDrag(110, 110) {
		t.Fatal("drag must not start on a control")
	}
	if !s.BeginDrag(300, 110) {
		t.Fatal("drag on header refused")
	}
	s.GestureMove(350, 160)
	if r := s.Rect(); r.X != 150 || r.Y != 150 {
		t.Errorf("after drag: (%d, %d), want (150, 150)", r.X, r.Y)
	}
	s.GestureMove(350, -100)
	if r := s.Rect(); r.Y != 30 {
		t.Errorf("drag above menu bar: y = %d, want 30", r.Y)
	}
	s.EndGesture()
	if s.Gesturing() {
		t.Error("gesture still active after EndGesture")
	}
	s.GestureMove(0, 0)
	if r := s.Rect(); r.X != 150 {
		t.Error("motion after release should be ignored")
	}
}

func TestResizeGestureBottomRight(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})

	if !s.BeginResize(BottomRight, 600, 500) {
		t.Fatal("resize refused")
	}
	s.GestureMove(700, 550)
	if r := s.Rect(); r.Width != 600 || r.Height != 450 || r.X != 100 {
		t.Errorf("grow = %v", r)
	}
	s.GestureMove(100, 100)
	if r := s.Rect(); r.Width != 400 || r.Height != 300 {
		t.Errorf("shrink past minimum = %v, want 400x300", r)
	}
	s.EndGesture()
}

func TestResizeGestureBottomLeftKeepsRightEdge(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})
	right := s.Rect().Right()

	if !s.BeginResize(BottomLeft, 100, 500) {
		t.Fatal("resize refused")
	}
	s.GestureMove(50, 520)
	if r := s.Rect(); r.X != 50 || r.Width != 550 || r.Height != 420 {
		t.Errorf("grow left = %v", r)
	}
	s.GestureMove(400, 520)
	r := s.Rect()
	if r.Width != 400 {
		t.Errorf("width = %d, want 400", r.Width)
	}
	if r.Right() != right {
		t.Errorf("right edge moved from %d to %d", right, r.Right())
	}
}

func TestSetViewportRefitsFullscreen(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{X: 100, Y: 100, Width: 500, Height: 400})
	far := st.New("f", "F", Rect{X: 1200, Y: 700, Width: 500, Height: 400})
	s.ToggleFullscreen()

	st.SetViewport(800, 600)
	if got := s.Rect(); got != (Rect{X: 0, Y: 30, Width: 800, Height: 570}) {
		t.Errorf("fullscreen after viewport change = %v", got)
	}
	if r := far.Rect(); r.X > 800-50 || r.Y > 600-30 {
		t.Errorf("surface left off screen at %v", r)
	}
}

func TestDestroyRemovesFromStack(t *testing.T) {
	st := newTestStack()
	s := st.New("w", "W", Rect{Width: 500, Height: 400})
	s.BringToFront()
	s.Destroy()

	if st.Len() != 0 {
		t.Errorf("Len() = %d after destroy", st.Len())
	}
	if st.Focused() != nil {
		t.Error("destroyed surface kept focus")
	}
	if !s.Destroyed() {
		t.Error("Destroyed() = false")
	}
	s.BringToFront()
	if st.Focused() != nil {
		t.Error("destroyed surface should not be raised")
	}
}

func TestOrderedAndAt(t *testing.T) {
	st := newTestStack()
	a := st.New("a", "A", Rect{X: 100, Y: 100, Width: 500, Height: 400})
	b := st.New("b", "B", Rect{X: 200, Y: 150, Width: 500, Height: 400})
	a.BringToFront()

	ordered := st.Ordered()
	if len(ordered) != 2 || ordered[0] != b || ordered[1] != a {
		t.Errorf("Ordered() wrong order")
	}
	if st.At(300, 300) != a {
		t.Error("At() should return the topmost surface")
	}
	if st.At(650, 500) != b {
		t.Error("At() should find b where only b is")
	}
}

func TestConcurrentRaises(t *testing.T) {
	st := newTestStack()
	surfaces := make([]*Surface, 8)
	for i := range surfaces {
		surfaces[i] = st.New(string(rune('a'+i)), "", Rect{Width: 500, Height: 400})
	}

	var wg sync.WaitGroup
	for _, s := range surfaces {
		wg.Add(1)
		go func(s *Surface) {
			defer wg.Done()
			for range 100 {
				s.BringToFront()
			}
		}(s)
	}
	wg.Wait()

	seen := map[int]bool{}
	for _, s := range surfaces {
		if seen[s.Z()] {
			t.Fatalf("duplicate z-index %d", s.Z())
		}
		seen[s.Z()] = true
	}
}
