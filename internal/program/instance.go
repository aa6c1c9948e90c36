package program

import (
	"context"
	"sync"

	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
)

// InitState tracks instance initialization.
type InitState int

const (
	Uninitialized InitState = iota
	Initializing
	Ready
	Failed
)

func (s InitState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Instance is one running copy of a program class. It owns exactly one
// surface once initialized.
type Instance struct {
	id       string
	baseType string
	class    Class
	opts     Options
	registry *Registry

	mu      sync.Mutex
	state   InitState
	err     error
	done    chan struct{}
	closed  bool
	title   string
	surface *surface.Surface
	content Content
}

func newInstance(r *Registry, id, baseType string, class Class, opts Options) *Instance {
	return &Instance{
		id:       id,
		baseType: baseType,
		class:    class,
		opts:     opts,
		registry: r,
		title:    class.Title,
		done:     make(chan struct{}),
	}
}

// ID returns the instance id, "<base>-<millis>-<hex>".
func (i *Instance) ID() string { return i.id }

// BaseType returns the registered type the instance was launched from.
func (i *Instance) BaseType() string { return i.baseType }

// Registry returns the registry the instance belongs to.
func (i *Instance) Registry() *Registry { return i.registry }

// State returns the initialization state.
func (i *Instance) State() InitState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Surface returns the window surface, or nil before initialization
// completes.
func (i *Instance) Surface() *surface.Surface {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.surface
}

// Content returns the program content, or nil before initialization
// completes.
func (i *Instance) Content() Content {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.content
}

// Title returns the current window title.
func (i *Instance) Title() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.title
}

// SetTitle changes the window title.
func (i *Instance) SetTitle(title string) {
	i.mu.Lock()
	i.title = title
	s := i.surface
	i.mu.Unlock()
	if s != nil {
		s.SetTitle(title)
	}
}

// Init builds the instance content and surface. It is idempotent: callers
// arriving while initialization is running wait for the same outcome.
func (i *Instance) Init(ctx context.Context) error {
	i.mu.Lock()
	start := i.state == Uninitialized
	if start {
		i.state = Initializing
	}
	i.mu.Unlock()

	if start {
		i.initialize(ctx)
	}
	return i.Wait(ctx)
}

// Wait blocks until initialization settles and returns its error.
func (i *Instance) Wait(ctx context.Context) error {
	select {
	case <-i.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

func (i *Instance) initialize(ctx context.Context) {
	content, err := i.class.New(ctx, i, i.opts)

	var discard Content
	i.mu.Lock()
	switch {
	case err != nil:
		i.state = Failed
		i.err = &InitError{InstanceID: i.id, Err: err}
	case i.closed:
		// Closed while the factory ran: the surface is never created.
		i.state = Failed
		i.err = &InitError{InstanceID: i.id, Err: ErrClosed}
		discard = content
	default:
		stack := i.registry.stack
		geom := stack.Centered(i.class.Width, i.class.Height)
		i.surface = stack.New(i.id, i.title, geom)
		i.content = content
		i.state = Ready
	}
	i.mu.Unlock()
	close(i.done)

	if d, ok := discard.(Destroyer); ok {
		d.Destroy()
	}
}

// Show waits for initialization and then restores, raises and focuses the
// window. If initialization failed it logs and does nothing.
func (i *Instance) Show(ctx context.Context) error {
	if err := i.Init(ctx); err != nil {
		i.registry.logger.Warn("cannot show program", "id", i.id, "err", err)
		return err
	}
	s := i.Surface()
	if s == nil || s.Destroyed() {
		return nil
	}
	s.Show()
	i.registry.SetFocusedInstance(i.id)
	return nil
}

// ToggleFullscreen switches the window between fullscreen and its saved
// geometry. A minimized window is shown first and ends up fullscreen.
func (i *Instance) ToggleFullscreen(ctx context.Context) error {
	s := i.Surface()
	if s == nil {
		return nil
	}
	if s.State() == surface.Minimized {
		if err := i.Show(ctx); err != nil {
			return err
		}
		if s.State() == surface.Fullscreen {
			return nil
		}
	}
	s.ToggleFullscreen()
	return nil
}

// Hide minimizes the window, returning focus to the desktop if this
// instance held it.
func (i *Instance) Hide() {
	s := i.Surface()
	if s == nil {
		return
	}
	s.Minimize()
	if i.registry.FocusedID() == i.id {
		i.registry.SetFocusedInstance("")
	}
}

// Close runs the content destroy hook, removes the window and deregisters
// the instance.
func (i *Instance) Close() {
	i.registry.Close(i.id)
}

// teardown is called by the registry after the instance was removed.
func (i *Instance) teardown() {
	i.mu.Lock()
	i.closed = true
	content, s := i.content, i.surface
	i.content = nil
	i.mu.Unlock()

	if d, ok := content.(Destroyer); ok {
		d.Destroy()
	}
	if s != nil {
		s.Destroy()
	}
}
