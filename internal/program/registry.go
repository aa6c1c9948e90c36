package program

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/tuidesk/internal/logging"
	"github.com/Gaurav-Gosain/tuidesk/internal/surface"
)

// Registry holds the registered program classes, the live instances and
// the id of the focused instance. An empty focused id means the desktop
// has focus. It is safe for concurrent use.
type Registry struct {
	stack  *surface.Stack
	logger *log.Logger

	mu        sync.Mutex
	classes   map[string]Class
	instances map[string]*Instance
	order     []string
	focused   string
	listener  FocusListener
}

// NewRegistry creates a registry placing windows on stack.
func NewRegistry(stack *surface.Stack, logger *log.Logger) *Registry {
	return &Registry{
		stack:     stack,
		logger:    logging.OrDiscard(logger),
		classes:   make(map[string]Class),
		instances: make(map[string]*Instance),
	}
}

// SetFocusListener installs the listener notified on focus changes.
func (r *Registry) SetFocusListener(l FocusListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listener = l
}

// Stack returns the surface stack windows are placed on.
func (r *Registry) Stack() *surface.Stack { return r.stack }

// Register adds or replaces a program class. Replacing a class with live
// instances only affects future launches.
func (r *Registry) Register(baseType string, class Class) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[baseType]; exists && r.countLocked(baseType) > 0 {
		r.logger.Warn("re-registering program with live instances", "type", baseType)
	}
	r.classes[baseType] = class
}

// Class returns the class registered for baseType.
func (r *Registry) Class(baseType string) (Class, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.classes[baseType]
	return c, ok
}

// Classes returns the registered base types, sorted.
func (r *Registry) Classes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.classes))
	for t := range r.classes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Launch starts a new instance of baseType, or shows the existing one for
// singleton classes. Initialization runs in the background; the instance
// is shown once it is ready. Init failures deregister the instance and are
// reported by Instance.Wait.
func (r *Registry) Launch(ctx context.Context, baseType string, opts Options) (*Instance, error) {
	r.mu.Lock()
	class, ok := r.classes[baseType]
	if !ok {
		r.mu.Unlock()
		r.logger.Warn("launch of unregistered program", "type", baseType)
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, baseType)
	}

	if class.Singleton {
		if existing := r.firstLocked(baseType); existing != nil {
			r.mu.Unlock()
			r.showWhenReady(ctx, existing)
			return existing, nil
		}
	}

	inst := newInstance(r, newInstanceID(baseType), baseType, class, opts)
	r.instances[inst.id] = inst
	r.order = append(r.order, inst.id)
	r.mu.Unlock()

	r.logger.Debug("launching program", "type", baseType, "id", inst.id)

	go func(ctx context.Context) {
		if err := inst.Init(ctx); err != nil {
			if !errors.Is(err, ErrClosed) {
				r.drop(inst.id)
				r.logger.Error("program failed to initialize", "id", inst.id, "err", err)
			}
			return
		}
		_ = inst.Show(ctx)
	}(context.WithoutCancel(ctx))

	return inst, nil
}

func (r *Registry) showWhenReady(ctx context.Context, inst *Instance) {
	if inst.State() == Ready {
		_ = inst.Show(ctx)
		return
	}
	go func() { _ = inst.Show(context.WithoutCancel(ctx)) }()
}

// drop deregisters a failed instance without running its destroy hook.
func (r *Registry) drop(id string) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	if ok {
		r.removeLocked(id)
	}
	r.mu.Unlock()
	if ok {
		inst.teardown()
	}
}

// Close destroys an instance. Unknown ids are logged and ignored. Closing
// the focused instance returns focus to the desktop.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	inst, ok := r.instances[id]
	if !ok {
		r.mu.Unlock()
		r.logger.Warn("close of unknown program instance", "id", id)
		return
	}
	r.removeLocked(id)
	wasFocused := r.focused == id
	if wasFocused {
		r.focused = ""
	}
	listener := r.listener
	r.mu.Unlock()

	inst.teardown()
	r.logger.Debug("closed program", "id", id)

	if wasFocused && listener != nil {
		listener.OnFocusedTypeChanged(DesktopType)
	}
}

// CloseAll closes every live instance.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := slices.Clone(r.order)
	r.mu.Unlock()
	for _, id := range ids {
		r.Close(id)
	}
}

// SetFocusedInstance focuses the given instance, or the desktop when id is
// empty. The focus listener is notified once per actual change, before
// this call returns.
func (r *Registry) SetFocusedInstance(id string) {
	r.mu.Lock()
	if id == r.focused {
		r.mu.Unlock()
		return
	}
	var next *Instance
	if id != "" {
		next = r.instances[id]
		if next == nil {
			r.mu.Unlock()
			r.logger.Warn("focus of unknown program instance", "id", id)
			return
		}
	}
	r.focused = id
	listener := r.listener
	r.mu.Unlock()

	baseType := DesktopType
	if next != nil {
		baseType = next.baseType
		if s := next.Surface(); s != nil {
			s.BringToFront()
		}
	} else {
		r.stack.ClearFocus()
	}

	if listener != nil {
		listener.OnFocusedTypeChanged(baseType)
	}
}

// FocusedID returns the id of the focused instance, or "".
func (r *Registry) FocusedID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused
}

// FocusedInstance returns the focused instance, or nil when the desktop
// has focus.
func (r *Registry) FocusedInstance() *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.focused == "" {
		return nil
	}
	return r.instances[r.focused]
}

// Instance returns the instance with the given id, or nil.
func (r *Registry) Instance(id string) *Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.instances[id]
}

// Instances returns every live instance in launch order.
func (r *Registry) Instances() []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Instance, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.instances[id])
	}
	return out
}

// InstancesByType returns the live instances of baseType in launch order.
func (r *Registry) InstancesByType(baseType string) []*Instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Instance
	for _, id := range r.order {
		if inst := r.instances[id]; inst.baseType == baseType {
			out = append(out, inst)
		}
	}
	return out
}

// VisibleInstanceCount counts the instances of baseType whose window is
// present and not minimized.
func (r *Registry) VisibleInstanceCount(baseType string) int {
	n := 0
	for _, inst := range r.InstancesByType(baseType) {
		s := inst.Surface()
		if s != nil && !s.Destroyed() && s.State() != surface.Minimized {
			n++
		}
	}
	return n
}

func (r *Registry) firstLocked(baseType string) *Instance {
	for _, id := range r.order {
		if inst := r.instances[id]; inst.baseType == baseType {
			return inst
		}
	}
	return nil
}

func (r *Registry) countLocked(baseType string) int {
	n := 0
	for _, inst := range r.instances {
		if inst.baseType == baseType {
			n++
		}
	}
	return n
}

func (r *Registry) removeLocked(id string) {
	delete(r.instances, id)
	r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
}

// newInstanceID returns "<base>-<unix millis>-<6 hex digits>".
func newInstanceID(baseType string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("%s-%d-%s", baseType, time.Now().UnixMilli(), suffix)
}
