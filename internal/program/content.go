// Package program manages the lifecycle of desktop applications: the
// registry of program classes, the instances launched from them and which
// instance holds focus.
package program

import (
	"context"
	"errors"
	"fmt"
)

// DesktopType is reported to focus listeners when no instance is focused.
const DesktopType = "desktop"

var (
	// ErrUnknownProgram is returned by Launch for unregistered base types.
	ErrUnknownProgram = errors.New("unknown program type")
	// ErrClosed is the init outcome of an instance closed before its
	// initialization finished.
	ErrClosed = errors.New("program instance closed")
)

// InitError reports a failed instance initialization.
type InitError struct {
	InstanceID string
	Err        error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("initialize %s: %v", e.InstanceID, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Content is the type-specific inside of a program window.
type Content interface {
	// View renders the content into a width by height area.
	View(width, height int) string
}

// Destroyer is implemented by content that holds resources which must be
// released when its window closes.
type Destroyer interface {
	Destroy()
}

// Key is a keystroke delivered to the focused content.
type Key struct {
	// Name is the keystroke, e.g. "enter", "ctrl+l" or "a".
	Name string
	// Text is the printable text produced by the key, if any.
	Text string
}

// KeyHandler is implemented by content that accepts keyboard input.
type KeyHandler interface {
	HandleKey(ctx context.Context, k Key) bool
}

// Options parameterize a launch.
type Options struct {
	// URL is opened by programs that display a location.
	URL string
	// File names a desktop file or a document to open.
	File string
}

// Factory builds the content of a new instance. It runs off the UI
// goroutine and may block.
type Factory func(ctx context.Context, inst *Instance, opts Options) (Content, error)

// Class describes a registrable program type.
type Class struct {
	// Title is the initial window title.
	Title string
	// Width and Height are the initial window size.
	Width, Height int
	// Singleton classes have at most one live instance.
	Singleton bool
	// New builds instance content.
	New Factory
}

// FocusListener is told the base type of the focused instance after every
// focus change, or DesktopType when the desktop is focused.
type FocusListener interface {
	OnFocusedTypeChanged(baseType string)
}

// FocusListenerFunc adapts a function to FocusListener.
type FocusListenerFunc func(baseType string)

// OnFocusedTypeChanged calls f.
func (f FocusListenerFunc) OnFocusedTypeChanged(baseType string) { f(baseType) }
