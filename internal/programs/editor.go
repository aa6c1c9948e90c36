package programs

import (
	"context"
	"errors"
	"sync"

	"github.com/Gaurav-Gosain/tuidesk/internal/program"
	"github.com/Gaurav-Gosain/tuidesk/internal/vfs"
)

// Editor edits one desktop file.
type Editor struct {
	inst *program.Instance
	deps *Deps

	mu       sync.Mutex
	file     string
	area     *textArea
	modified bool
}

func newEditor(d *Deps) program.Factory {
	return func(_ context.Context, inst *program.Instance, opts program.Options) (program.Content, error) {
		name := opts.File
		if name == "" {
			name = "untitled.txt"
		}
		if err := vfs.ValidateName(name); err != nil {
			return nil, err
		}
		e := &Editor{inst: inst, deps: d, file: name, area: newTextArea("")}
		if err := e.load(); err != nil && !errors.Is(err, vfs.ErrNotFound) {
			return nil, err
		}
		e.updateTitle()
		return e, nil
	}
}

func (e *Editor) load() error {
	content, err := e.deps.Store.Read(e.file)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.area.Set(content)
	e.modified = false
	e.mu.Unlock()
	return nil
}

// File returns the edited file name.
func (e *Editor) File() string { return e.file }

// Text returns the buffer content.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.area.String()
}

// Modified reports unsaved changes.
func (e *Editor) Modified() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modified
}

func (e *Editor) updateTitle() {
	if e.inst == nil {
		return
	}
	mark := ""
	if e.Modified() {
		mark = "*"
	}
	e.inst.SetTitle(e.file + mark + " - Text Editor")
}

// Save writes the buffer to the store. Failures are shown in a dialog.
func (e *Editor) Save() error {
	if err := e.deps.Store.Write(e.file, e.Text()); err != nil {
		e.deps.Logger.Error("save failed", "file", e.file, "err", err)
		e.deps.Notifier.Alert("Storage Error", "Could not save "+e.file+": "+err.Error())
		return err
	}
	e.mu.Lock()
	e.modified = false
	e.mu.Unlock()
	e.updateTitle()
	e.deps.Notifier.Notify("Saved " + e.file)
	return nil
}

// Revert discards unsaved changes.
func (e *Editor) Revert() error {
	err := e.load()
	if errors.Is(err, vfs.ErrNotFound) {
		e.mu.Lock()
		e.area.Set("")
		e.modified = false
		e.mu.Unlock()
		err = nil
	}
	e.updateTitle()
	return err
}

// Delete removes the file from the store and closes the window.
func (e *Editor) Delete() error {
	if err := e.deps.Store.Delete(e.file); err != nil {
		e.deps.Notifier.Alert("Storage Error", "Could not delete "+e.file+": "+err.Error())
		return err
	}
	e.deps.Notifier.Notify("Deleted " + e.file)
	if e.inst != nil {
		e.inst.Close()
	}
	return nil
}

func (e *Editor) HandleKey(_ context.Context, k program.Key) bool {
	if k.Name == "ctrl+s" {
		_ = e.Save()
		return true
	}
	e.mu.Lock()
	before := e.area.String()
	ok := e.area.HandleKey(k)
	changed := ok && e.area.String() != before
	if changed {
		e.modified = true
	}
	e.mu.Unlock()
	if changed {
		e.updateTitle()
	}
	return ok
}

func (e *Editor) Action(_ context.Context, action string) error {
	switch action {
	case "save-file":
		return e.Save()
	case "revert-file":
		return e.Revert()
	case "delete-file":
		return e.Delete()
	}
	return unknownAction(action)
}

func (e *Editor) View(width, height int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	status := e.file
	if e.modified {
		status += " [modified]"
	}
	rows := e.area.View(width, max(height-1, 0), true)
	for len(rows) < height-1 {
		rows = append(rows, "")
	}
	rows = append(rows, muted(status+" · ctrl+s save"))
	return frame(rows, width, height)
}
