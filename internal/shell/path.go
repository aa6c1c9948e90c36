package shell

import (
	"errors"
	"io/fs"
	"path"
	"strings"
)

var (
	ErrNoSuchDirectory = errors.New("no such directory")
	ErrNoSuchFile      = errors.New("no such file or directory")
	ErrNotADirectory   = errors.New("not a directory")
	ErrIsADirectory    = errors.New("is a directory")
)

// Resolve makes p absolute against cwd and normalizes it. ".." never climbs
// above the root. It is total and idempotent.
func Resolve(cwd, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = cwd + "/" + p
	}
	return path.Clean("/" + p)
}

// ResolvePath resolves p against the current directory.
func (i *Interpreter) ResolvePath(p string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return Resolve(i.cwd, p)
}

// ListDirectory lists p (the current directory when empty) sorted by name.
// A missing target and a file both fail with ErrNotADirectory.
func (i *Interpreter) ListDirectory(p string) ([]Entry, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if p == "" {
		p = "."
	}
	dir := i.tree.lookup(Resolve(i.cwd, p))
	if !dir.IsDir() {
		return nil, &fs.PathError{Op: "ls", Path: p, Err: ErrNotADirectory}
	}
	return dir.entries(), nil
}

// ChangeDirectory moves to p. An empty path or "~" goes home. On failure
// the current directory is left unchanged.
func (i *Interpreter) ChangeDirectory(p string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	target := p
	switch {
	case p == "" || p == "~":
		target = i.opts.Home
	case strings.HasPrefix(p, "~/"):
		target = i.opts.Home + p[1:]
	}
	abs := Resolve(i.cwd, target)
	if !i.tree.lookup(abs).IsDir() {
		return &fs.PathError{Op: "cd", Path: p, Err: ErrNoSuchDirectory}
	}
	i.cwd = abs
	return nil
}

// ReadFile returns the content of the file at p verbatim.
func (i *Interpreter) ReadFile(p string) (string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	abs := Resolve(i.cwd, p)
	parent := i.tree.lookup(path.Dir(abs))
	if abs == "/" {
		return "", &fs.PathError{Op: "cat", Path: p, Err: ErrIsADirectory}
	}
	if !parent.IsDir() {
		return "", &fs.PathError{Op: "cat", Path: p, Err: ErrNoSuchFile}
	}
	node, ok := parent.Children[path.Base(abs)]
	switch {
	case !ok:
		return "", &fs.PathError{Op: "cat", Path: p, Err: ErrNoSuchFile}
	case node.IsDir():
		return "", &fs.PathError{Op: "cat", Path: p, Err: ErrIsADirectory}
	}
	return node.Content, nil
}

// PrintWorkingDirectory returns the current directory.
func (i *Interpreter) PrintWorkingDirectory() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.cwd
}
