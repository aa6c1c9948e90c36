// Package vfs stores the user-visible desktop files. Every window and every
// session shares one store; concurrent writers of the same name resolve as
// last write wins.
package vfs

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrNotFound      = errors.New("file not found")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrInvalidName   = errors.New("invalid file name")
)

// MaxNameLength bounds file names.
const MaxNameLength = 255

// StorageError describes a failed store operation.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("vfs: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is a flat namespace of named text files.
type Store interface {
	// List returns the stored names in ascending order.
	List() ([]string, error)
	// Read returns the content of name, or an error wrapping ErrNotFound.
	Read(name string) (string, error)
	// Write creates or replaces name. Failures are *StorageError values and
	// must be surfaced to the user.
	Write(name, content string) error
	// Delete removes name. Deleting a missing name is not an error.
	Delete(name string) error
}

// ValidateName reports whether name can be stored.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxNameLength)
	}
	if name == "." || name == ".." || strings.ContainsRune(name, '/') {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: contains control characters", ErrInvalidName)
		}
	}
	return nil
}

// Seed writes files into s if s is empty.
func Seed(s Store, files map[string]string) error {
	names, err := s.List()
	if err != nil {
		return err
	}
	if len(names) > 0 {
		return nil
	}
	for name, content := range files {
		if err := s.Write(name, content); err != nil {
			return err
		}
	}
	return nil
}

// DefaultFiles is what a fresh desktop starts with.
func DefaultFiles() map[string]string {
	return map[string]string{
		"welcome.txt": "Welcome to korzeOS.\n\n" +
			"Open a terminal from the dock and type 'help' to get started.\n" +
			"Files on the desktop are saved automatically and shared between sessions.\n",
	}
}
