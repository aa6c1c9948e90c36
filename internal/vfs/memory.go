package vfs

import (
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store. A positive quota limits the total size of
// names plus contents, like browser local storage.
type Memory struct {
	mu    sync.RWMutex
	files map[string]string
	quota int64
	used  int64
}

// NewMemory returns an empty store. quota <= 0 disables the limit.
func NewMemory(quota int64) *Memory {
	return &Memory{files: make(map[string]string), quota: quota}
}

func (m *Memory) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *Memory) Read(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return "", &StorageError{Op: "read", Name: name, Err: ErrNotFound}
	}
	return content, nil
}

func (m *Memory) Write(name, content string) error {
	if err := ValidateName(name); err != nil {
		return &StorageError{Op: "write", Name: name, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	used := m.used + entrySize(name, content)
	if old, ok := m.files[name]; ok {
		used -= entrySize(name, old)
	}
	if m.quota > 0 && used > m.quota {
		return &StorageError{
			Op:   "write",
			Name: name,
			Err:  fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used, m.quota),
		}
	}
	m.files[name] = content
	m.used = used
	return nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.files[name]; ok {
		m.used -= entrySize(name, old)
		delete(m.files, name)
	}
	return nil
}

func entrySize(name, content string) int64 {
	return int64(len(name) + len(content))
}
