// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Factory creates a zero-size backend instance.
type Factory func() (Backend, error)

// Entry describes a registered backend.
type Entry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	//   - 100: platform canvases (browser)
	//   - 50: gg software rasterizer
	//   - 10: fallback rasterizers
	Priority int

	// Factory creates backend instances.
	Factory Factory

	// Available reports if the backend can run in this process.
	Available func() bool
}

var (
	// ErrNoBackendAvailable is returned when nothing usable is registered.
	ErrNoBackendAvailable = errors.New("backend: no backend available")

	// ErrUnknownBackend is returned for names that were never registered.
	ErrUnknownBackend = errors.New("backend: unknown backend")

	// ErrUnavailable is returned when a registered backend cannot run here.
	ErrUnavailable = errors.New("backend: backend unavailable")
)

// Registry manages named backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

var globalRegistry = NewRegistry()

// NewRegistry creates an empty registry.
// Most code should use the package-level functions.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// Register adds a backend to the global registry.
// If available is nil the backend is assumed always available.
// Registering an existing name replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered names, highest priority first.
func List() []string {
	return globalRegistry.List()
}

// Available returns the names of usable backends, highest priority first.
func Available() []string {
	return globalRegistry.Available()
}

// New creates a backend by name from the global registry.
func New(name string) (Backend, error) {
	return globalRegistry.New(name)
}

// Best creates a backend from the highest-priority usable entry.
func Best() (Backend, string, error) {
	return globalRegistry.Best()
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if factory == nil {
		panic("backend: Register factory is nil")
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &Entry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Get returns a copy of the entry registered under name.
func (r *Registry) Get(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// List returns all registered names, highest priority first.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(false)
}

// Available returns usable names, highest priority first.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedNames(true)
}

// New creates a backend by name.
func (r *Registry) New(name string) (Backend, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	if !e.Available() {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, name)
	}
	return e.Factory()
}

// Best tries usable backends in priority order and returns the first that
// constructs successfully, with its name.
func (r *Registry) Best() (Backend, string, error) {
	r.mu.RLock()
	names := r.sortedNames(true)
	r.mu.RUnlock()

	if len(names) == 0 {
		return nil, "", ErrNoBackendAvailable
	}

	var lastErr error
	for _, name := range names {
		b, err := r.New(name)
		if err == nil {
			return b, name, nil
		}
		lastErr = err
	}
	return nil, "", lastErr
}

// sortedNames must be called with the lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	entries := make([]*Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority > entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
