// Package components provides the component registry and the built-in
// textbook components.
package components

import (
	"errors"
	"maps"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/semiconbook/chaptermap/internal/core/domain"
	"github.com/semiconbook/chaptermap/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ComponentResolver = (*Registry)(nil)

// Factory builds a component from its registry entry.
type Factory func(entry domain.ComponentEntry) (driven.Component, error)

// slot holds one lazily constructed component.
type slot struct {
	entry   domain.ComponentEntry
	factory Factory
	once    sync.Once
	comp    driven.Component
	err     error
	loaded  atomic.Bool
}

func (s *slot) resolve() (driven.Component, error) {
	s.once.Do(func() {
		s.comp, s.err = s.factory(s.entry)
		s.loaded.Store(true)
	})
	return s.comp, s.err
}

// Registry maps component names to factories.
// Components are constructed on first use, at most once.
type Registry struct {
	mu    sync.RWMutex
	slots map[string]*slot
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{slots: make(map[string]*slot)}
}

// Register adds or replaces a component.
func (r *Registry) Register(entry domain.ComponentEntry, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[entry.Name] = &slot{entry: entry, factory: factory}
}

// Resolve returns the component registered as name, constructing it on
// first use. Returns a *domain.ComponentNotFoundError when absent.
func (r *Registry) Resolve(name string) (driven.Component, error) {
	r.mu.RLock()
	s, ok := r.slots[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.ComponentNotFoundError{Name: name}
	}
	return s.resolve()
}

// Entry returns the registry entry of name.
func (r *Registry) Entry(name string) (domain.ComponentEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[name]
	if !ok {
		return domain.ComponentEntry{}, false
	}
	return s.entry, true
}

// Has returns true if a component with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slots[name]
	return ok
}

// Loaded reports whether name has been constructed.
func (r *Registry) Loaded(name string) bool {
	r.mu.RLock()
	s, ok := r.slots[name]
	r.mu.RUnlock()
	return ok && s.loaded.Load()
}

// Names returns all registered component names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.slots))
	for name := range r.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports every name that is not registered.
func (r *Registry) Validate(names []string) error {
	var errs []error
	for _, name := range names {
		if name != domain.ComponentFromBlock && !r.Has(name) {
			errs = append(errs, &domain.ComponentNotFoundError{Name: name})
		}
	}
	return errors.Join(errs...)
}

// WithChapter returns a resolver that also knows the components a chapter
// declares. Declared entries override base entries; names without a
// factory render as generic cards.
func (r *Registry) WithChapter(entries map[string]domain.ComponentEntry) driven.ComponentResolver {
	if len(entries) == 0 {
		return r
	}
	return &chapterResolver{base: r, entries: entries}
}

type chapterResolver struct {
	base    *Registry
	entries map[string]domain.ComponentEntry
}

func (c *chapterResolver) Resolve(name string) (driven.Component, error) {
	comp, err := c.base.Resolve(name)
	if err == nil {
		return comp, nil
	}
	entry, ok := c.entries[name]
	if !ok || !errors.Is(err, domain.ErrComponentNotFound) {
		return nil, err
	}
	return NewCard(entry, ""), nil
}

func (c *chapterResolver) Entry(name string) (domain.ComponentEntry, bool) {
	entry, ok := c.entries[name]
	if !ok {
		return c.base.Entry(name)
	}
	if base, found := c.base.Entry(name); found {
		if entry.Module == "" {
			entry.Module = base.Module
		}
		if entry.Mode == "" {
			entry.Mode = base.Mode
		}
		merged := maps.Clone(base.DefaultProps)
		if merged == nil {
			merged = make(map[string]any, len(entry.DefaultProps))
		}
		maps.Copy(merged, entry.DefaultProps)
		entry.DefaultProps = merged
	}
	entry.Name = name
	return entry, true
}
