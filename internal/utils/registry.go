package utils

import (
	"fmt"
	"sort"
	"sync"
)

// Registry provides a generic, thread-safe name to value registry
type Registry[V any] struct {
	mu    sync.RWMutex
	items map[string]V
}

// NewRegistry creates a new generic registry
func NewRegistry[V any]() *Registry[V] {
	return &Registry[V]{
		items: make(map[string]V),
	}
}

// Register adds an item to the registry. Names must be unique.
func (r *Registry[V]) Register(name string, value V) error {
	if err := NotEmpty("name")(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return fmt.Errorf("'%s' is already registered", name)
	}
	r.items[name] = value
	return nil
}

// MustRegister is Register for package initialization; it panics on conflicts
func (r *Registry[V]) MustRegister(name string, value V) {
	if err := r.Register(name, value); err != nil {
		panic(err)
	}
}

// Get retrieves an item from the registry
func (r *Registry[V]) Get(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.items[name]
	return value, exists
}

// Has checks if a name exists in the registry
func (r *Registry[V]) Has(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// Names returns all registered names sorted alphabetically
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of items in the registry
func (r *Registry[V]) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.items)
}
