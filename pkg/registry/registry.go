package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/navbridge/pkg/domain"
)

// Registry maps bridge-level entity ids to native overlay objects of one
// kind, with a reverse index from native ids for interaction events.
// Ids are unique: registering a taken id fails instead of overwriting.
type Registry[T any] struct {
	mu       sync.RWMutex
	order    []string
	entries  map[string]T
	byNative map[string]string
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{
		entries:  make(map[string]T),
		byNative: make(map[string]string),
	}
}

// Has reports whether id is registered.
func (r *Registry[T]) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Register adds an entity. It returns domain.ErrDuplicateID if id is taken.
func (r *Registry[T]) Register(id, nativeID string, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, id)
	}
	r.entries[id] = entity
	r.order = append(r.order, id)
	if nativeID != "" {
		r.byNative[nativeID] = id
	}
	return nil
}

// Get looks up an entity by id.
func (r *Registry[T]) Get(id string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	return e, ok
}

// LookupNative resolves a native id to the registered entity.
func (r *Registry[T]) LookupNative(nativeID string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNative[nativeID]
	if !ok {
		var zero T
		return zero, false
	}
	e, ok := r.entries[id]
	return e, ok
}

// Remove deletes an entity and returns it. nativeOf extracts the native id
// so the reverse index can be cleaned.
func (r *Registry[T]) Remove(id string, nativeOf func(T) string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return e, false
	}
	delete(r.entries, id)
	if nativeOf != nil {
		delete(r.byNative, nativeOf(e))
	}
	for i, k := range r.order {
		if k == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return e, true
}

// List returns the entities in registration order.
func (r *Registry[T]) List() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Reset drops every entity and returns how many were held.
func (r *Registry[T]) Reset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.entries)
	r.order = nil
	r.entries = make(map[string]T)
	r.byNative = make(map[string]string)
	return n
}
