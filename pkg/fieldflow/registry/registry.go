package registry

import "sync"

// Registry is a concurrency-safe map of named extension points:
// validators by name, agent definitions by ID, completion hooks by
// action tag, compiled graphs by agent. Reads vastly outnumber writes
// once startup registration is done, so it guards with an RWMutex.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New returns an empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{entries: map[K]V{}}
}

// Register stores value under key, replacing any previous entry.
func (r *Registry[K, V]) Register(key K, value V) {
	r.mu.Lock()
	r.entries[key] = value
	r.mu.Unlock()
}

// RegisterMany stores every entry of the given map.
func (r *Registry[K, V]) RegisterMany(entries map[K]V) {
	r.mu.Lock()
	for k, v := range entries {
		r.entries[k] = v
	}
	r.mu.Unlock()
}

// Get looks up the value for key.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// MustGet looks up the value for key and panics when it is absent.
// Reserved for startup wiring, where a missing entry is a programming
// error.
func (r *Registry[K, V]) MustGet(key K) V {
	v, ok := r.Get(key)
	if !ok {
		panic("registry: key not found")
	}
	return v
}

// Has reports whether key is registered.
func (r *Registry[K, V]) Has(key K) bool {
	_, ok := r.Get(key)
	return ok
}

// Delete removes key. Deleting an absent key is a no-op.
func (r *Registry[K, V]) Delete(key K) {
	r.mu.Lock()
	delete(r.entries, key)
	r.mu.Unlock()
}

// Keys returns the registered keys in no particular order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for each entry until fn returns false. It iterates
// over a snapshot taken up front, so fn may register or delete
// entries without deadlocking or perturbing the iteration.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	snapshot := make(map[K]V, len(r.entries))
	for k, v := range r.entries {
		snapshot[k] = v
	}
	r.mu.RUnlock()

	for k, v := range snapshot {
		if !fn(k, v) {
			return
		}
	}
}

// GetOrCreate returns the value for key, building and storing it via
// factory on first use. The factory runs at most once per key under
// concurrent callers; later callers see the stored value.
func (r *Registry[K, V]) GetOrCreate(key K, factory func() V) V {
	if v, ok := r.Get(key); ok {
		return v
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.entries[key]; ok {
		return v
	}
	v := factory()
	r.entries[key] = v
	return v
}
