// Package threadsafemap provides a generic map guarded by a RW mutex.
// It backs the per-dispatcher data bag shared between handler callbacks, which may run
// on the dispatch goroutine and on pool workers at the same time.
package threadsafemap

import (
	"encoding/json"
	"fmt"
	"maps"
	"sync"
)

// ThreadSafeMap is a generic map implementation that supports concurrent read and write operations safely.
type ThreadSafeMap[K comparable, V any] struct {
	data map[K]V
	mu   sync.RWMutex
}

// NewThreadSafeMap returns a new instance of a thread-safe map with initialized internal storage.
func NewThreadSafeMap[K comparable, V any]() *ThreadSafeMap[K, V] {
	return &ThreadSafeMap[K, V]{
		data: make(map[K]V),
	}
}

// FromMap returns a thread-safe map holding a copy of src.
//
// Example usage:
//
//	data := threadsafemap.FromMap(map[string]any{"owner": 42})
func FromMap[K comparable, V any](src map[K]V) *ThreadSafeMap[K, V] {
	m := NewThreadSafeMap[K, V]()
	maps.Copy(m.data, src)

	return m
}

// Copy returns a new copy of the current map's content.
func (m *ThreadSafeMap[K, V]) Copy() map[K]V {
	m.mu.RLock()
	defer m.mu.RUnlock()

	copyMap := make(map[K]V, len(m.data))
	maps.Copy(copyMap, m.data)

	return copyMap
}

// Delete removes the specified key from the map if it exists.
func (m *ThreadSafeMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.safetyCheck()
	delete(m.data, key)
}

// Get retrieves the value for a key and a boolean indicating whether it was found.
func (m *ThreadSafeMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, exists := m.data[key]

	return val, exists
}

// GetOrDefault returns the value for a key, or def if the key doesn't exist.
func (m *ThreadSafeMap[K, V]) GetOrDefault(key K, def V) V {
	if val, ok := m.Get(key); ok {
		return val
	}

	return def
}

// GetOrSet retrieves the value for a key or sets it to value if not found.
// The boolean reports whether the key already existed.
func (m *ThreadSafeMap[K, V]) GetOrSet(key K, value V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.safetyCheck()

	if existing, exists := m.data[key]; exists {
		return existing, true
	}

	m.data[key] = value

	return value, false
}

// Has checks whether a given key exists in the map.
func (m *ThreadSafeMap[K, V]) Has(key K) bool {
	_, exists := m.Get(key)

	return exists
}

// IterateOnCopy iterates over a copy of the map, so fn may call back into m.
func (m *ThreadSafeMap[K, V]) IterateOnCopy(fn func(K, V)) {
	for k, v := range m.Copy() {
		fn(k, v)
	}
}

// Keys returns a slice containing all keys currently in the map.
func (m *ThreadSafeMap[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]K, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}

	return keys
}

// Length returns the total number of key-value pairs in the map.
func (m *ThreadSafeMap[K, V]) Length() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

// MarshalJSON marshals a snapshot of the map.
func (m *ThreadSafeMap[K, V]) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(m.Copy())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal map: %w", err)
	}

	return data, nil
}

// Pop removes and returns the value associated with the key.
func (m *ThreadSafeMap[K, V]) Pop(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.safetyCheck()

	val, ok := m.data[key]
	if ok {
		delete(m.data, key)
	}

	return val, ok
}

// Set sets or updates the value for a given key.
func (m *ThreadSafeMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.safetyCheck()
	m.data[key] = value
}

// Update replaces the value of key with fn(old, exists) atomically.
//
// Example usage:
//
//	counter.Update("hits", func(old int, _ bool) int { return old + 1 })
func (m *ThreadSafeMap[K, V]) Update(key K, fn func(old V, exists bool) V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.safetyCheck()

	old, exists := m.data[key]
	m.data[key] = fn(old, exists)
}
