package threadsafemap

// safetyCheck lazily initializes the map so the zero ThreadSafeMap is usable.
// Callers must hold the write lock.
func (m *ThreadSafeMap[K, V]) safetyCheck() {
	if m.data == nil {
		m.data = make(map[K]V)
	}
}
