package yajournal

import (
	"context"
	"slices"
	"sync"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// MemoryRepo keeps the most recent failures in memory.
type MemoryRepo struct {
	mu       sync.RWMutex
	failures []Failure
	capacity int
}

// NewMemoryRepo keeps at most capacity failures, dropping the oldest.
// A non-positive capacity keeps everything.
func NewMemoryRepo(capacity int) *MemoryRepo {
	return &MemoryRepo{capacity: capacity}
}

func (m *MemoryRepo) Record(_ context.Context, failure Failure) yaerrors.Error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures = append(m.failures, failure)

	if m.capacity > 0 && len(m.failures) > m.capacity {
		m.failures = slices.Delete(m.failures, 0, len(m.failures)-m.capacity)
	}

	return nil
}

// Recent returns up to limit failures, newest first. A non-positive limit yields none.
func (m *MemoryRepo) Recent(_ context.Context, limit int) ([]Failure, yaerrors.Error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := max(0, min(limit, len(m.failures)))
	out := make([]Failure, 0, n)

	for i := len(m.failures) - 1; i >= len(m.failures)-n; i-- {
		out = append(out, m.failures[i])
	}

	return out, nil
}
