package yadispatch

import (
	"cmp"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

type handlerGroup struct {
	number   int
	handlers []Handler
}

// groupTable keeps handler groups as an immutable snapshot sorted by group number.
// Writers copy the snapshot under mu and publish it atomically, so a dispatch pass
// iterating one snapshot never observes a concurrent registration.
type groupTable struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[[]handlerGroup]
}

func compareGroup(g handlerGroup, number int) int {
	return cmp.Compare(g.number, number)
}

func (t *groupTable) load() []handlerGroup {
	if groups := t.snapshot.Load(); groups != nil {
		return *groups
	}

	return nil
}

func (t *groupTable) register(number int, handler Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()

	groups := slices.Clone(t.load())

	idx, found := slices.BinarySearchFunc(groups, number, compareGroup)
	if found {
		groups[idx].handlers = slices.Concat(groups[idx].handlers, []Handler{handler})
	} else {
		groups = slices.Insert(groups, idx, handlerGroup{number: number, handlers: []Handler{handler}})
	}

	t.snapshot.Store(&groups)
}

func (t *groupTable) remove(number int, handler Handler) yaerrors.Error {
	t.mu.Lock()
	defer t.mu.Unlock()

	groups := slices.Clone(t.load())

	idx, found := slices.BinarySearchFunc(groups, number, compareGroup)
	if !found {
		return yaerrors.FromError(
			http.StatusNotFound,
			ErrHandlerMissing,
			fmt.Sprintf("group %d does not exist", number),
		)
	}

	pos := slices.Index(groups[idx].handlers, handler)
	if pos < 0 {
		return yaerrors.FromError(
			http.StatusNotFound,
			ErrHandlerMissing,
			fmt.Sprintf("%s is not registered in group %d", HandlerName(handler), number),
		)
	}

	handlers := slices.Delete(slices.Clone(groups[idx].handlers), pos, pos+1)
	if len(handlers) == 0 {
		groups = slices.Delete(groups, idx, idx+1)
	} else {
		groups[idx].handlers = handlers
	}

	t.snapshot.Store(&groups)

	return nil
}

func (t *groupTable) handlers(number int) []Handler {
	groups := t.load()

	idx, found := slices.BinarySearchFunc(groups, number, compareGroup)
	if !found {
		return nil
	}

	return slices.Clone(groups[idx].handlers)
}

func (t *groupTable) groups() iter.Seq2[int, []Handler] {
	return func(yield func(int, []Handler) bool) {
		for _, group := range t.load() {
			if !yield(group.number, group.handlers) {
				return
			}
		}
	}
}
