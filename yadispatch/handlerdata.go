package yadispatch

import (
	"slices"

	"github.com/google/uuid"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/threadsafemap"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
)

// HandlerData is the per-update context passed to callbacks, middlewares and error handlers.
type HandlerData struct {
	Update     Update
	Args       []string
	Group      int
	PassID     uuid.UUID
	Handler    Handler
	Data       *threadsafemap.ThreadSafeMap[string, any]
	Log        yalogger.Logger
	Dispatcher *Dispatcher
	// Err is set only for error handlers.
	Err yaerrors.Error
}

// Get returns a value from the shared data bag.
func (d *HandlerData) Get(key string) (any, bool) {
	if d.Data == nil {
		return nil, false
	}

	return d.Data.Get(key)
}

// Set stores a value in the shared data bag. It reports false, storing nothing,
// when the HandlerData has no bag, which only happens if it was not built by a Dispatcher.
func (d *HandlerData) Set(key string, value any) bool {
	if d.Data == nil {
		return false
	}

	d.Data.Set(key, value)

	return true
}

// clone copies the per-invocation fields. Data stays shared.
func (d *HandlerData) clone() *HandlerData {
	cloned := *d
	cloned.Args = slices.Clone(d.Args)

	return &cloned
}
