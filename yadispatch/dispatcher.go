// Package yadispatch routes arbitrary update values through ordered groups of handlers.
//
// Groups are evaluated in ascending order and at most one handler fires per group: the
// first one, in registration order, whose Match accepts the update. Blocking callbacks
// run inline; non-blocking callbacks are queued on a worker pool. A failing callback is
// logged and handed to the error handlers without stopping the pass, while a failing
// Match aborts the pass and is returned to the caller.
package yadispatch

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/threadsafemap"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaupdates"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaworkerpool"
)

// Dispatcher owns the handler groups, the worker pool and the shared data bag.
type Dispatcher struct {
	cfg      Config
	defaults Defaults
	log      yalogger.Logger
	table    groupTable
	pool     *yaworkerpool.Pool
	data     *threadsafemap.ThreadSafeMap[string, any]

	mu            sync.RWMutex
	middlewares   []HandlerMiddleware
	errorHandlers []ErrorHandler

	running atomic.Bool
}

// New creates a Dispatcher and starts its worker pool. A nil log is replaced by a
// logrus logger at cfg.LogLevel.
//
// Example usage:
//
//	d, err := yadispatch.New(yadispatch.DefaultConfig(), log)
//	if err != nil {
//	    log.Fatalf("dispatcher: %v", err)
//	}
//	defer d.Stop(ctx)
func New(cfg Config, log yalogger.Logger) (*Dispatcher, yaerrors.Error) {
	if err := cfg.validate(); err != nil {
		return nil, err.Wrap("create dispatcher")
	}

	if log == nil {
		log = cfg.logger()
	}

	return &Dispatcher{
		cfg:      cfg,
		defaults: cfg.defaults(),
		log:      log,
		pool:     yaworkerpool.New(cfg.Workers, cfg.QueueSize, log),
		data:     threadsafemap.NewThreadSafeMap[string, any](),
	}, nil
}

// Defaults returns the handler defaults derived from the dispatcher config.
func (d *Dispatcher) Defaults() Defaults {
	return d.defaults
}

// Data returns the bag shared by every HandlerData this dispatcher creates.
func (d *Dispatcher) Data() *threadsafemap.ThreadSafeMap[string, any] {
	return d.data
}

// Register appends handler to group, creating the group if needed.
// The same handler may be registered more than once.
func (d *Dispatcher) Register(group int, handler Handler) yaerrors.Error {
	if handler == nil {
		return configurationError(fmt.Sprintf("nil handler for group %d", group))
	}

	d.table.register(group, handler)
	d.log.WithField(yalogger.KeyGroup, group).Debugf("Registered %s", HandlerName(handler))

	return nil
}

// RemoveHandler removes the first registration of handler from group.
func (d *Dispatcher) RemoveHandler(group int, handler Handler) yaerrors.Error {
	if err := d.table.remove(group, handler); err != nil {
		return err.Wrap("remove handler")
	}

	return nil
}

// Handlers returns a copy of the handlers registered in group.
func (d *Dispatcher) Handlers(group int) []Handler {
	return d.table.handlers(group)
}

// Groups iterates the current groups in ascending order.
func (d *Dispatcher) Groups() iter.Seq2[int, []Handler] {
	return func(yield func(int, []Handler) bool) {
		for number, handlers := range d.table.groups() {
			if !yield(number, slices.Clone(handlers)) {
				return
			}
		}
	}
}

// AddMiddleware appends middlewares. The first added runs outermost.
func (d *Dispatcher) AddMiddleware(middlewares ...HandlerMiddleware) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, middleware := range middlewares {
		if middleware != nil {
			d.middlewares = append(d.middlewares, middleware)
		}
	}
}

// AddErrorHandler appends handlers invoked for every reported failure, in order.
func (d *Dispatcher) AddErrorHandler(handlers ...ErrorHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, handler := range handlers {
		if handler != nil {
			d.errorHandlers = append(d.errorHandlers, handler)
		}
	}
}

// ProcessUpdate runs one dispatch pass for update.
//
// The returned error is non-nil only when a Match failed; callback failures are
// reported to the error handlers instead. A panic raised by a Match is not
// recovered here and reaches the caller.
func (d *Dispatcher) ProcessUpdate(ctx context.Context, update Update) yaerrors.Error {
	passID := uuid.New()
	log := d.log.WithRequestUUID(passID)

	log.Tracef("Dispatching update of type %T", update)

	middlewares := d.snapshotMiddlewares()

	var shared *HandlerData

	for group, handlers := range d.table.groups() {
		handler, result, matched, err := matchGroup(ctx, handlers, update)
		if err != nil {
			data := d.newHandlerData(passID, update, group, log)
			data.Handler = handler
			data.Err = yaerrors.FromError(
				err.Code(),
				fmt.Errorf("%w: %w", ErrMatch, err),
				fmt.Sprintf("%s failed to match in group %d", HandlerName(handler), group),
			)

			data.Log.Errorf("Dispatch pass aborted: %v", data.Err)
			d.reportError(ctx, data, update)

			return data.Err
		}

		if !matched {
			continue
		}

		data := shared
		if data == nil || !d.cfg.ReuseContext {
			data = d.newHandlerData(passID, update, group, log)
		}

		if d.cfg.ReuseContext {
			shared = data
		}

		data.Group = group
		data.Handler = handler
		data.Log = log.WithFields(map[string]any{
			yalogger.KeyGroup:   group,
			yalogger.KeyHandler: HandlerName(handler),
		})

		handler.Enrich(data, update, result)

		if d.schedule(ctx, handler, data, update, middlewares) {
			data.Log.Debug("Update propagation stopped by handler")

			break
		}
	}

	return nil
}

// Start pulls updates from source and dispatches them until the source is
// exhausted or ctx ends. Up to Config.ConcurrentUpdates passes run at once, and
// an update is only pulled once a pass slot is free, so every received update is
// dispatched. A panic inside a pass is recovered and reported as ErrMatch.
//
// Example usage:
//
//	go func() {
//	    if err := d.Start(ctx, yaupdates.NewChannelSource(updates)); err != nil {
//	        log.Errorf("dispatcher stopped: %v", err)
//	    }
//	}()
func (d *Dispatcher) Start(ctx context.Context, source yaupdates.Source) yaerrors.Error {
	if !d.running.CompareAndSwap(false, true) {
		return yaerrors.FromError(http.StatusConflict, ErrAlreadyRunning, "start dispatcher")
	}
	defer d.running.Store(false)

	var passes sync.WaitGroup
	defer passes.Wait()

	sem := make(chan struct{}, d.cfg.ConcurrentUpdates)

	d.log.Infof("Dispatcher started with %d concurrent updates", d.cfg.ConcurrentUpdates)

	for {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			d.log.Info("Dispatcher stopped receiving updates")

			return nil
		}

		update, err := source.Next(ctx)
		if err != nil {
			<-sem

			if errors.Is(err, yaupdates.ErrSourceClosed) || ctx.Err() != nil {
				d.log.Info("Dispatcher stopped receiving updates")

				return nil
			}

			return err.Wrap("receive update")
		}

		passes.Add(1)

		go func() {
			defer passes.Done()
			defer func() { <-sem }()
			defer d.recoverPass(ctx, update)

			if err := d.ProcessUpdate(ctx, update); err != nil {
				d.log.Errorf("Failed to process update: %v", err)
			}
		}()
	}
}

// recoverPass turns a panic escaping ProcessUpdate, such as one raised by a
// Match, into an ErrMatch failure reported to the error handlers.
func (d *Dispatcher) recoverPass(ctx context.Context, update Update) {
	r := recover()
	if r == nil {
		return
	}

	passID := uuid.New()
	data := d.newHandlerData(passID, update, 0, d.log.WithRequestUUID(passID))
	data.Err = yaerrors.FromError(
		http.StatusInternalServerError,
		fmt.Errorf("%w: %w", ErrMatch, yaerrors.FromPanic(http.StatusInternalServerError, r, "recover")),
		"dispatch pass panicked",
	)

	data.Log.Errorf("Dispatch pass aborted: %v", data.Err)
	d.reportError(ctx, data, update)
}

// Running reports whether Start is currently consuming a source.
func (d *Dispatcher) Running() bool {
	return d.running.Load()
}

// Stop waits for queued non-blocking callbacks to finish. Callbacks scheduled
// afterwards run inline.
func (d *Dispatcher) Stop(ctx context.Context) yaerrors.Error {
	if err := d.pool.Shutdown(ctx); err != nil {
		return err.Wrap("stop dispatcher")
	}

	return nil
}

func matchGroup(
	ctx context.Context,
	handlers []Handler,
	update Update,
) (Handler, MatchResult, bool, yaerrors.Error) {
	for _, handler := range handlers {
		result, matched, err := handler.Match(ctx, update)
		if err != nil {
			return handler, nil, false, err
		}

		if matched {
			return handler, result, true, nil
		}
	}

	return nil, nil, false, nil
}

func (d *Dispatcher) newHandlerData(passID uuid.UUID, update Update, group int, log yalogger.Logger) *HandlerData {
	return &HandlerData{
		Update:     update,
		Group:      group,
		PassID:     passID,
		Data:       d.data,
		Log:        log.WithField(yalogger.KeyGroup, group),
		Dispatcher: d,
	}
}

func (d *Dispatcher) snapshotMiddlewares() []HandlerMiddleware {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.middlewares)
}

func (d *Dispatcher) snapshotErrorHandlers() []ErrorHandler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return slices.Clone(d.errorHandlers)
}
