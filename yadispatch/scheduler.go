package yadispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaworkerpool"
)

// schedule runs or queues the callback of a matched handler and reports whether
// the pass must stop.
func (d *Dispatcher) schedule(
	ctx context.Context,
	handler Handler,
	data *HandlerData,
	update Update,
	middlewares []HandlerMiddleware,
) bool {
	next := chainMiddleware(HandlerNext(handler.Callback()), middlewares...)

	if handler.Blocking() {
		err := invoke(ctx, next, data, update)
		if err == nil {
			return false
		}

		if errors.Is(err, ErrHandlerStop) {
			return true
		}

		d.callbackFailed(ctx, data, update, err)

		return false
	}

	detached := data.clone()
	jobCtx := context.WithoutCancel(ctx)

	run := func() {
		err := invoke(jobCtx, next, detached, update)
		if err == nil {
			return
		}

		if errors.Is(err, ErrHandlerStop) {
			detached.Log.Warn("Non-blocking handler cannot stop update propagation")

			return
		}

		d.callbackFailed(jobCtx, detached, update, err)
	}

	if _, err := d.pool.Submit(ctx, yaworkerpool.Job{Priority: data.Group, Run: run}); err != nil {
		detached.Log.Warnf("Running non-blocking callback inline: %v", err)
		run()
	}

	return false
}

func invoke(ctx context.Context, next HandlerNext, data *HandlerData, update Update) (err yaerrors.Error) {
	defer func() {
		if r := recover(); r != nil {
			err = yaerrors.FromError(
				http.StatusInternalServerError,
				fmt.Errorf("%w: %w", ErrCallbackPanic, yaerrors.FromPanic(http.StatusInternalServerError, r, "recover")),
				"callback panicked",
			)
		}
	}()

	return next(ctx, data, update)
}

func (d *Dispatcher) callbackFailed(ctx context.Context, data *HandlerData, update Update, err yaerrors.Error) {
	failure := data.clone()
	failure.Err = yaerrors.FromError(
		err.Code(),
		fmt.Errorf("%w: %w", ErrCallback, err),
		fmt.Sprintf("%s failed in group %d", HandlerName(data.Handler), data.Group),
	)

	failure.Log.Errorf("Callback failed: %v", failure.Err)
	d.reportError(ctx, failure, update)
}

func (d *Dispatcher) reportError(ctx context.Context, data *HandlerData, update Update) {
	for _, handler := range d.snapshotErrorHandlers() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					data.Log.Errorf(
						"Error handler panicked: %v",
						yaerrors.FromPanic(http.StatusInternalServerError, r, "error handler"),
					)
				}
			}()

			handler(ctx, data, update)
		}()
	}
}
