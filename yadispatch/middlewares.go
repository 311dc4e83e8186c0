package yadispatch

import (
	"context"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

// HandlerNext continues the middleware chain.
type HandlerNext func(ctx context.Context, data *HandlerData, update Update) yaerrors.Error

// HandlerMiddleware wraps every callback. Not calling next skips the callback.
type HandlerMiddleware func(ctx context.Context, data *HandlerData, update Update, next HandlerNext) yaerrors.Error

// ErrorHandler receives failed callbacks and aborted passes. data.Err holds the failure.
type ErrorHandler func(ctx context.Context, data *HandlerData, update Update)

// chainMiddleware wraps final so that the first middleware runs outermost.
func chainMiddleware(final HandlerNext, middlewares ...HandlerMiddleware) HandlerNext {
	for i := len(middlewares) - 1; i >= 0; i-- {
		middleware := middlewares[i]
		next := final

		final = func(ctx context.Context, data *HandlerData, update Update) yaerrors.Error {
			return middleware(ctx, data, update, next)
		}
	}

	return final
}
