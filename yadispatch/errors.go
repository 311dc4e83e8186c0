package yadispatch

import (
	"errors"
	"net/http"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
)

var (
	ErrConfiguration  = errors.New("invalid dispatcher configuration")
	ErrMatch          = errors.New("handler match failed")
	ErrCallback       = errors.New("handler callback failed")
	ErrCallbackPanic  = errors.New("handler callback panicked")
	ErrHandlerStop    = errors.New("handler stopped update propagation")
	ErrHandlerMissing = errors.New("handler is not registered")
	ErrAlreadyRunning = errors.New("dispatcher is already running")
)

// StopPropagation returns the error a blocking callback uses to prevent
// later groups from seeing the current update.
//
// Example usage:
//
//	func onBan(ctx context.Context, data *yadispatch.HandlerData, update yadispatch.Update) yaerrors.Error {
//	    // ...
//	    return yadispatch.StopPropagation()
//	}
func StopPropagation() yaerrors.Error {
	return yaerrors.FromError(http.StatusOK, ErrHandlerStop, "stop propagation")
}

func configurationError(msg string) yaerrors.Error {
	return yaerrors.FromError(http.StatusBadRequest, ErrConfiguration, msg)
}
