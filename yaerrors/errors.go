package yaerrors

import "errors"

// ErrTeapot is a custom error to report that the backend developer is a teapot, because
// they are dereferencing a nil error.
// This error is used as a safety measure to prevent nil pointer dereference.
var ErrTeapot = errors.New("backend developer is a teapot")

// ErrPanic is the cause attached to errors built from a recovered panic value
// that was not an error itself.
var ErrPanic = errors.New("recovered panic")
