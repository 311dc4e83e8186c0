package yaupdates

import "errors"

var (
	ErrSourceClosed   = errors.New("update source is closed")
	ErrUnknownKind    = errors.New("unknown update kind")
	ErrInvalidPayload = errors.New("invalid update payload")
)
