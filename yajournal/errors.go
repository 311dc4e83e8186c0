package yajournal

import "errors"

var (
	ErrInvalidLimit     = errors.New("journal limit must be positive")
	ErrFailedToRecord   = errors.New("failed to record failure")
	ErrFailedToReadBack = errors.New("failed to read failures")
)
