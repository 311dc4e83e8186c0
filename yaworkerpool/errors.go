package yaworkerpool

import "errors"

var (
	ErrPoolClosed = errors.New("worker pool is closed")
	ErrJobNil     = errors.New("job is nil")
)
