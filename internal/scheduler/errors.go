package scheduler

import "errors"

// ErrClosed is returned by Bind once the scheduler has been closed.
var ErrClosed = errors.New("scheduler: closed")
