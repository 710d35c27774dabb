package dispatch

import (
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by Queue operations after Close.
var ErrQueueClosed = errors.New("queue closed")

// ActuationError reports a failed actuator call. It never stops dispatch.
type ActuationError struct {
	Op    string
	Label string
	Err   error
}

func (e *ActuationError) Error() string {
	if e.Label == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s for %q: %v", e.Op, e.Label, e.Err)
}

func (e *ActuationError) Unwrap() error {
	return e.Err
}
