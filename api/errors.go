package api

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by every operation invoked after Close.
	ErrClosed = errors.New("cmdlog: client is closed")

	// ErrWakeup reports a blocking poll interrupted by Wakeup.
	ErrWakeup = errors.New("cmdlog: poll interrupted by wakeup")

	// ErrEmptyCommandID reports an Append with a zero command identifier.
	// This is a contract violation, not a retryable condition.
	ErrEmptyCommandID = errors.New("cmdlog: empty command id")
)

// SendError reports an append that could not be durably committed.
// Interrupted marks a wait for the acknowledgment that was cut short;
// such failures are fatal for the call and never retryable.
//
// Failures raised by polls, seeks and position queries are NOT translated
// into SendError: they propagate to the caller unchanged.
type SendError struct {
	Interrupted bool
	Cause       error
}

func (e *SendError) Error() string {
	if e.Interrupted {
		return fmt.Sprintf("cmdlog: append interrupted: %v", e.Cause)
	}
	return fmt.Sprintf("cmdlog: append failed: %v", e.Cause)
}

func (e *SendError) Unwrap() error {
	return e.Cause
}
