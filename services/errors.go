package services

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned for operations on an unknown notification id.
var ErrNotFound = errors.New("notification not found")

// ValidationError reports a missing required field, rejected before any write.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// StorageError wraps a persistence failure. The consumer treats it as
// retryable; request-facing callers surface it as a server-side failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ChannelError wraps a publish/receive failure on the event queue. The
// producer swallows and logs it, it never reaches the domain caller.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel failure during %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
