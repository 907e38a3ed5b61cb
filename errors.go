package aiofile

import (
	"errors"
	"fmt"

	"github.com/hupe1980/aiofile/aio"
)

var (
	// ErrConcurrentOperation is returned when an operation is attempted
	// while a conflicting one is still outstanding.
	ErrConcurrentOperation = errors.New("another operation is pending")

	// ErrClosedHandle is returned when an operation is attempted on, or
	// failed because of, a closed or unusable descriptor.
	ErrClosedHandle = errors.New("file handle is closed")

	// ErrInvalidArgument is matched by InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
)

// StreamError indicates a backend I/O failure.
//
// The original underlying error can be accessed via errors.Unwrap.
type StreamError struct {
	Op    string
	Path  string
	cause error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Op, e.Path, e.cause)
}

func (e *StreamError) Unwrap() error { return e.cause }

// InvalidArgumentError indicates a rejected argument. It never reaches the
// backend.
type InvalidArgumentError struct {
	Name  string
	Value any
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s=%v", e.Name, e.Value)
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// PipelineError is returned by a queued write or truncate whose predecessor
// failed. The operation was never submitted.
//
// The predecessor's error can be accessed via errors.Unwrap.
type PipelineError struct {
	Op    string
	cause error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("queued %s aborted: previous operation failed: %v", e.Op, e.cause)
}

func (e *PipelineError) Unwrap() error { return e.cause }

func translateError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, aio.ErrBadDescriptor) {
		return fmt.Errorf("%w: %s %s: %w", ErrClosedHandle, op, path, err)
	}

	return &StreamError{Op: op, Path: path, cause: err}
}
