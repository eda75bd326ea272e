package fiber

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput indicates a truncated buffer or an inconsistent length field.
	ErrMalformedInput = errors.New("malformed fiber data")
	// ErrIO indicates a failure of the underlying source or sink.
	ErrIO = errors.New("fiber i/o failure")
	// ErrInvalidArgument indicates a FiberSet that cannot be represented in the format.
	ErrInvalidArgument = errors.New("invalid fiber argument")
)

// DecodeError reports where in the buffer decoding stopped.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed fiber data at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap lets callers match with errors.Is(err, ErrMalformedInput).
func (e *DecodeError) Unwrap() error {
	return ErrMalformedInput
}

func malformed(offset int, format string, args ...any) error {
	return &DecodeError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
