// Package cmderr defines the error kinds surfaced by the ls and cp commands.
package cmderr

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidURL              = errors.New("invalid URL")
	ErrNoMatchingObjects       = errors.New("no matching objects")
	ErrDestinationNotDirectory = errors.New("destination not a directory")
	ErrInvalidDestination      = errors.New("invalid destination")
	ErrBucketNotFound          = errors.New("bucket not found")
)

// Error is a command failure carrying its kind and a user-facing message.
type Error struct {
	// Op is the operation that failed (e.g. "parse", "cp", "download").
	Op string

	// Msg is printed to the user in place of the kind's generic text.
	Msg string

	// Err is the kind or an underlying error.
	Err error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind with a formatted message.
func New(op string, kind error, format string, args ...any) *Error {
	return &Error{
		Op:  op,
		Msg: fmt.Sprintf(format, args...),
		Err: kind,
	}
}
