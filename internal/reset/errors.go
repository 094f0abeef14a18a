package reset

import (
	"errors"
	"fmt"
)

// Kind classifies a reset failure for the client.
type Kind string

const (
	KindInvalidArgument  Kind = "invalid-argument"
	KindNotFound         Kind = "not-found"
	KindDeadlineExceeded Kind = "deadline-exceeded"
	KindInternal         Kind = "internal"
)

// Error carries a client-safe message and the underlying cause, which
// is never surfaced to the client.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func invalidArgument(message string) *Error {
	return &Error{Kind: KindInvalidArgument, Message: message}
}

func notFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func deadlineExceeded(message string) *Error {
	return &Error{Kind: KindDeadlineExceeded, Message: message}
}

func internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf maps any error to its client-facing kind. Unknown errors are
// treated as internal.
func KindOf(err error) Kind {
	var resetErr *Error
	if errors.As(err, &resetErr) {
		return resetErr.Kind
	}
	return KindInternal
}

// Message returns the client-safe message for an error.
func Message(err error) string {
	var resetErr *Error
	if errors.As(err, &resetErr) {
		return resetErr.Message
	}
	return "something went wrong, please try again"
}
