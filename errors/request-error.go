package errors

import (
	"errors"
)

const (
	TypeTimeout = "timeout"
	TypeError   = "error"
)

var (
	// Cancellation cause used when the request timeout elapses.
	ErrTimeout = errors.New("xhr: request timed out")
	// Cancellation cause used by an explicit Abort.
	ErrAbort = errors.New("xhr: request aborted")
)

type RequestError struct {
	Message     string
	Description error
	Type        string
}

func NewRequestError(reason string, description error) *RequestError {
	t := TypeError
	if errors.Is(description, ErrTimeout) {
		t = TypeTimeout
	}
	return &RequestError{
		Message:     reason,
		Description: description,
		Type:        t,
	}
}

func (e *RequestError) Err() error {
	return e
}

func (e *RequestError) Error() string {
	if e.Description == nil {
		return e.Message
	}
	return e.Message + ": " + e.Description.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Description
}

// Timeout reports whether the request was cancelled by its timeout.
func (e *RequestError) Timeout() bool {
	return e.Type == TypeTimeout
}
