package transport

import (
	"errors"

	"github.com/ganot/project-sentry/internal/repository"
)

// Error kinds.
var (
	ErrTransport = errors.New("transport error")
	ErrServer    = errors.New("server error")
	ErrDecode    = errors.New("decode error")
)

// User-facing messages for failed requests.
const (
	MsgNetwork = "Network error - please check your connection"
	MsgServer  = "Server error occurred"
)

// Error is the single error value returned for a failed API call.
// Message is suitable for display as is.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind. Transport and server errors also match
// repository.ErrUnavailable.
func (e *Error) Is(target error) bool {
	if target == repository.ErrUnavailable {
		return e.Kind == ErrTransport || e.Kind == ErrServer
	}
	return target == e.Kind
}

func transportError(err error) *Error {
	return &Error{Kind: ErrTransport, Message: MsgNetwork, Err: err}
}

func serverError(status int, message string) *Error {
	if message == "" {
		message = MsgServer
	}
	return &Error{Kind: ErrServer, Status: status, Message: message}
}

func decodeError(err error) *Error {
	return &Error{Kind: ErrDecode, Message: err.Error(), Err: err}
}
