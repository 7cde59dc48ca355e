package cerr

import (
	"context"
	"errors"
	"fmt"
	"runtime"
)

type Error struct {
	Code  Code
	Msg   string // message safe to show to the caller alongside the code
	Err   error  // underlying error kept for logs
	Stack string // stack trace, captured for unexpected codes only
}

func NewError(code Code, msg string, underlying error) *Error {
	err := &Error{
		Code: code,
		Msg:  msg,
		Err:  underlying,
	}
	if code == Unknown || code == Malformed {
		stackTrace := make([]byte, 2048)
		n := runtime.Stack(stackTrace, false)
		err.Stack = string(stackTrace[0:n])
	}
	return err
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code.String(), e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap converts an arbitrary error into a classified one. Context
// cancellation and deadline expiry keep their own codes regardless of the
// requested fallback; an already classified error passes through unchanged.
func Wrap(err error, fallback Code, msg string) error {
	if err == nil {
		return nil
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr
	}
	if errors.Is(err, context.Canceled) {
		return NewError(Canceled, "request canceled", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(DeadlineExceeded, "request timed out", err)
	}
	return NewError(fallback, msg, err)
}

func IsCode(err error, code Code) bool {
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}

// CodeOf reports the classification of err, Unknown when err carries none
// and OK for nil.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var cErr *Error
	if errors.As(err, &cErr) {
		return cErr.Code
	}
	return Unknown
}
