package usecase

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorNotFound     ErrorCode = "NOT_FOUND"
	ErrorInternal     ErrorCode = "INTERNAL_ERROR"
)

// Reasons attached to lookup errors.
const (
	ReasonEmptyInput           = "empty_input"
	ReasonUnsupportedLink      = "unsupported_link"
	ReasonUnresolvedIdentifier = "unresolved_identifier"
	ReasonProfileUnavailable   = "profile_unavailable"
)

type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// AsError extracts a *Error from err. Unknown errors map to ErrorInternal.
func AsError(err error) *Error {
	var ucErr *Error
	if errors.As(err, &ucErr) {
		return ucErr
	}
	return newError(ErrorInternal, "unexpected", err)
}
