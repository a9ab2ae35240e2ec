// Package apierr defines the error taxonomy services hand back to handlers:
// bad input, not found, unauthorized, and everything else (internal).
package apierr

import (
	"errors"
	"fmt"
)

// Error carries a wire code and a human message. Handlers map Code to an HTTP
// status; anything that is not an *Error is treated as internal and its
// details are kept out of the response body.
type Error struct {
	Code    string // "bad_request", "not_found", "unauthorized"
	Message string
}

func (e *Error) Error() string { return e.Message }

func BadRequest(format string, args ...any) *Error {
	return &Error{Code: "bad_request", Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: "not_found", Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Code: "unauthorized", Message: fmt.Sprintf(format, args...)}
}

// As unwraps err into an *Error if it is one.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
