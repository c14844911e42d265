// Package fault is the single error taxonomy crossing the service
// boundary. Every failure a service returns is a *Fault carrying a
// human-readable message and a numeric status code; raw storage or
// hashing errors never leave the application layer.
package fault

import (
	"errors"
	"net/http"
)

type Fault struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`

	cause error
}

func (f *Fault) Error() string { return f.Message }

func (f *Fault) Unwrap() error { return f.cause }

func New(statusCode int, message string) *Fault {
	return &Fault{Message: message, StatusCode: statusCode}
}

func BadRequest(message string) *Fault { return New(http.StatusBadRequest, message) }

func Unauthorized(message string) *Fault { return New(http.StatusUnauthorized, message) }

func NotFound(message string) *Fault { return New(http.StatusNotFound, message) }

func Conflict(message string) *Fault { return New(http.StatusConflict, message) }

// Internal wraps an unexpected failure. The cause stays attached for
// logging but the message is what callers see.
func Internal(message string, cause error) *Fault {
	return &Fault{Message: message, StatusCode: http.StatusInternalServerError, cause: cause}
}

// As unwraps err into a *Fault when possible.
func As(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
