// Package httperr classifies failed backend calls into the small set of
// error kinds the console reacts to. Classification is pure; all side
// effects live in the interceptor.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the console-facing category of a failed backend call.
type Kind int

const (
	KindOther Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server_error"
	case KindNetwork:
		return "network_error"
	default:
		return "other"
	}
}

// StatusError is a backend response that arrived with a failure status.
// A transport failure never produces a StatusError.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("http %d", e.Code)
}

// NewStatusError builds a StatusError, falling back to the standard status
// text when the backend gave no message.
func NewStatusError(code int, message string) *StatusError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &StatusError{Code: code, Message: message}
}

// Classify maps an error to its Kind. Errors that carry no response status
// are network failures.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return KindNetwork
	}

	switch statusErr.Code {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return KindServer
	default:
		return KindOther
	}
}

// StatusCode returns the response status carried by err, or 0 for
// transport failures.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
