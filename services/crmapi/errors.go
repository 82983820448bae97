package crmapi

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

type Kind string

const (
	// KindTransport is a failure to reach the backend or to get its answer.
	KindTransport Kind = "transport"
	// KindApplication is an answer of the backend reporting a failure.
	KindApplication Kind = "application"
)

// Error is any failed call to the backend.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int // 0 for transport failures
	Message    string
	Err        error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("crmapi: %s: %s", e.Op, e.Message)
	if e.StatusCode != 0 {
		s += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
