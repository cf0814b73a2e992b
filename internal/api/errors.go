package api

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport Kind = iota + 1
	// KindStatus means a non-2xx response with a structured error body.
	KindStatus
	// KindUnparsable means a non-2xx response whose body was not a JSON error.
	KindUnparsable
	// KindDecode means a 2xx response whose body could not be decoded.
	KindDecode
)

// UnknownErrorMessage is surfaced when a failed response carries no usable body.
const UnknownErrorMessage = "unknown error"

// Error is returned by every Client method on failure.
type Error struct {
	Kind    Kind
	Op      string // e.g. "POST /sign/create"
	Status  int    // HTTP status, zero for transport failures
	Message string // user-facing message
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Kind == KindTransport || e.Kind == KindDecode {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// errorBody is the backend's error convention.
type errorBody struct {
	Error      string `json:"error"`
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}
