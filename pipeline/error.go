package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind defines a public type used by pipeline APIs.
//
// Kind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Kind string

const (
	// KindNetwork is an exported constant or variable used by the request pipeline.
	// No response was obtained: timeout, DNS failure, connection refused. Always
	// safe to retry with identical inputs.
	KindNetwork Kind = "network"
	// KindHTTP is an exported constant or variable used by the request pipeline.
	// A response arrived with a non-2xx status (or a 2xx envelope marked failed).
	KindHTTP Kind = "http"
)

// Category refines [Kind] into the reaction classes callers switch on.
type Category int

const (
	// CategoryNetwork is an exported constant or variable used by the request pipeline.
	CategoryNetwork Category = iota
	// CategoryUnauthorized is an exported constant or variable used by the request pipeline.
	CategoryUnauthorized
	// CategoryForbidden is an exported constant or variable used by the request pipeline.
	CategoryForbidden
	// CategoryValidation is an exported constant or variable used by the request pipeline.
	CategoryValidation
	// CategoryServer is an exported constant or variable used by the request pipeline.
	CategoryServer
)

// Error is the single normalized failure shape produced by the pipeline.
// Status is populated only for KindHTTP. Message carries the backend's error
// text when one was extractable, otherwise the transport's status text.
type Error struct {
	Kind          Kind
	Status        int
	Message       string
	CorrelationID string

	cause error
}

// Error describes the error operation and its observable behavior.
//
// Error may return an error when input validation, dependency calls, or security checks fail.
// Error does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Kind == KindHTTP {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("network: %s", e.Message)
}

// Unwrap describes the unwrap operation and its observable behavior.
//
// Unwrap may return an error when input validation, dependency calls, or security checks fail.
// Unwrap does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Category maps the error into the taxonomy callers react to: network failures,
// 401 unauthorized, 403 forbidden, other 4xx validation rejections, and 5xx
// server faults.
func (e *Error) Category() Category {
	if e == nil || e.Kind == KindNetwork {
		return CategoryNetwork
	}
	switch {
	case e.Status == http.StatusUnauthorized:
		return CategoryUnauthorized
	case e.Status == http.StatusForbidden:
		return CategoryForbidden
	case e.Status >= 400 && e.Status < 500:
		return CategoryValidation
	default:
		return CategoryServer
	}
}

// AsError describes the aserror operation and its observable behavior.
//
// AsError may return an error when input validation, dependency calls, or security checks fail.
// AsError does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsNetwork reports whether err is a pipeline error with no response obtained.
func IsNetwork(err error) bool {
	pe, ok := AsError(err)
	return ok && pe.Kind == KindNetwork
}

// IsUnauthorized reports whether err is an HTTP 401 rejection.
func IsUnauthorized(err error) bool {
	pe, ok := AsError(err)
	return ok && pe.Category() == CategoryUnauthorized
}

// IsForbidden reports whether err is an HTTP 403 rejection.
func IsForbidden(err error) bool {
	pe, ok := AsError(err)
	return ok && pe.Category() == CategoryForbidden
}

// Message extracts the user-facing message from a pipeline error, or falls back
// to err.Error() for foreign errors.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if pe, ok := AsError(err); ok {
		return pe.Message
	}
	return err.Error()
}
