// Package apperror defines the application error taxonomy and its
// mapping to HTTP statuses and stable wire codes.
package apperror

import (
	"errors"
	"net/http"
)

// Kind categorizes an application error.
type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Unauthorized
	Forbidden
	NotFound
	Conflict
	UpstreamUnavailable
)

// Error is a typed application error carrying a user-facing message
// and an optional wrapped cause. The cause is never serialized to
// clients.
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the stable machine-readable error code.
func (e *Error) Code() string {
	switch e.Kind {
	case InvalidInput:
		return "invalid_input"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case UpstreamUnavailable:
		return "upstream_unavailable"
	default:
		return "internal"
	}
}

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case UpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithDetails attaches a client-visible detail payload.
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewInvalidInput(message string) *Error {
	return New(InvalidInput, message)
}

func NewUnauthorized(message string) *Error {
	return New(Unauthorized, message)
}

func NewForbidden(message string) *Error {
	return New(Forbidden, message)
}

func NewNotFound(message string) *Error {
	return New(NotFound, message)
}

func NewConflict(message string) *Error {
	return New(Conflict, message)
}

func NewUpstream(message string, err error) *Error {
	return Wrap(UpstreamUnavailable, message, err)
}

func NewInternal(message string, err error) *Error {
	return Wrap(Internal, message, err)
}

// From extracts an *Error from err's chain. Any non-application error
// is folded into an Internal error so raw store messages never reach
// clients.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("internal server error", err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
