package shared

import (
	"errors"
	"strings"
)

// ErrorKind classifies a domain error. The set is closed: every failure
// surfaced by the application layer is exactly one of these kinds.
type ErrorKind int

const (
	// KindInternal is any unexpected failure, typically from persistence
	KindInternal ErrorKind = iota
	// KindNotFound means the requested resource does not exist
	KindNotFound
	// KindValidation means one or more required fields are missing or invalid
	KindValidation
	// KindMalformedRequest means the request itself could not be understood
	KindMalformedRequest
)

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindMalformedRequest:
		return "malformed_request"
	default:
		return "internal"
	}
}

// DomainError represents a domain-level error
type DomainError struct {
	Kind    ErrorKind `json:"-"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details []string  `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same kind and code.
// This lets errors.Is(err, ErrNotFound) match any not-found error.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// NewDomainError creates a new domain error of the given kind
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// NewNotFoundError creates a not-found error with the given message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(KindNotFound, CodeNotFound, message)
}

// NewInternalError wraps err as an internal error, keeping its message
func NewInternalError(err error) *DomainError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DomainError{
		Kind:    KindInternal,
		Code:    CodeInternal,
		Message: msg,
		cause:   err,
	}
}

// NewValidationError creates a validation error carrying one message per failed field
func NewValidationError(details ...string) *DomainError {
	return &DomainError{
		Kind:    KindValidation,
		Code:    CodeValidation,
		Message: strings.Join(details, "; "),
		Details: details,
	}
}

// NewMalformedRequestError wraps a request-level decoding or parsing failure
func NewMalformedRequestError(err error) *DomainError {
	msg := "malformed request"
	if err != nil {
		msg = err.Error()
	}
	return &DomainError{
		Kind:    KindMalformedRequest,
		Code:    CodeMalformedRequest,
		Message: msg,
		cause:   err,
	}
}

// Error codes
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
	CodeValidation       = "VALIDATION_ERROR"
	CodeMalformedRequest = "BAD_REQUEST"
)

// ErrNotFound is returned by repositories when a lookup matches nothing
var ErrNotFound = NewNotFoundError("Resource not found")

// KindOf returns the kind of err. Errors that are not DomainErrors are internal.
func KindOf(err error) ErrorKind {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found domain error
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}
