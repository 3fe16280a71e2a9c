// Package errors defines the error taxonomy used across the connection
// service. Errors carry a stable type string so transport layers can map
// them onto HTTP status codes without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Error types
const (
	// ErrBadRequest is returned when the caller supplied malformed or missing input
	ErrBadRequest = "bad_request"

	// ErrNotFound is returned when a provider or credential cannot be found
	ErrNotFound = "not_found"

	// ErrMissingCredentials is returned when an OAuth flow is started without
	// a resolvable client id, client secret, or redirect URI
	ErrMissingCredentials = "missing_credentials"

	// ErrAuthFailed is returned when the identity provider rejected the
	// credentials or consent. Most authentication failures are modeled as
	// data on the token result instead; this type exists for callers that
	// need an error value.
	ErrAuthFailed = "auth_failed"

	// ErrInternal is returned when there is an internal error
	ErrInternal = "internal"
)

// Error represents an error in the application
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, cause error) *Error {
	return NewError(ErrBadRequest, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *Error {
	return NewError(ErrNotFound, message, cause)
}

// NewMissingCredentialsError creates a new missing credentials error
func NewMissingCredentialsError(message string, cause error) *Error {
	return NewError(ErrMissingCredentials, message, cause)
}

// NewAuthFailedError creates a new authentication failed error
func NewAuthFailedError(message string, cause error) *Error {
	return NewError(ErrAuthFailed, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}

// typeOf extracts the taxonomy type from an error, unwrapping as needed.
func typeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsBadRequest checks if the error is a bad request error
func IsBadRequest(err error) bool {
	return typeOf(err) == ErrBadRequest
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return typeOf(err) == ErrNotFound
}

// IsMissingCredentials checks if the error is a missing credentials error
func IsMissingCredentials(err error) bool {
	return typeOf(err) == ErrMissingCredentials
}

// IsAuthFailed checks if the error is an authentication failed error
func IsAuthFailed(err error) bool {
	return typeOf(err) == ErrAuthFailed
}

// IsInternal checks if the error is an internal error
func IsInternal(err error) bool {
	return typeOf(err) == ErrInternal
}
