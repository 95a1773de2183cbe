package domain

import (
	"errors"
	"fmt"
)

// Kind tags an Error so the HTTP layer can map it to a status code without
// inspecting messages or concrete types.
type Kind string

const (
	KindNoToken            Kind = "no_token"
	KindAccessDenied       Kind = "access_denied"
	KindInvalidToken       Kind = "invalid_token"
	KindTokenExpired       Kind = "token_expired"
	KindAccountDeactivated Kind = "account_deactivated"
	KindAuthRequired       Kind = "auth_required"
	KindForbidden          Kind = "forbidden"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindValidation         Kind = "validation_failed"
	KindDuplicateKey       Kind = "duplicate_key"
	KindNotFound           Kind = "not_found"
	KindBadRequest         Kind = "bad_request"
	KindTooManyRequests    Kind = "too_many_requests"
	KindInternal           Kind = "internal"
)

// Violation describes a single failed validation rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error is the tagged error variant used across all layers.
type Error struct {
	Kind       Kind
	Message    string
	Field      string      // set for KindDuplicateKey
	Violations []Violation // set for KindValidation
	Err        error       // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, so errors.Is(err, domain.ErrNotFound) holds for any
// not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Sentinels for errors.Is comparisons. Messages are the defaults rendered to clients.
var (
	ErrNoToken            = newError(KindNoToken, "Not authorized, no token provided")
	ErrAccessDenied       = newError(KindAccessDenied, "Not authorized, token failed")
	ErrInvalidToken       = newError(KindInvalidToken, "Invalid token")
	ErrTokenExpired       = newError(KindTokenExpired, "Token expired")
	ErrAccountDeactivated = newError(KindAccountDeactivated, "Account is deactivated")
	ErrAuthRequired       = newError(KindAuthRequired, "Authentication required")
	ErrForbidden          = newError(KindForbidden, "Not authorized to access this route")
	ErrInvalidCredentials = newError(KindInvalidCredentials, "Invalid credentials")
	ErrNotFound           = newError(KindNotFound, "Resource not found")
	ErrDuplicateKey       = newError(KindDuplicateKey, "Duplicate field value entered")
	ErrValidation         = newError(KindValidation, "Validation failed")
	ErrBadRequest         = newError(KindBadRequest, "Bad request")
)

// NotFound returns a not-found error with a resource-specific message.
func NotFound(msg string) *Error {
	return newError(KindNotFound, msg)
}

// Forbidden returns a forbidden error with a custom message.
func Forbidden(msg string) *Error {
	return newError(KindForbidden, msg)
}

// BadRequest returns a 400-class error that is not tied to a specific field rule.
func BadRequest(msg string) *Error {
	return newError(KindBadRequest, msg)
}

// DuplicateKey reports a unique-constraint violation on field.
func DuplicateKey(field string, cause error) *Error {
	return &Error{
		Kind:    KindDuplicateKey,
		Message: fmt.Sprintf("%s already exists", field),
		Field:   field,
		Err:     cause,
	}
}

// ValidationFailed wraps a non-empty list of violations.
func ValidationFailed(violations []Violation) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    "Validation failed",
		Violations: violations,
	}
}

// InvalidID is returned when an identifier cannot be parsed into a storage key.
func InvalidID(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: "Resource not found",
		Err:     fmt.Errorf("malformed id %q", id),
	}
}
