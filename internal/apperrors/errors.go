// Package apperrors provides coded domain errors shared by the repositories and
// the HTTP layer.
//
// Repositories return errors built from the constructors below. Callers test
// the kind with errors.Is against the sentinels:
//
//	if errors.Is(err, apperrors.ErrNotFound) {
//	    c.JSON(http.StatusNotFound, ...)
//	}
//
// or pull the code out for a status mapping:
//
//	var appErr *apperrors.Error
//	if errors.As(err, &appErr) {
//	    c.JSON(appErr.HTTPStatus(), ...)
//	}
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeValidation         Code = "VALIDATION"
	CodeNotFound           Code = "NOT_FOUND"
	CodeDuplicateEmail     Code = "DUPLICATE_EMAIL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeAlreadyFavorited   Code = "ALREADY_FAVORITED"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeStorageFailure     Code = "STORAGE_FAILURE"
	CodeNotInitialized     Code = "NOT_INITIALIZED"
	CodeInternal           Code = "INTERNAL"
)

// HTTPStatus returns the status code the HTTP layer reports for a code.
// Duplicate email and duplicate favourite use 400, matching what existing
// clients of the library API expect.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation, CodeDuplicateEmail, CodeAlreadyFavorited:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, a message and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause returns a copy of the error wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// WithDetails returns a copy of the error carrying details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// Sentinels for errors.Is.
var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrDuplicateEmail     = &Error{Code: CodeDuplicateEmail, Message: "email already exists"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
	ErrAlreadyFavorited   = &Error{Code: CodeAlreadyFavorited, Message: "already favorited"}
	ErrRateLimited        = &Error{Code: CodeRateLimited, Message: "too many login attempts"}
	ErrStorageFailure     = &Error{Code: CodeStorageFailure, Message: "storage failure"}
	ErrNotInitialized     = &Error{Code: CodeNotInitialized, Message: "collection not initialized"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with per-field details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// NotFound creates a not found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{Code: CodeNotFound, Message: resource + " not found"}
}

// StorageFailure wraps an I/O or decoding error from the durable medium.
func StorageFailure(op string, err error) *Error {
	return &Error{Code: CodeStorageFailure, Message: op, cause: err}
}

// NotInitialized reports a collection that was never created.
func NotInitialized(collection string) *Error {
	return &Error{Code: CodeNotInitialized, Message: fmt.Sprintf("collection %q not initialized", collection)}
}

// Internal creates an internal error, used for programming mistakes.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// CodeOf extracts the code from err, or CodeInternal if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
