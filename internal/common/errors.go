// Package common defines shared constants, sentinel errors and the tagged
// application error used across client and server layers. Callers should use
// errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"net/http"
)

var (
	// Repository-level errors.
	ErrorNotFound          = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Configuration errors.
	ErrMissingSecret = errors.New("secret key is not set")
)

// MsgInternal is the only message clients see for unexpected failures.
const MsgInternal = "Internal server error"

// Kind classifies an AppError independently of its transport representation.
type Kind string

const (
	KindInvalidInput Kind = "invalid_input"
	KindUnauthorized Kind = "unauthorized"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindInternal     Kind = "internal"
)

// AppError is a domain failure carrying its kind, the HTTP status it maps to
// and a message that is safe to show to the client. Err keeps the underlying
// cause for logging and is never serialized.
type AppError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// InvalidInput reports a request that failed validation (400).
func InvalidInput(msg string) *AppError {
	return &AppError{Kind: KindInvalidInput, Status: http.StatusBadRequest, Message: msg}
}

// Unauthorized reports missing or rejected credentials (401).
func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: msg, Err: ErrorUnauthorized}
}

// Conflict reports a uniqueness clash (409).
func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Status: http.StatusConflict, Message: msg, Err: ErrConstraintViolation}
}

// NotFound reports a missing resource (404).
func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Status: http.StatusNotFound, Message: msg, Err: ErrorNotFound}
}

// Internal wraps an unexpected failure (500). The message stays generic.
func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: MsgInternal, Err: err}
}

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
