// Package apperror defines the typed errors returned by the tracker core.
//
// Every constructor returns an *AppError whose Err field is one of the
// sentinels below, so callers branch with errors.Is and read the
// human-readable Message with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation error")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// DuplicateIdentity reports that a record keyed by id already exists.
func DuplicateIdentity(resource, id string) *AppError {
	return &AppError{
		Err:     ErrDuplicateIdentity,
		Message: fmt.Sprintf("%s already exists with id %s", resource, id),
	}
}

// InvalidCredential is the single error returned for every failed login.
// It carries no identity so callers cannot tell an unknown email from a
// wrong password.
func InvalidCredential() *AppError {
	return &AppError{
		Err:     ErrInvalidCredential,
		Message: "invalid email or password",
	}
}

// Unauthenticated is returned by gated operations called without a live
// authenticated session.
func Unauthenticated(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
	}
}
