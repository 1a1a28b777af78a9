package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies business failures independently of any transport
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
)

// Sentinels for errors.Is matching against a kind
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("resource conflict")
	ErrNotFound   = errors.New("resource not found")
)

// ValidationError reports an input that fails a business precondition
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Kind returns KindValidation
func (e *ValidationError) Kind() ErrorKind { return KindValidation }

// Is matches ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports an operation that would break a uniqueness invariant
type ConflictError struct {
	Resource string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with name %q already exists", e.Resource, e.Value)
}

// Kind returns KindConflict
func (e *ConflictError) Kind() ErrorKind { return KindConflict }

// Is matches ErrConflict
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NewConflictError creates a new conflict error
func NewConflictError(resource, value string) *ConflictError {
	return &ConflictError{Resource: resource, Value: value}
}

// NotFoundError reports a missing entity. Entities owned by another user are
// reported the same way as entities that do not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Kind returns KindNotFound
func (e *NotFoundError) Kind() ErrorKind { return KindNotFound }

// Is matches ErrNotFound
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id any) *NotFoundError {
	nf := &NotFoundError{Resource: resource}
	if id != nil {
		nf.ID = fmt.Sprint(id)
	}
	return nf
}

// KindOf returns the business kind carried by err, if any
func KindOf(err error) (ErrorKind, bool) {
	var kinded interface{ Kind() ErrorKind }
	if errors.As(err, &kinded) {
		return kinded.Kind(), true
	}
	return "", false
}
