// Package domain holds the Author and Quote entities and the errors the
// service layer reports about them. The errors carry no HTTP knowledge;
// the HTTP adapter decides status codes.
package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below matches exactly one of them with
// errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrUnavailable = errors.New("unavailable")
)

// NotFoundError names the missing entity and the id as the caller gave it.
// Its message is part of the API: "Quote with id=7 not found".
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError keeps id verbatim so unparsable path ids echo back.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return e.Entity + " with id=" + e.ID + " not found"
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError is a uniqueness violation. Value is the offending value,
// when known.
type ConflictError struct {
	Entity string
	Reason string
	Value  string
}

// NewConflictError reports that value clashes with a stored entity.
func NewConflictError(entity, reason, value string) error {
	return &ConflictError{Entity: entity, Reason: reason, Value: value}
}

func (e *ConflictError) Error() string {
	msg := e.Entity + " conflict: " + e.Reason
	if e.Value != "" {
		msg += " (" + e.Value + ")"
	}

	return msg
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// ValidationError rejects one field. Value is kept for logs only.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// NewValidationError rejects field with message.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue also records the rejected value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return "validation failed for " + e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnavailableError means a backing dependency, the database in practice,
// cannot serve requests.
type UnavailableError struct {
	Service string
	Reason  string
}

// NewUnavailableError reports service as down for reason.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func (e *UnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("service %q unavailable", e.Service)
	}

	return fmt.Sprintf("service %q unavailable: %s", e.Service, e.Reason)
}

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }
