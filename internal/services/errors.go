package services

import (
	"fmt"

	"github.com/localnerve/ecommerce-api/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValidationError reports malformed or missing input, or a uniqueness
// rule the service checks before touching the store.
type ValidationError struct {
	Message string
	Fields  []validation.FieldError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a referenced id with no row behind it
type NotFoundError struct {
	Entity string
	ID     uint64
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("%s %d not found", cases.Title(language.English).String(e.Entity), e.ID)
}

// ConflictError reports an operation refused because of dependent rows
// or an association that already exists.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// IntegrityError is a unique or foreign key violation raised by the store
// that the service pre-checks did not catch, usually a concurrent writer.
type IntegrityError struct {
	Op  string
	Err error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s: integrity violation: %v", e.Op, e.Err)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// StorageError is any other store failure: lost connection, timeout, bad SQL
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: storage failure: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func invalid(fields []validation.FieldError) error {
	return &ValidationError{Message: "Validation failed", Fields: fields}
}

func notFound(entity string, id uint64) error {
	return &NotFoundError{Entity: entity, ID: id}
}
