/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Wrapping and inspection, backed by cockroachdb/errors so stack traces survive.
var (
	New    = crdb.New
	Newf   = crdb.Newf
	Wrap   = crdb.Wrap
	Wrapf  = crdb.Wrapf
	Is     = crdb.Is
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Common sentinel errors
var (
	// ErrDuplicateAttribute is returned when schema composition finds the same field name twice
	ErrDuplicateAttribute = New("duplicate attribute")

	// ErrRequiredField is returned when a required field is set to an empty value
	ErrRequiredField = New("required field")

	// ErrTypeCoercion is returned when a value cannot be converted to a field's data type
	ErrTypeCoercion = New("type coercion failed")

	// ErrTypeMismatch is returned when a key or value does not belong to the expected model type
	ErrTypeMismatch = New("type mismatch")

	// ErrMissingKeyField is returned when a record lacks the reserved key field
	ErrMissingKeyField = New("missing key field")

	// ErrNotFound is returned when an entity is not found
	ErrNotFound = New("entity not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = New("invalid input")

	// ErrCircularLink is returned when following symlinks revisits a key
	ErrCircularLink = New("circular symlink")
)

// DuplicateAttributeError is raised while composing a schema. Existing is the type
// already on file for Field, Incoming the type that tried to contribute it again.
type DuplicateAttributeError struct {
	Field     string
	Existing  string
	Incoming  string
	Inherited bool
}

func (e *DuplicateAttributeError) Error() string {
	if e.Inherited {
		return fmt.Sprintf("duplicate attribute: %s is inherited from both %s and %s", e.Field, e.Existing, e.Incoming)
	}
	return fmt.Sprintf("duplicate attribute: %s declared in %s is already defined in %s", e.Field, e.Incoming, e.Existing)
}

func (e *DuplicateAttributeError) Is(target error) bool {
	return target == ErrDuplicateAttribute
}

// RequiredFieldError represents an attempt to clear a required field
type RequiredFieldError struct {
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("attribute %s is required", e.Field)
}

func (e *RequiredFieldError) Is(target error) bool {
	return target == ErrRequiredField
}

// TypeCoercionError represents a value that cannot be converted to a field's data type
type TypeCoercionError struct {
	Field  string
	Value  any
	Target string
	Cause  error
}

func (e *TypeCoercionError) Error() string {
	msg := fmt.Sprintf("value for attribute %s is of incompatible type %T, must be %s", e.Field, e.Value, e.Target)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *TypeCoercionError) Is(target error) bool {
	return target == ErrTypeCoercion
}

func (e *TypeCoercionError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError represents a key or instance of the wrong model type
type TypeMismatchError struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must have type %q, got %q", e.Subject, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// MissingKeyFieldError represents a record without the reserved key field
type MissingKeyFieldError struct {
	Type  string
	Field string
}

func (e *MissingKeyFieldError) Error() string {
	return fmt.Sprintf("%s record is missing key field %q", e.Type, e.Field)
}

func (e *MissingKeyFieldError) Is(target error) bool {
	return target == ErrMissingKeyField
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Helper functions for creating errors

// NewDuplicateAttributeError creates an error for a field inherited through two independent paths
func NewDuplicateAttributeError(field, existing, incoming string) error {
	return &DuplicateAttributeError{Field: field, Existing: existing, Incoming: incoming, Inherited: true}
}

// NewRedeclaredAttributeError creates an error for a field redeclared below an ancestor that defines it
func NewRedeclaredAttributeError(field, existing, incoming string) error {
	return &DuplicateAttributeError{Field: field, Existing: existing, Incoming: incoming}
}

// NewRequiredFieldError creates a new RequiredFieldError
func NewRequiredFieldError(field string) error {
	return &RequiredFieldError{Field: field}
}

// NewTypeCoercionError creates a new TypeCoercionError
func NewTypeCoercionError(field string, value any, target string, cause error) error {
	return &TypeCoercionError{Field: field, Value: value, Target: target, Cause: cause}
}

// NewTypeMismatchError creates a new TypeMismatchError
func NewTypeMismatchError(subject, expected, actual string) error {
	return &TypeMismatchError{Subject: subject, Expected: expected, Actual: actual}
}

// NewMissingKeyFieldError creates a new MissingKeyFieldError
func NewMissingKeyFieldError(typeName, field string) error {
	return &MissingKeyFieldError{Type: typeName, Field: field}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsDuplicateAttribute checks if an error is a duplicate attribute error
func IsDuplicateAttribute(err error) bool {
	return Is(err, ErrDuplicateAttribute)
}

// IsRequiredField checks if an error is a required field error
func IsRequiredField(err error) bool {
	return Is(err, ErrRequiredField)
}

// IsTypeCoercion checks if an error is a type coercion error
func IsTypeCoercion(err error) bool {
	return Is(err, ErrTypeCoercion)
}

// IsTypeMismatch checks if an error is a type mismatch error
func IsTypeMismatch(err error) bool {
	return Is(err, ErrTypeMismatch)
}

// IsMissingKeyField checks if an error is a missing key field error
func IsMissingKeyField(err error) bool {
	return Is(err, ErrMissingKeyField)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return Is(err, ErrInvalidInput)
}
