/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when an authority or record cannot be resolved
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when a required argument is missing or malformed
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState is returned when an operation is not valid for the receiver's configuration
	ErrInvalidState = errors.New("invalid state")

	// ErrRemote is the transport-level failure reported by a dedicated provider connection
	ErrRemote = errors.New("remote provider call failed")

	// ErrUnrecoverable marks a provider client failure that surfaces to the caller as-is
	ErrUnrecoverable = errors.New("unrecoverable provider failure")

	// ErrNoSuchColumn is returned when a cursor is read at a column it does not have
	ErrNoSuchColumn = errors.New("no such column")

	// ErrConditionFailed is returned when a conditional write fails
	ErrConditionFailed = errors.New("condition check failed")
)

// NotFoundError represents an authority or record that could not be resolved
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an invalid or missing argument
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

// StateError represents an operation invoked on a receiver that cannot perform it
type StateError struct {
	Operation string
	Message   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Operation, e.Message)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// UnrecoverableError wraps a transport failure of a provider client together
// with the operation that was being attempted.
type UnrecoverableError struct {
	Operation string
	Err       error
}

func (e *UnrecoverableError) Error() string {
	return fmt.Sprintf("provider client could not %s: %v", e.Operation, e.Err)
}

func (e *UnrecoverableError) Is(target error) bool {
	return target == ErrUnrecoverable
}

func (e *UnrecoverableError) Unwrap() error {
	return e.Err
}

// ColumnError represents a read at a column name or index the cursor does not have
type ColumnError struct {
	Name  string
	Index int
}

func (e *ColumnError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("column %q does not exist", e.Name)
	}
	return fmt.Sprintf("column index %d out of range", e.Index)
}

func (e *ColumnError) Is(target error) bool {
	return target == ErrNoSuchColumn
}

// ConditionFailedError represents a failed conditional operation
type ConditionFailedError struct {
	Operation string
	Condition string
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition check failed for %s operation: %s", e.Operation, e.Condition)
}

func (e *ConditionFailedError) Is(target error) bool {
	return target == ErrConditionFailed
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, key string) error {
	return &NotFoundError{Type: kind, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewStateError creates a new StateError
func NewStateError(operation, message string) error {
	return &StateError{Operation: operation, Message: message}
}

// NewUnrecoverableError creates a new UnrecoverableError
func NewUnrecoverableError(operation string, err error) error {
	return &UnrecoverableError{Operation: operation, Err: err}
}

// NewColumnIndexError creates a ColumnError for an index
func NewColumnIndexError(index int) error {
	return &ColumnError{Index: index}
}

// NewColumnNameError creates a ColumnError for a name
func NewColumnNameError(name string) error {
	return &ColumnError{Name: name, Index: -1}
}

// NewConditionFailedError creates a new ConditionFailedError
func NewConditionFailedError(operation, condition string) error {
	return &ConditionFailedError{Operation: operation, Condition: condition}
}

// Remote wraps err as a transport-level failure of a provider connection.
func Remote(err error) error {
	if err == nil {
		return ErrRemote
	}
	return fmt.Errorf("%w: %w", ErrRemote, err)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsInvalidState checks if an error is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsRemote checks if an error is a transport-level provider connection failure
func IsRemote(err error) bool {
	return errors.Is(err, ErrRemote)
}

// IsUnrecoverable checks if an error is an unrecoverable provider client failure
func IsUnrecoverable(err error) bool {
	return errors.Is(err, ErrUnrecoverable)
}

// IsNoSuchColumn checks if an error is a missing column error
func IsNoSuchColumn(err error) bool {
	return errors.Is(err, ErrNoSuchColumn)
}

// IsConditionFailed checks if an error is a condition failed error
func IsConditionFailed(err error) bool {
	return errors.Is(err, ErrConditionFailed)
}
