/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("authority", "com.example.notes")

	expected := `authority "com.example.notes" not found`
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should match ErrNotFound")
	}

	if !IsNotFound(err) {
		t.Error("IsNotFound should return true for NotFoundError")
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		message  string
		expected string
	}{
		{
			name:     "with field",
			field:    "resolver",
			message:  "a resolver is required",
			expected: `validation failed for field "resolver": a resolver is required`,
		},
		{
			name:     "without field",
			field:    "",
			message:  "missing required fields",
			expected: "validation failed: missing required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			if err.Error() != tt.expected {
				t.Errorf("Expected error message %q, got %q", tt.expected, err.Error())
			}

			if !errors.Is(err, ErrInvalidInput) {
				t.Error("ValidationError should match ErrInvalidInput")
			}

			if !IsValidationError(err) {
				t.Error("IsValidationError should return true for ValidationError")
			}
		})
	}
}

func TestStateError(t *testing.T) {
	err := NewStateError("close client", "template does not wrap a provider client")

	expected := "cannot close client: template does not wrap a provider client"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsInvalidState(err) {
		t.Error("IsInvalidState should return true for StateError")
	}
}

func TestUnrecoverableError(t *testing.T) {
	cause := Remote(io.ErrClosedPipe)
	err := NewUnrecoverableError("insert", cause)

	if !IsUnrecoverable(err) {
		t.Error("UnrecoverableError should match ErrUnrecoverable")
	}

	// The cause stays reachable through Unwrap
	if !IsRemote(err) {
		t.Error("UnrecoverableError should unwrap to ErrRemote")
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("UnrecoverableError should unwrap to the original cause")
	}

	var ue *UnrecoverableError
	if !errors.As(err, &ue) || ue.Operation != "insert" {
		t.Fatalf("Expected operation insert, got %+v", ue)
	}
}

func TestRemote(t *testing.T) {
	if Remote(nil) != ErrRemote {
		t.Error("Remote(nil) should return ErrRemote itself")
	}

	err := Remote(io.EOF)
	if !IsRemote(err) || !errors.Is(err, io.EOF) {
		t.Errorf("Remote should wrap both ErrRemote and the cause, got %v", err)
	}
}

func TestColumnError(t *testing.T) {
	byName := NewColumnNameError("title")
	if byName.Error() != `column "title" does not exist` {
		t.Errorf("Unexpected message %q", byName.Error())
	}

	byIndex := NewColumnIndexError(7)
	if byIndex.Error() != "column index 7 out of range" {
		t.Errorf("Unexpected message %q", byIndex.Error())
	}

	if !IsNoSuchColumn(byName) || !IsNoSuchColumn(byIndex) {
		t.Error("ColumnError should match ErrNoSuchColumn")
	}
}

func TestConditionFailedError(t *testing.T) {
	err := NewConditionFailedError("update", "attribute_exists(id)")

	expected := "condition check failed for update operation: attribute_exists(id)"
	if err.Error() != expected {
		t.Errorf("Expected error message %q, got %q", expected, err.Error())
	}

	if !IsConditionFailed(err) {
		t.Error("IsConditionFailed should return true for ConditionFailedError")
	}
}

func TestErrorWrapping(t *testing.T) {
	// Test that wrapped errors still match
	original := NewNotFoundError("authority", "media")
	wrapped := fmt.Errorf("resolve failed: %w", original)

	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should work with wrapped errors")
	}
}

func TestSentinelErrors(t *testing.T) {
	// Ensure sentinel errors are distinct
	sentinels := []error{
		ErrNotFound,
		ErrInvalidInput,
		ErrInvalidState,
		ErrRemote,
		ErrUnrecoverable,
		ErrNoSuchColumn,
		ErrConditionFailed,
	}

	for i, err1 := range sentinels {
		for j, err2 := range sentinels {
			if i != j && errors.Is(err1, err2) {
				t.Errorf("Sentinel errors should be distinct: %v matches %v", err1, err2)
			}
		}
	}
}
