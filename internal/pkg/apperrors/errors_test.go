package apperrors

import (
	"errors"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidationErrorError(t *testing.T) {
	withField := &ValidationError{Field: "mobile", Message: "mobile must contain digits only"}
	if got := withField.Error(); got != "validation failed for field 'mobile': mobile must contain digits only" {
		t.Errorf("unexpected message: %q", got)
	}

	withoutField := &ValidationError{Message: "bad input"}
	if got := withoutField.Error(); got != "validation failed: bad input" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestNewValidationErrorWrapsSentinel(t *testing.T) {
	err := NewValidationError("name", "customer name cannot be empty")

	if !errors.Is(err, ErrValidation) {
		t.Error("expected error to wrap ErrValidation")
	}

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatal("expected error to unwrap to *ValidationError")
	}
	if validationErr.Field != "name" {
		t.Errorf("expected field 'name', got %q", validationErr.Field)
	}
}

func TestWrapDatabaseError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapDatabaseError(cause, "query failed")

	if !errors.Is(err, ErrDatabase) {
		t.Error("expected error to wrap ErrDatabase")
	}
	if !errors.Is(err, cause) {
		t.Error("expected error to wrap the original cause")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("expected error to unwrap to *AppError")
	}
	if appErr.Code != "DB_ERROR" {
		t.Errorf("expected code DB_ERROR, got %q", appErr.Code)
	}
}
