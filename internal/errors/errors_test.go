package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		expected  string
	}{
		{ErrorTypeValidation, "validation"},
		{ErrorTypeNotFound, "not_found"},
		{ErrorTypeDatabase, "database"},
		{ErrorTypeFetch, "fetch"},
		{ErrorTypeInvalidInput, "invalid_input"},
		{ErrorTypeTimeout, "timeout"},
		{ErrorTypePermission, "permission"},
		{ErrorType(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errorType.String())
		})
	}
}

func TestAppError_Error(t *testing.T) {
	withoutCause := &AppError{Type: ErrorTypeValidation, Message: "invalid input"}
	assert.Equal(t, "validation: invalid input", withoutCause.Error())

	withCause := &AppError{Type: ErrorTypeFetch, Message: "fetch failed: tasks", Cause: errors.New("timeout")}
	assert.Equal(t, "fetch: fetch failed: tasks (caused by: timeout)", withCause.Error())
}

func TestNewFetchError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFetchError("time logs for task 4", cause)

	assert.Equal(t, ErrorTypeFetch, err.Type)
	assert.Equal(t, "FETCH_FAILED", err.Code)
	assert.ErrorIs(t, err, cause)
	operation, ok := err.GetContext("operation")
	require.True(t, ok)
	assert.Equal(t, "time logs for task 4", operation)
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("task", "42")

	assert.Equal(t, ErrorTypeNotFound, err.Type)
	assert.Equal(t, "task not found: 42", err.Message)
	resource, _ := err.GetContext("resource")
	assert.Equal(t, "task", resource)
}

func TestWrapError(t *testing.T) {
	t.Run("plain cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := WrapError(cause, ErrorTypeFetch, "failed to build global time report")

		assert.Equal(t, ErrorTypeFetch, err.Type)
		assert.Equal(t, "fetch", err.Code)
		assert.Equal(t, "failed to build global time report", err.Message)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("app error cause stays reachable", func(t *testing.T) {
		cause := NewPermissionError("fetch", "time_log")
		err := WrapError(cause, ErrorTypeFetch, "failed to build project time report")

		assert.True(t, err.IsType(ErrorTypeFetch))
		assert.True(t, IsErrorType(errors.Unwrap(err), ErrorTypePermission))
		assert.True(t, IsErrorType(fmt.Errorf("outer: %w", err), ErrorTypeFetch))
	})
}

func TestAppError_Is(t *testing.T) {
	a := &AppError{Type: ErrorTypeValidation, Code: "VALIDATION_FAILED"}
	b := &AppError{Type: ErrorTypeValidation, Code: "VALIDATION_FAILED"}
	c := &AppError{Type: ErrorTypeNotFound, Code: "NOT_FOUND"}

	assert.True(t, a.Is(b))
	assert.False(t, a.Is(c))
	assert.False(t, a.Is(errors.New("other")))
}

func TestAsAppError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NewDatabaseError("insert", nil))

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeDatabase, appErr.Type)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", NewValidationError("title is required", nil), "title is required"},
		{"not found", NewNotFoundError("task", "1"), "task not found: 1"},
		{"database", NewDatabaseError("query", nil), "A database error occurred. Please try again."},
		{"fetch", NewFetchError("tasks", nil), "The record store could not be reached. Please try again."},
		{"timeout", NewTimeoutError("report", "5s"), "The operation timed out. Please try again."},
		{"permission", NewPermissionError("fetch", "task"), "permission denied for fetch on task"},
		{"plain", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserMessage(tt.err))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", GetErrorCode(NewNotFoundError("task", "1")))
	assert.Equal(t, "UNKNOWN_ERROR", GetErrorCode(errors.New("plain")))
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewValidationError("bad", nil)))
	assert.False(t, ShouldLogError(NewNotFoundError("task", "1")))
	assert.False(t, ShouldLogError(NewInvalidInputError("id", "x", "not a number")))
	assert.True(t, ShouldLogError(NewFetchError("tasks", nil)))
	assert.True(t, ShouldLogError(NewDatabaseError("query", nil)))
	assert.True(t, ShouldLogError(errors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := (&AppError{Type: ErrorTypeFetch}).WithContext("task_id", int64(3))

	value, ok := err.GetContext("task_id")
	require.True(t, ok)
	assert.Equal(t, int64(3), value)

	_, ok = (&AppError{}).GetContext("missing")
	assert.False(t, ok)
}
