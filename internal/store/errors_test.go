package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: false,
		},
		{
			name:     "generic error",
			err:      errors.New("some error"),
			expected: false,
		},
		{
			name:     "ErrNotFound",
			err:      ErrNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrNotFound",
			err:      fmt.Errorf("failed to do something: %w", ErrNotFound),
			expected: true,
		},
		{
			name:     "ErrGenerationNotFound",
			err:      ErrGenerationNotFound,
			expected: true,
		},
		{
			name:     "wrapped ErrFlashcardNotFound",
			err:      fmt.Errorf("failed to delete flashcard: %w", ErrFlashcardNotFound),
			expected: true,
		},
		{
			name:     "ErrSessionExpired",
			err:      ErrSessionExpired,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFoundError(tt.err); got != tt.expected {
				t.Errorf("IsNotFoundError() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("failed to create: %w", ErrDuplicate)))
}

func TestStoreError(t *testing.T) {
	originalErr := errors.New("database connection failed")
	storeErr := NewStoreError("generation", "create", "database error", originalErr)

	assert.Equal(t,
		"create operation on generation failed: database error: database connection failed",
		storeErr.Error())
	assert.True(t, errors.Is(storeErr, originalErr))

	var target *StoreError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", storeErr), &target))
	assert.Equal(t, "generation", target.Entity)
}

func TestStoreError_ErrorWithoutWrappedError(t *testing.T) {
	storeErr := &StoreError{
		Entity:    "flashcard",
		Operation: "create",
		Message:   "validation failed",
	}

	assert.Equal(t, "create operation on flashcard failed: validation failed", storeErr.Error())
	assert.Nil(t, storeErr.Unwrap())
}
