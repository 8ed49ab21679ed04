package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/service/auth"
	"github.com/phrazzld/flashforge/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusInternalServerError},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "wrapped store session", err: fmt.Errorf("create: %w", store.ErrSessionExpired), want: http.StatusUnauthorized},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{name: "generic not found", err: store.ErrNotFound, want: http.StatusNotFound},
		{name: "content blocked", err: generation.ErrContentBlocked, want: http.StatusBadGateway},
		{name: "invalid config", err: generation.ErrInvalidConfig, want: http.StatusServiceUnavailable},
		{name: "unsupported language wrapped", err: fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, "de"), want: http.StatusBadRequest},
		{name: "unknown", err: errors.New("x"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage_NeverEchoesCause(t *testing.T) {
	secret := errors.New("postgres://admin:hunter2@db/flashforge")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(secret))
	assert.Equal(t, "Invalid request data", GetSafeErrorMessage(fmt.Errorf("%w: %w", store.ErrInvalidEntity, secret)))
	assert.Equal(t, "Resource not found", GetSafeErrorMessage(store.ErrNotFound))
}

func TestSanitizeValidationError_NonValidatorError(t *testing.T) {
	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("Field validation for 'x'")))
}
