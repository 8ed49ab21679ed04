package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/service"
	"github.com/phrazzld/flashforge/internal/service/auth"
	"github.com/phrazzld/flashforge/internal/store"
)

// sessionExpiredMessage is shown whenever the database rejects the caller's
// session, whichever endpoint noticed it.
const sessionExpiredMessage = "session expired, please sign in again"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	var providerErr *generation.ProviderError
	var parseErr *generation.ParseError

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, generation.ErrSessionExpired),
		errors.Is(err, store.ErrSessionExpired):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.As(err, &validationErrs),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrUnsupportedLanguage),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrNoFlashcards),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrGenerationNotOwned),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Model provider failures
	case errors.As(err, &providerErr),
		errors.As(err, &parseErr),
		errors.Is(err, generation.ErrNoContent),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusBadGateway

	case errors.Is(err, generation.ErrMissingCredential),
		errors.Is(err, generation.ErrInvalidConfig):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors
	var providerErr *generation.ProviderError
	var parseErr *generation.ParseError

	switch {
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, generation.ErrSessionExpired),
		errors.Is(err, store.ErrSessionExpired):
		return sessionExpiredMessage

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, domain.ErrUnauthorized):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnsupportedLanguage):
		return "Unsupported language"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, service.ErrNoFlashcards):
		return "At least one flashcard is required"

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		if msg := flashcardValidationMessage(err); msg != "" {
			return msg
		}
		return "Invalid request data"

	case errors.Is(err, service.ErrGenerationNotOwned),
		errors.Is(err, store.ErrGenerationNotFound):
		return "Generation not found"

	case errors.Is(err, store.ErrFlashcardNotFound):
		return "Flashcard not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.As(err, &providerErr), errors.Is(err, generation.ErrNoContent):
		return "The language model provider failed to generate flashcards"

	case errors.As(err, &parseErr):
		return "The language model returned a response that could not be read"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The language model refused to process this text"

	case errors.Is(err, generation.ErrMissingCredential),
		errors.Is(err, generation.ErrInvalidConfig):
		return "Flashcard generation is not available"

	case errors.Is(err, context.DeadlineExceeded):
		return "The language model did not answer in time"

	default:
		return "An unexpected error occurred"
	}
}

// flashcardValidationMessage returns the text of a known flashcard validation
// error wrapped in err, or "".
func flashcardValidationMessage(err error) string {
	for _, known := range []error{
		domain.ErrFlashcardFrontEmpty,
		domain.ErrFlashcardBackEmpty,
		domain.ErrFlashcardFrontTooLong,
		domain.ErrFlashcardBackTooLong,
		domain.ErrFlashcardSourceInvalid,
		domain.ErrFlashcardGenerationEmpty,
		domain.ErrFlashcardManualGenerated,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ""
}

// SanitizeValidationError turns the first failed field of a validator error
// into a user-friendly message. Any other error yields a generic message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Validation error"
	}

	fe := validationErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(fe validator.FieldError) string {
	unit := "characters"
	if fe.Kind() == reflect.Slice {
		unit = "items"
	}

	switch fe.Tag() {
	case "required":
		return "required field"
	case "min":
		return fmt.Sprintf("must be at least %s %s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("must be at most %s %s", fe.Param(), unit)
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a UUID"
	default:
		return "validation failed"
	}
}

// HandleAPIError answers the request with the status and safe message that
// correspond to err, and logs the redacted error. A non-empty fallback
// replaces the generic message of unclassified errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
