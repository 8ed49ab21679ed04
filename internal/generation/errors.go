package generation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/phrazzld/flashforge/internal/domain"
)

// Common errors returned by the generation package
var (
	// ErrMissingCredential is returned before any network I/O when the
	// provider credential is not configured.
	ErrMissingCredential = errors.New("model provider credential is not configured")

	// ErrNoContent is returned when the provider answers without any completion text.
	ErrNoContent = errors.New("no content in model response")

	// ErrSessionExpired is returned when the persistence layer rejects the
	// caller's credential while recording a generation. Callers should ask the
	// user to authenticate again.
	ErrSessionExpired = errors.New("session expired, please sign in again")

	// ErrInvalidConfig is returned when an invoker configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrContentBlocked is returned when the provider refuses the content.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")
)

// Parse failure classes. A *ParseError always wraps exactly one of these.
var (
	ErrNoJSONFound  = errors.New("no JSON array or object found in model response")
	ErrInvalidJSON  = errors.New("model response is not valid JSON")
	ErrInvalidShape = errors.New("model response is neither a list of flashcards nor a single flashcard")
)

// ProviderError describes a non-2xx answer from the model provider.
type ProviderError struct {
	StatusCode int
	Status     string
	Body       string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	// http.Response.Status already carries the code ("401 Unauthorized").
	status = strings.TrimSpace(strings.TrimPrefix(status, fmt.Sprint(e.StatusCode)))

	return fmt.Sprintf("model provider returned %d %s: %s", e.StatusCode, status, e.Body)
}

// ParseError reports why a model response could not be turned into proposals.
type ParseError struct {
	// Kind is one of ErrNoJSONFound, ErrInvalidJSON or ErrInvalidShape.
	Kind error
	// Err is the underlying decoder error, if any.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

// Unwrap exposes both the failure class and the underlying cause to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Error codes recorded in generation error logs.
const (
	CodeProviderHTTPError   = "provider_http_error"
	CodeProviderNoContent   = "provider_no_content"
	CodeNetworkError        = "network_error"
	CodeTimeout             = "timeout"
	CodeParseNoJSON         = "parse_no_json"
	CodeParseInvalidJSON    = "parse_invalid_json"
	CodeParseInvalidShape   = "parse_invalid_shape"
	CodePersistenceError    = "persistence_error"
	CodeUnknownError        = "unknown_error"
	CodeContentBlocked      = "content_blocked"
	CodeUnsupportedLanguage = "unsupported_language"
)

// persistenceError marks failures of the generation store after the model call.
type persistenceError struct {
	err error
}

func (e *persistenceError) Error() string { return e.err.Error() }
func (e *persistenceError) Unwrap() error { return e.err }

// ErrorCode classifies err for the generation error log.
func ErrorCode(err error) string {
	var providerErr *ProviderError
	var parseErr *ParseError
	var persistErr *persistenceError
	var netErr net.Error

	switch {
	case err == nil:
		return ""
	case errors.As(err, &persistErr):
		return CodePersistenceError
	case errors.As(err, &providerErr):
		return CodeProviderHTTPError
	case errors.Is(err, ErrNoContent):
		return CodeProviderNoContent
	case errors.Is(err, ErrContentBlocked):
		return CodeContentBlocked
	case errors.Is(err, domain.ErrUnsupportedLanguage):
		return CodeUnsupportedLanguage
	case errors.As(err, &parseErr):
		switch {
		case errors.Is(parseErr.Kind, ErrNoJSONFound):
			return CodeParseNoJSON
		case errors.Is(parseErr.Kind, ErrInvalidJSON):
			return CodeParseInvalidJSON
		default:
			return CodeParseInvalidShape
		}
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return CodeTimeout
		}
		return CodeNetworkError
	default:
		return CodeUnknownError
	}
}
