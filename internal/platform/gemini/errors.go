package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/flashforge/internal/generation"
	"google.golang.org/genai"
)

// mapError translates genai failures into the generation error taxonomy.
// API errors become *generation.ProviderError; anything else is wrapped as-is.
func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status == "" {
			status = http.StatusText(apiErr.Code)
		}
		return &generation.ProviderError{
			StatusCode: apiErr.Code,
			Status:     status,
			Body:       apiErr.Message,
		}
	}
	return fmt.Errorf("gemini request failed: %w", err)
}
