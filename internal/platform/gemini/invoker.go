package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"google.golang.org/genai"
)

// Config holds the settings of an Invoker.
type Config struct {
	// APIKey is the Gemini API key. When empty every call fails with
	// generation.ErrMissingCredential.
	APIKey string
	// Model is the Gemini model name, e.g. "gemini-2.0-flash".
	Model string
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// Invoker implements generation.ModelInvoker with the Gemini API.
type Invoker struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ generation.ModelInvoker = (*Invoker)(nil)

// NewInvoker creates a new Invoker.
//
// Parameters:
//   - ctx: Context used while constructing the genai client
//   - cfg: Credential, model and optional endpoint override
//   - httpClient: HTTP client for API calls; nil uses the SDK default
//   - logger: A structured logger for operation logging
//
// Returns:
//   - A properly initialized Invoker or an error if initialization fails
func NewInvoker(ctx context.Context, cfg Config, httpClient *http.Client, logger *slog.Logger) (*Invoker, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	inv := &Invoker{
		model:  model,
		logger: logger.With(slog.String("component", "gemini_invoker")),
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		inv.logger.WarnContext(ctx, "gemini API key is not configured; generation requests will fail")
		return inv, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}
	inv.client = client

	return inv, nil
}

// Invoke implements generation.ModelInvoker.
func (i *Invoker) Invoke(ctx context.Context, systemPrompt, sourceText string) (*generation.RawOutput, error) {
	if i.client == nil {
		return nil, generation.ErrMissingCredential
	}

	log := logger.FromContextOrDefault(ctx, i.logger)
	log.DebugContext(ctx, "calling Gemini API", slog.String("model", i.model))

	resp, err := i.client.Models.GenerateContent(ctx, i.model,
		[]*genai.Content{genai.NewContentFromText(sourceText, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    flashcardSchema(),
		},
	)
	if err != nil {
		return nil, mapError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			return nil, generation.ErrContentBlocked
		}
		return nil, generation.ErrNoContent
	}

	model := resp.ModelVersion
	if model == "" {
		model = i.model
	}

	return &generation.RawOutput{Model: model, Content: text}, nil
}
