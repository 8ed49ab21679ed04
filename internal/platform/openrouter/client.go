package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/logger"
)

// maxErrorBodyBytes caps how much of a failed response body is kept.
const maxErrorBodyBytes = 64 << 10

// Config holds the settings of a Client.
type Config struct {
	// APIKey is the provider credential. It is checked on every call so a
	// missing key surfaces as generation.ErrMissingCredential.
	APIKey string
	// BaseURL includes the API version prefix, e.g. "https://openrouter.ai/api/v1".
	BaseURL string
	// Model is the provider model identifier.
	Model string
	// SiteURL is sent as HTTP-Referer for attribution.
	SiteURL string
	// AppTitle is sent as X-Title for attribution.
	AppTitle string
}

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

var _ generation.ModelInvoker = (*Client)(nil)

// NewClient creates a Client. httpClient may be nil, in which case
// http.DefaultClient is used; the per-call deadline comes from the context.
func NewClient(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "openrouter_client")),
	}, nil
}

// Invoke implements generation.ModelInvoker.
func (c *Client) Invoke(ctx context.Context, systemPrompt, sourceText string) (*generation.RawOutput, error) {
	if c.cfg.APIKey == "" {
		return nil, generation.ErrMissingCredential
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: sourceText},
		},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			// Not strict: strict mode rejects an array root and optional fields.
			JSONSchema: &jsonSchema{
				Name:   "flashcards",
				Strict: false,
				Schema: flashcardSchema(),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if c.cfg.SiteURL != "" {
		req.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	}
	if c.cfg.AppTitle != "" {
		req.Header.Set("X-Title", c.cfg.AppTitle)
	}

	log.DebugContext(ctx, "calling model provider",
		slog.String("model", c.cfg.Model),
		slog.Int("source_text_bytes", len(sourceText)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model provider request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &generation.ProviderError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}

	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return nil, generation.ErrNoContent
	}

	model := chat.Model
	if model == "" {
		model = c.cfg.Model
	}

	log.DebugContext(ctx, "model provider responded",
		slog.String("model", model),
		slog.String("finish_reason", chat.Choices[0].FinishReason))

	return &generation.RawOutput{
		Model:   model,
		Content: chat.Choices[0].Message.Content,
	}, nil
}
