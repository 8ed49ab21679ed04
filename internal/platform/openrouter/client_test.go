package openrouter_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, baseURL, apiKey string) *openrouter.Client {
	t.Helper()
	client, err := openrouter.NewClient(openrouter.Config{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Model:    "openai/gpt-4o-mini",
		SiteURL:  "https://flashforge.example.com",
		AppTitle: "flashforge",
	}, nil, nil)
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	_, err := openrouter.NewClient(openrouter.Config{Model: "m"}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = openrouter.NewClient(openrouter.Config{BaseURL: "http://localhost"}, nil, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestInvoke_MissingCredentialMakesNoRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newClient(t, server.URL, "")

	out, err := client.Invoke(context.Background(), "prompt", "text")

	assert.Nil(t, out)
	assert.ErrorIs(t, err, generation.ErrMissingCredential)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestInvoke_RequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-or-test", r.Header.Get("Authorization"))
		assert.Equal(t, "https://flashforge.example.com", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "flashforge", r.Header.Get("X-Title"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			ResponseFormat struct {
				Type       string `json:"type"`
				JSONSchema struct {
					Schema struct {
						Type  string `json:"type"`
						Items struct {
							Required []string `json:"required"`
						} `json:"items"`
					} `json:"schema"`
				} `json:"json_schema"`
			} `json:"response_format"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "openai/gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "the prompt", body.Messages[0].Content)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "the source text", body.Messages[1].Content)
		assert.Equal(t, "json_schema", body.ResponseFormat.Type)
		assert.Equal(t, "array", body.ResponseFormat.JSONSchema.Schema.Type)
		assert.ElementsMatch(t,
			[]string{"front", "back", "difficulty", "tags"},
			body.ResponseFormat.JSONSchema.Schema.Items.Required)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"gen-1","model":"openai/gpt-4o-mini-2024","choices":[{"message":{"role":"assistant","content":"[{\"front\":\"Q\",\"back\":\"A\"}]"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := newClient(t, server.URL, "sk-or-test")

	out, err := client.Invoke(context.Background(), "the prompt", "the source text")

	require.NoError(t, err)
	assert.Equal(t, "openai/gpt-4o-mini-2024", out.Model)
	assert.Equal(t, `[{"front":"Q","back":"A"}]`, out.Content)
}

func TestInvoke_ResponseFormatIsAdvisory(t *testing.T) {
	var format map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			ResponseFormat map[string]any `json:"response_format"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		format = body.ResponseFormat

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"m","choices":[{"message":{"role":"assistant","content":"[]"}}]}`))
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, "sk-or-test").Invoke(context.Background(), "prompt", "text")
	require.NoError(t, err)

	require.NotNil(t, format)
	assert.Equal(t, "json_schema", format["type"])
	schema, ok := format["json_schema"].(map[string]any)
	require.True(t, ok, "json_schema missing: %v", format)
	assert.Equal(t, "flashcards", schema["name"])
	assert.Equal(t, false, schema["strict"])

	root, ok := schema["schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", root["type"])
	items, ok := root["items"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, items["required"], "hint")
}

func TestInvoke_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Invalid key"))
	}))
	defer server.Close()

	client := newClient(t, server.URL, "sk-or-test")

	_, err := client.Invoke(context.Background(), "prompt", "text")

	var providerErr *generation.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusUnauthorized, providerErr.StatusCode)
	assert.Equal(t, "Invalid key", providerErr.Body)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.Contains(t, err.Error(), "Invalid key")
}

func TestInvoke_NoContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty choices", body: `{"model":"m","choices":[]}`},
		{name: "blank content", body: `{"model":"m","choices":[{"message":{"role":"assistant","content":"  "}}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := newClient(t, server.URL, "sk-or-test").Invoke(context.Background(), "p", "t")

			assert.ErrorIs(t, err, generation.ErrNoContent)
			assert.Equal(t, generation.CodeProviderNoContent, generation.ErrorCode(err))
		})
	}
}

func TestInvoke_NetworkErrorIsWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newClient(t, url, "sk-or-test").Invoke(context.Background(), "p", "t")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model provider request failed")
	assert.Equal(t, generation.CodeNetworkError, generation.ErrorCode(err))
}

func TestInvoke_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, server.URL, "sk-or-test").Invoke(ctx, "p", "t")

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, generation.CodeTimeout, generation.ErrorCode(err))
}
