package generation

import "context"

// RawOutput is the unprocessed answer of a model call.
type RawOutput struct {
	// Model is the model name reported by the provider.
	Model string
	// Content is the completion text, or an already decoded value when the
	// provider returns structured output. It is the input of ExtractProposals.
	Content any
}

// ModelInvoker sends a system prompt and the user's source text to a language
// model. This interface serves as a boundary between the pipeline and
// external LLM services.
type ModelInvoker interface {
	// Invoke performs a single model call; implementations do not retry.
	//
	// Parameters:
	//   - ctx: Context for the call, carrying the request timeout
	//   - systemPrompt: Instruction built by BuildSystemPrompt
	//   - sourceText: The user's text, sent verbatim as the user turn
	//
	// Returns:
	//   - The raw model output
	//   - ErrMissingCredential before any I/O when no credential is configured,
	//     a *ProviderError for non-2xx answers, ErrNoContent for an empty
	//     completion, or the wrapped transport error
	Invoke(ctx context.Context, systemPrompt, sourceText string) (*RawOutput, error)
}

// InvokerFunc adapts an ordinary function to the ModelInvoker interface.
type InvokerFunc func(ctx context.Context, systemPrompt, sourceText string) (*RawOutput, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, systemPrompt, sourceText string) (*RawOutput, error) {
	return f(ctx, systemPrompt, sourceText)
}
