// Package openrouter implements generation.ModelInvoker against the
// OpenRouter chat completions API (or any OpenAI-compatible endpoint).
//
// A call is a single POST to {base}/chat/completions carrying the system
// prompt, the user's source text and a JSON schema hint describing the
// expected flashcard array. No retries are performed.
package openrouter
