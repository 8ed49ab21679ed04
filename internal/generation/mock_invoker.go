package generation

import (
	"context"
	"fmt"
	"strings"
)

// MockModelName is reported by MockInvoker.
const MockModelName = "mock-model-for-development"

// MockInvoker is a deterministic ModelInvoker that never touches the network.
// It answers with five proposals derived from the word count of the source
// text, encoded as a JSON array so the regular parser path is exercised.
type MockInvoker struct{}

// NewMockInvoker creates a MockInvoker.
func NewMockInvoker() *MockInvoker {
	return &MockInvoker{}
}

// Invoke implements ModelInvoker.
func (m *MockInvoker) Invoke(ctx context.Context, systemPrompt, sourceText string) (*RawOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	words := len(strings.Fields(sourceText))

	var b strings.Builder
	b.WriteString("[")
	for i := 1; i <= FlashcardsPerGeneration; i++ {
		if i > 1 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b,
			`{"front":"Sample question %d about a text of %d words","back":"Sample answer %d","hint":"Placeholder hint","difficulty":"easy","tags":["mock"]}`,
			i, words, i)
	}
	b.WriteString("]")

	return &RawOutput{Model: MockModelName, Content: b.String()}, nil
}
