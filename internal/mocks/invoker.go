package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/flashforge/internal/generation"
)

// MockModelInvoker implements generation.ModelInvoker for testing
type MockModelInvoker struct {
	// InvokeFn allows test cases to mock the Invoke behavior
	InvokeFn func(ctx context.Context, systemPrompt, sourceText string) (*generation.RawOutput, error)

	// Default response values
	Output *generation.RawOutput
	Err    error

	// Call tracking for verification
	InvokeCalls struct {
		// mu protects the call tracking state for concurrent test cases
		mu sync.Mutex

		// Count tracks how many times Invoke was called
		Count int

		// SystemPrompts contains all prompts passed to Invoke calls
		SystemPrompts []string

		// SourceTexts contains all source texts passed to Invoke calls
		SourceTexts []string

		// Contexts contains all contexts passed to Invoke calls
		Contexts []context.Context
	}
}

var _ generation.ModelInvoker = (*MockModelInvoker)(nil)

// Invoke implements the generation.ModelInvoker interface
func (m *MockModelInvoker) Invoke(
	ctx context.Context,
	systemPrompt, sourceText string,
) (*generation.RawOutput, error) {
	m.InvokeCalls.mu.Lock()
	m.InvokeCalls.Count++
	m.InvokeCalls.SystemPrompts = append(m.InvokeCalls.SystemPrompts, systemPrompt)
	m.InvokeCalls.SourceTexts = append(m.InvokeCalls.SourceTexts, sourceText)
	m.InvokeCalls.Contexts = append(m.InvokeCalls.Contexts, ctx)
	m.InvokeCalls.mu.Unlock()

	if m.InvokeFn != nil {
		return m.InvokeFn(ctx, systemPrompt, sourceText)
	}

	return m.Output, m.Err
}

// CallCount returns the number of Invoke calls so far.
func (m *MockModelInvoker) CallCount() int {
	m.InvokeCalls.mu.Lock()
	defer m.InvokeCalls.mu.Unlock()
	return m.InvokeCalls.Count
}

// LastSystemPrompt returns the prompt of the most recent call, or "".
func (m *MockModelInvoker) LastSystemPrompt() string {
	m.InvokeCalls.mu.Lock()
	defer m.InvokeCalls.mu.Unlock()
	if len(m.InvokeCalls.SystemPrompts) == 0 {
		return ""
	}
	return m.InvokeCalls.SystemPrompts[len(m.InvokeCalls.SystemPrompts)-1]
}

// NewMockInvokerWithContent creates a MockModelInvoker answering with content.
func NewMockInvokerWithContent(model string, content any) *MockModelInvoker {
	return &MockModelInvoker{
		Output: &generation.RawOutput{Model: model, Content: content},
	}
}

// NewMockInvokerWithError creates a MockModelInvoker that fails with err.
func NewMockInvokerWithError(err error) *MockModelInvoker {
	return &MockModelInvoker{Err: err}
}
