package generation

import (
	"context"
	"testing"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockInvoker(t *testing.T) {
	t.Parallel()

	inv := NewMockInvoker()
	out, err := inv.Invoke(context.Background(), "ignored", "one two three")
	require.NoError(t, err)
	assert.Equal(t, MockModelName, out.Model)

	proposals, err := ExtractProposals(context.Background(), out.Content)
	require.NoError(t, err)
	require.Len(t, proposals, FlashcardsPerGeneration)
	assert.Equal(t, domain.FlashcardProposal{
		Front:  "Sample question 1 about a text of 3 words",
		Back:   "Sample answer 1",
		Source: domain.SourceAIFull,
	}, proposals[0])

	again, err := inv.Invoke(context.Background(), "other prompt", "one two three")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestMockInvoker_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockInvoker().Invoke(ctx, "p", "t")
	assert.ErrorIs(t, err, context.Canceled)
}
