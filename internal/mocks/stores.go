package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockGenerationStore is a mock of store.GenerationStore for use with testify/mock
type TestifyMockGenerationStore struct {
	mock.Mock
}

var _ store.GenerationStore = (*TestifyMockGenerationStore)(nil)

// Create is a mock implementation of store.GenerationStore.Create
func (m *TestifyMockGenerationStore) Create(ctx context.Context, generation *domain.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

// UpdateOutcome is a mock implementation of store.GenerationStore.UpdateOutcome
func (m *TestifyMockGenerationStore) UpdateOutcome(ctx context.Context, generation *domain.Generation) error {
	args := m.Called(ctx, generation)
	return args.Error(0)
}

// GetByID is a mock implementation of store.GenerationStore.GetByID
func (m *TestifyMockGenerationStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	args := m.Called(ctx, userID, id)
	if g, ok := args.Get(0).(*domain.Generation); ok {
		return g, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByUser is a mock implementation of store.GenerationStore.ListByUser
func (m *TestifyMockGenerationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, error) {
	args := m.Called(ctx, userID, limit, offset)
	if list, ok := args.Get(0).([]*domain.Generation); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// IncrementAccepted is a mock implementation of store.GenerationStore.IncrementAccepted
func (m *TestifyMockGenerationStore) IncrementAccepted(
	ctx context.Context,
	userID, id uuid.UUID,
	unedited, edited int,
) error {
	args := m.Called(ctx, userID, id, unedited, edited)
	return args.Error(0)
}

// WithTx is a mock implementation of store.GenerationStore.WithTx
func (m *TestifyMockGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.GenerationStore); ok {
		return ret
	}
	return m
}

// TestifyMockGenerationErrorLogStore is a mock of store.GenerationErrorLogStore
type TestifyMockGenerationErrorLogStore struct {
	mock.Mock
}

var _ store.GenerationErrorLogStore = (*TestifyMockGenerationErrorLogStore)(nil)

// Create is a mock implementation of store.GenerationErrorLogStore.Create
func (m *TestifyMockGenerationErrorLogStore) Create(ctx context.Context, entry *domain.GenerationErrorLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// ListByUser is a mock implementation of store.GenerationErrorLogStore.ListByUser
func (m *TestifyMockGenerationErrorLogStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GenerationErrorLog, error) {
	args := m.Called(ctx, userID, limit, offset)
	if list, ok := args.Get(0).([]*domain.GenerationErrorLog); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TestifyMockFlashcardStore is a mock of store.FlashcardStore
type TestifyMockFlashcardStore struct {
	mock.Mock
}

var _ store.FlashcardStore = (*TestifyMockFlashcardStore)(nil)

// CreateMultiple is a mock implementation of store.FlashcardStore.CreateMultiple
func (m *TestifyMockFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

// ListByUser is a mock implementation of store.FlashcardStore.ListByUser
func (m *TestifyMockFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Flashcard, error) {
	args := m.Called(ctx, userID, limit, offset)
	if list, ok := args.Get(0).([]*domain.Flashcard); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete is a mock implementation of store.FlashcardStore.Delete
func (m *TestifyMockFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// WithTx is a mock implementation of store.FlashcardStore.WithTx
func (m *TestifyMockFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.FlashcardStore); ok {
		return ret
	}
	return m
}
