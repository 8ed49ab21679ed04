package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
)

// FlashcardStore defines the interface for persisted flashcards.
type FlashcardStore interface {
	// CreateMultiple saves several flashcards.
	// IMPORTANT: This method MUST be run within a transaction for atomicity.
	// Use WithTx together with store.RunInTransaction:
	//
	//   err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
	//       return flashcardStore.WithTx(tx).CreateMultiple(ctx, cards)
	//   })
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// ListByUser returns the user's flashcards, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Flashcard, error)

	// Delete removes one of the user's flashcards.
	// Returns ErrFlashcardNotFound if it does not exist.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a new FlashcardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) FlashcardStore
}
