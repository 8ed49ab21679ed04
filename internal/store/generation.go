package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
)

// GenerationStore defines the interface for generation record persistence.
// Every read and write is scoped to the owning user.
type GenerationStore interface {
	// Create saves a new generation record in its initial state.
	// Returns ErrSessionExpired if the database rejected the session credential.
	Create(ctx context.Context, generation *domain.Generation) error

	// UpdateOutcome writes the model name, generated count, duration and
	// updated_at of an existing record.
	// Returns ErrGenerationNotFound if no record with the ID exists for the user,
	// and ErrSessionExpired if the database rejected the session credential.
	UpdateOutcome(ctx context.Context, generation *domain.Generation) error

	// GetByID retrieves one of the user's generation records.
	// Returns ErrGenerationNotFound if it does not exist.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error)

	// ListByUser returns the user's generation records, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, error)

	// IncrementAccepted adds to the accepted-unedited and accepted-edited
	// counters of one of the user's generation records.
	// Returns ErrGenerationNotFound if it does not exist.
	IncrementAccepted(ctx context.Context, userID, id uuid.UUID, unedited, edited int) error

	// WithTx returns a new GenerationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) GenerationStore
}

// GenerationErrorLogStore defines the interface for generation error log persistence.
type GenerationErrorLogStore interface {
	// Create saves an error log entry.
	Create(ctx context.Context, entry *domain.GenerationErrorLog) error

	// ListByUser returns the user's error log entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GenerationErrorLog, error)
}
