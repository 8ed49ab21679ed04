package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/store"
)

const generationColumns = `id, user_id, model, generated_count, accepted_unedited_count,
	accepted_edited_count, source_text_hash, source_text_length, generation_duration,
	created_at, updated_at`

// PostgresGenerationStore implements the store.GenerationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresGenerationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationStore creates a new PostgreSQL implementation of the GenerationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_store")),
	}
}

// Ensure PostgresGenerationStore implements store.GenerationStore interface
var _ store.GenerationStore = (*PostgresGenerationStore)(nil)

// Create implements store.GenerationStore.Create
// It saves a new generation record, handling domain validation.
// Returns store.ErrSessionExpired if the database rejected the session credential.
func (s *PostgresGenerationStore) Create(ctx context.Context, generation *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := generation.Validate(); err != nil {
		log.Warn("generation validation failed during create",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO generations (` + generationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		generation.ID,
		generation.UserID,
		generation.Model,
		generation.GeneratedCount,
		generation.AcceptedUneditedCount,
		generation.AcceptedEditedCount,
		generation.SourceTextHash,
		generation.SourceTextLength,
		generation.GenerationDurationMs,
		generation.CreatedAt,
		generation.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create generation",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()),
			slog.String("user_id", generation.UserID.String()))
		return MapError(err)
	}

	log.Debug("generation created",
		slog.String("generation_id", generation.ID.String()),
		slog.String("user_id", generation.UserID.String()))
	return nil
}

// UpdateOutcome implements store.GenerationStore.UpdateOutcome
func (s *PostgresGenerationStore) UpdateOutcome(ctx context.Context, generation *domain.Generation) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE generations
		SET model = $1, generated_count = $2, generation_duration = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		generation.Model,
		generation.GeneratedCount,
		generation.GenerationDurationMs,
		generation.UpdatedAt,
		generation.ID,
		generation.UserID,
	)
	if err != nil {
		log.Error("failed to update generation outcome",
			slog.String("error", err.Error()),
			slog.String("generation_id", generation.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrGenerationNotFound); err != nil {
		log.Warn("generation not found during outcome update",
			slog.String("generation_id", generation.ID.String()))
		return err
	}

	log.Debug("generation outcome updated",
		slog.String("generation_id", generation.ID.String()),
		slog.String("model", generation.Model),
		slog.Int("generated_count", generation.GeneratedCount))
	return nil
}

// GetByID implements store.GenerationStore.GetByID
func (s *PostgresGenerationStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + generationColumns + ` FROM generations WHERE id = $1 AND user_id = $2`

	generation, err := scanGeneration(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("generation not found", slog.String("generation_id", id.String()))
			return nil, store.ErrGenerationNotFound
		}
		log.Error("failed to get generation by ID",
			slog.String("error", err.Error()),
			slog.String("generation_id", id.String()))
		return nil, MapError(err)
	}

	return generation, nil
}

// ListByUser implements store.GenerationStore.ListByUser
func (s *PostgresGenerationStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + generationColumns + `
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list generations",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	generations := make([]*domain.Generation, 0)
	for rows.Next() {
		generation, err := scanGeneration(rows)
		if err != nil {
			return nil, MapError(err)
		}
		generations = append(generations, generation)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return generations, nil
}

// IncrementAccepted implements store.GenerationStore.IncrementAccepted
func (s *PostgresGenerationStore) IncrementAccepted(
	ctx context.Context,
	userID, id uuid.UUID,
	unedited, edited int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if unedited < 0 || edited < 0 {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrGenerationCountInvalid)
	}

	query := `
		UPDATE generations
		SET accepted_unedited_count = accepted_unedited_count + $1,
			accepted_edited_count = accepted_edited_count + $2,
			updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	result, err := s.db.ExecContext(ctx, query, unedited, edited, time.Now().UTC(), id, userID)
	if err != nil {
		log.Error("failed to increment accepted counts",
			slog.String("error", err.Error()),
			slog.String("generation_id", id.String()))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrGenerationNotFound)
}

// WithTx implements store.GenerationStore.WithTx
// It returns a new GenerationStore instance that uses the provided transaction.
func (s *PostgresGenerationStore) WithTx(tx *sql.Tx) store.GenerationStore {
	return &PostgresGenerationStore{
		db:     tx,
		logger: s.logger,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGeneration(row rowScanner) (*domain.Generation, error) {
	var g domain.Generation
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Model,
		&g.GeneratedCount,
		&g.AcceptedUneditedCount,
		&g.AcceptedEditedCount,
		&g.SourceTextHash,
		&g.SourceTextLength,
		&g.GenerationDurationMs,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
