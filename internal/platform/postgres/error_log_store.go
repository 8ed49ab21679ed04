package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/store"
)

// PostgresGenerationErrorLogStore implements store.GenerationErrorLogStore.
type PostgresGenerationErrorLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGenerationErrorLogStore creates a new PostgresGenerationErrorLogStore.
// If logger is nil, a default logger will be used.
func NewPostgresGenerationErrorLogStore(db store.DBTX, logger *slog.Logger) *PostgresGenerationErrorLogStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGenerationErrorLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "generation_error_log_store")),
	}
}

var _ store.GenerationErrorLogStore = (*PostgresGenerationErrorLogStore)(nil)

// Create implements store.GenerationErrorLogStore.Create
func (s *PostgresGenerationErrorLogStore) Create(ctx context.Context, entry *domain.GenerationErrorLog) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO generation_error_logs
			(id, user_id, model, error_code, error_message, source_text_hash, source_text_length, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.Model,
		entry.ErrorCode,
		entry.ErrorMessage,
		entry.SourceTextHash,
		entry.SourceTextLength,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create generation error log",
			slog.String("error", err.Error()),
			slog.String("error_code", entry.ErrorCode))
		return MapError(err)
	}

	return nil
}

// ListByUser implements store.GenerationErrorLogStore.ListByUser
func (s *PostgresGenerationErrorLogStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GenerationErrorLog, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, model, error_code, error_message, source_text_hash, source_text_length, created_at
		FROM generation_error_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list generation error logs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.GenerationErrorLog, 0)
	for rows.Next() {
		var e domain.GenerationErrorLog
		if err := rows.Scan(
			&e.ID,
			&e.UserID,
			&e.Model,
			&e.ErrorCode,
			&e.ErrorMessage,
			&e.SourceTextHash,
			&e.SourceTextLength,
			&e.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return entries, nil
}
