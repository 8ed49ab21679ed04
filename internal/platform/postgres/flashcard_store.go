package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/store"
)

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// CreateMultiple implements store.FlashcardStore.CreateMultiple
// Every card is validated before the first insert. The caller provides the
// transaction through WithTx.
func (s *PostgresFlashcardStore) CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("flashcard validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return err
		}
	}

	query := `
		INSERT INTO flashcards (id, user_id, generation_id, front, back, source, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, card := range cards {
		_, err := s.db.ExecContext(
			ctx,
			query,
			card.ID,
			card.UserID,
			card.GenerationID,
			card.Front,
			card.Back,
			card.Source,
			card.CreatedAt,
			card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to create flashcard",
				slog.String("error", err.Error()),
				slog.String("flashcard_id", card.ID.String()))
			return MapError(err)
		}
	}

	log.Debug("flashcards created", slog.Int("count", len(cards)))
	return nil
}

// ListByUser implements store.FlashcardStore.ListByUser
func (s *PostgresFlashcardStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, generation_id, front, back, source, created_at, updated_at
		FROM flashcards
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		var (
			c            domain.Flashcard
			generationID uuid.NullUUID
			source       string
		)
		if err := rows.Scan(
			&c.ID,
			&c.UserID,
			&generationID,
			&c.Front,
			&c.Back,
			&source,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		if generationID.Valid {
			id := generationID.UUID
			c.GenerationID = &id
		}
		c.Source = domain.FlashcardSource(source)
		cards = append(cards, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// Delete implements store.FlashcardStore.Delete
func (s *PostgresFlashcardStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM flashcards WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		log.Error("failed to delete flashcard",
			slog.String("error", err.Error()),
			slog.String("flashcard_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrFlashcardNotFound); err != nil {
		log.Debug("flashcard not found for delete", slog.String("flashcard_id", id.String()))
		return err
	}

	log.Debug("flashcard deleted", slog.String("flashcard_id", id.String()))
	return nil
}

// WithTx implements store.FlashcardStore.WithTx
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
	}
}
