package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/store"
)

// FlashcardInput is one card the user chose to keep.
type FlashcardInput struct {
	Front        string
	Back         string
	Source       domain.FlashcardSource
	GenerationID *uuid.UUID
}

// FlashcardService provides flashcard operations.
type FlashcardService interface {
	// CreateFlashcards persists the accepted cards in one transaction and
	// credits the acceptance counters of the generations they came from.
	CreateFlashcards(ctx context.Context, userID uuid.UUID, inputs []FlashcardInput) ([]*domain.Flashcard, error)

	// ListFlashcards returns the user's flashcards, newest first.
	ListFlashcards(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Flashcard, error)

	// DeleteFlashcard removes one of the user's flashcards.
	DeleteFlashcard(ctx context.Context, userID, id uuid.UUID) error
}

// flashcardServiceImpl implements the FlashcardService interface
type flashcardServiceImpl struct {
	db          *sql.DB
	flashcards  store.FlashcardStore
	generations store.GenerationStore
	logger      *slog.Logger
}

// NewFlashcardService creates a new FlashcardService
// It returns an error if any of the required dependencies are nil.
func NewFlashcardService(
	db *sql.DB,
	flashcards store.FlashcardStore,
	generations store.GenerationStore,
	logger *slog.Logger,
) (FlashcardService, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db cannot be nil", domain.ErrValidation)
	}
	if flashcards == nil {
		return nil, fmt.Errorf("%w: flashcard store cannot be nil", domain.ErrValidation)
	}
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		db:          db,
		flashcards:  flashcards,
		generations: generations,
		logger:      logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

type acceptance struct {
	unedited int
	edited   int
}

// CreateFlashcards implements FlashcardService.CreateFlashcards
func (s *flashcardServiceImpl) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputs []FlashcardInput,
) ([]*domain.Flashcard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(inputs) == 0 {
		return nil, ErrNoFlashcards
	}

	cards := make([]*domain.Flashcard, 0, len(inputs))
	accepted := make(map[uuid.UUID]*acceptance)
	var order []uuid.UUID

	for i, in := range inputs {
		card, err := domain.NewFlashcard(userID, in.GenerationID, in.Front, in.Back, in.Source)
		if err != nil {
			return nil, fmt.Errorf("%w: flashcard %d: %w", domain.ErrValidation, i, err)
		}
		cards = append(cards, card)

		if card.GenerationID == nil {
			continue
		}
		a, ok := accepted[*card.GenerationID]
		if !ok {
			a = &acceptance{}
			accepted[*card.GenerationID] = a
			order = append(order, *card.GenerationID)
		}
		if card.Source == domain.SourceAIEdited {
			a.edited++
		} else {
			a.unedited++
		}
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.flashcards.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
			return NewServiceError("create_flashcards", "failed to save flashcards", err)
		}

		txGenerations := s.generations.WithTx(tx)
		for _, id := range order {
			a := accepted[id]
			if err := txGenerations.IncrementAccepted(ctx, userID, id, a.unedited, a.edited); err != nil {
				if errors.Is(err, store.ErrGenerationNotFound) {
					return fmt.Errorf("%w: %s", ErrGenerationNotOwned, id)
				}
				return NewServiceError("create_flashcards", "failed to update generation counters", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create flashcards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("count", len(cards)))
		return nil, err
	}

	log.Info("flashcards created",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)),
		slog.Int("generations", len(order)))

	return cards, nil
}

// ListFlashcards implements FlashcardService.ListFlashcards
func (s *flashcardServiceImpl) ListFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Flashcard, error) {
	cards, err := s.flashcards.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, NewServiceError("list_flashcards", "failed to list flashcards", err)
	}
	return cards, nil
}

// DeleteFlashcard implements FlashcardService.DeleteFlashcard
func (s *flashcardServiceImpl) DeleteFlashcard(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.flashcards.Delete(ctx, userID, id); err != nil {
		if store.IsNotFoundError(err) {
			return store.ErrFlashcardNotFound
		}
		return NewServiceError("delete_flashcard", "failed to delete flashcard", err)
	}

	log.Debug("flashcard deleted",
		slog.String("user_id", userID.String()),
		slog.String("flashcard_id", id.String()))
	return nil
}
