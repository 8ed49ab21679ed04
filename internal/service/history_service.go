package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/store"
)

// HistoryService exposes a user's past generations and generation failures.
type HistoryService struct {
	generations store.GenerationStore
	errorLogs   store.GenerationErrorLogStore
	logger      *slog.Logger
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(
	generations store.GenerationStore,
	errorLogs store.GenerationErrorLogStore,
	logger *slog.Logger,
) (*HistoryService, error) {
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", domain.ErrValidation)
	}
	if errorLogs == nil {
		return nil, fmt.Errorf("%w: generation error log store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &HistoryService{
		generations: generations,
		errorLogs:   errorLogs,
		logger:      logger.With(slog.String("component", "history_service")),
	}, nil
}

// GetGeneration returns one of the user's generation records.
func (s *HistoryService) GetGeneration(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error) {
	g, err := s.generations.GetByID(ctx, userID, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, store.ErrGenerationNotFound
		}
		return nil, NewServiceError("get_generation", "failed to load generation", err)
	}
	return g, nil
}

// ListGenerations returns the user's generation records, newest first.
func (s *HistoryService) ListGenerations(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.Generation, error) {
	list, err := s.generations.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, NewServiceError("list_generations", "failed to list generations", err)
	}
	return list, nil
}

// ListErrorLogs returns the user's generation error log entries, newest first.
func (s *HistoryService) ListErrorLogs(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*domain.GenerationErrorLog, error) {
	list, err := s.errorLogs.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, NewServiceError("list_error_logs", "failed to list generation error logs", err)
	}
	return list, nil
}
