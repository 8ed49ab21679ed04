package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/logger"
)

// Generator produces flashcard proposals from source text.
// *generation.Service satisfies it.
type Generator interface {
	Generate(ctx context.Context, userID uuid.UUID, sourceText, language string) (*generation.Result, error)
}

// GenerationHistory reads a user's past generations and generation failures.
// *service.HistoryService satisfies it.
type GenerationHistory interface {
	GetGeneration(ctx context.Context, userID, id uuid.UUID) (*domain.Generation, error)
	ListGenerations(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Generation, error)
	ListErrorLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.GenerationErrorLog, error)
}

// GenerationHandler handles generation-related HTTP requests
type GenerationHandler struct {
	generator Generator
	history   GenerationHistory
	logger    *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(generator Generator, history GenerationHistory, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}

	return &GenerationHandler{
		generator: generator,
		history:   history,
		logger:    logger.With(slog.String("component", "generation_handler")),
	}
}

// CreateGeneration handles POST /api/generations requests.
// It turns the submitted text into flashcard proposals and answers 201 with
// the generation record and the proposals.
func (h *GenerationHandler) CreateGeneration(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid generation request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.generator.Generate(r.Context(), userID, req.Text, req.Language)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate flashcards")
		return
	}

	log.Debug("generation succeeded",
		slog.String("user_id", userID.String()),
		slog.String("generation_id", result.Generation.ID.String()),
		slog.Int("generated_count", len(result.Flashcards)))
	shared.RespondWithJSON(w, r, http.StatusCreated, generateResultToResponse(result))
}

// GetGeneration handles GET /api/generations/{id} requests.
func (h *GenerationHandler) GetGeneration(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	g, err := h.history.GetGeneration(r.Context(), userID, id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get generation")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, generationToResponse(g))
}

// ListGenerations handles GET /api/generations requests.
func (h *GenerationHandler) ListGenerations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	list, err := h.history.ListGenerations(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list generations")
		return
	}

	resp := GenerationListResponse{
		Generations: make([]GenerationResponse, len(list)),
		Limit:       limit,
		Offset:      offset,
	}
	for i, g := range list {
		resp.Generations[i] = generationToResponse(g)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ListErrorLogs handles GET /api/generation-error-logs requests.
func (h *GenerationHandler) ListErrorLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	entries, err := h.history.ListErrorLogs(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list generation error logs")
		return
	}

	resp := GenerationErrorLogListResponse{
		ErrorLogs: make([]GenerationErrorLogResponse, len(entries)),
		Limit:     limit,
		Offset:    offset,
	}
	for i, e := range entries {
		resp.ErrorLogs[i] = errorLogToResponse(e)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
