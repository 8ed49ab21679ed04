package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/service"
)

// FlashcardHandler handles flashcard-related HTTP requests
type FlashcardHandler struct {
	flashcardService service.FlashcardService
	logger           *slog.Logger
}

// NewFlashcardHandler creates a new FlashcardHandler
func NewFlashcardHandler(flashcardService service.FlashcardService, logger *slog.Logger) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}

	return &FlashcardHandler{
		flashcardService: flashcardService,
		logger:           logger.With(slog.String("component", "flashcard_handler")),
	}
}

// CreateFlashcards handles POST /api/flashcards requests.
// It stores the cards the user accepted and answers 201 with them.
func (h *FlashcardHandler) CreateFlashcards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateFlashcardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid flashcards request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	inputs := make([]service.FlashcardInput, len(req.Flashcards))
	for i, fc := range req.Flashcards {
		inputs[i] = service.FlashcardInput{
			Front:        fc.Front,
			Back:         fc.Back,
			Source:       domain.FlashcardSource(fc.Source),
			GenerationID: fc.GenerationID,
		}
	}

	cards, err := h.flashcardService.CreateFlashcards(r.Context(), userID, inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to save flashcards")
		return
	}

	resp := FlashcardListResponse{Flashcards: make([]FlashcardResponse, len(cards))}
	for i, card := range cards {
		resp.Flashcards[i] = flashcardToResponse(card)
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// ListFlashcards handles GET /api/flashcards requests.
func (h *FlashcardHandler) ListFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	cards, err := h.flashcardService.ListFlashcards(r.Context(), userID, limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	resp := FlashcardListResponse{
		Flashcards: make([]FlashcardResponse, len(cards)),
		Limit:      limit,
		Offset:     offset,
	}
	for i, card := range cards {
		resp.Flashcards[i] = flashcardToResponse(card)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// DeleteFlashcard handles DELETE /api/flashcards/{id} requests.
func (h *FlashcardHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.flashcardService.DeleteFlashcard(r.Context(), userID, id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
