package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
)

// Pagination bounds for list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// GenerateRequest defines the payload for starting a generation.
type GenerateRequest struct {
	// Text is the source material. Its length is counted in characters.
	Text string `json:"text" validate:"required,min=1000,max=10000"`

	// Language optionally overrides language detection. Unsupported codes are
	// rejected by the generation service, which also records the attempt.
	Language string `json:"language,omitempty" validate:"omitempty,max=16"`
}

// GenerationResponse is the public view of a generation record.
type GenerationResponse struct {
	ID                    uuid.UUID `json:"id"`
	GeneratedCount        int       `json:"generated_count"`
	AcceptedUneditedCount int       `json:"accepted_unedited_count"`
	AcceptedEditedCount   int       `json:"accepted_edited_count"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
	Model                 string    `json:"model"`
	SourceTextLength      int       `json:"source_text_length,omitempty"`
	GenerationDurationMs  int64     `json:"generation_duration,omitempty"`
}

// ProposalResponse is one unpersisted flashcard proposal.
type ProposalResponse struct {
	Front  string                 `json:"front"`
	Back   string                 `json:"back"`
	Source domain.FlashcardSource `json:"source"`
	UserID uuid.UUID              `json:"user_id"`
}

// GenerateResponse is returned by POST /api/generations.
type GenerateResponse struct {
	Generation GenerationResponse `json:"generation"`
	Flashcards []ProposalResponse `json:"flashcards"`
}

// GenerationListResponse wraps a page of generation records.
type GenerationListResponse struct {
	Generations []GenerationResponse `json:"generations"`
	Limit       int                  `json:"limit"`
	Offset      int                  `json:"offset"`
}

// GenerationErrorLogResponse is the public view of a generation error log entry.
type GenerationErrorLogResponse struct {
	ID               uuid.UUID `json:"id"`
	Model            string    `json:"model"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	CreatedAt        time.Time `json:"created_at"`
}

// GenerationErrorLogListResponse wraps a page of error log entries.
type GenerationErrorLogListResponse struct {
	ErrorLogs []GenerationErrorLogResponse `json:"error_logs"`
	Limit     int                          `json:"limit"`
	Offset    int                          `json:"offset"`
}

// FlashcardRequest is one accepted card.
type FlashcardRequest struct {
	Front        string     `json:"front"                   validate:"required,max=200"`
	Back         string     `json:"back"                    validate:"required,max=500"`
	Source       string     `json:"source"                  validate:"required,oneof=ai-full ai-edited manual"`
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`
}

// CreateFlashcardsRequest defines the payload for POST /api/flashcards.
type CreateFlashcardsRequest struct {
	Flashcards []FlashcardRequest `json:"flashcards" validate:"required,min=1,max=100,dive"`
}

// FlashcardResponse is the public view of a stored flashcard.
type FlashcardResponse struct {
	ID           uuid.UUID              `json:"id"`
	GenerationID *uuid.UUID             `json:"generation_id,omitempty"`
	Front        string                 `json:"front"`
	Back         string                 `json:"back"`
	Source       domain.FlashcardSource `json:"source"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// FlashcardListResponse wraps a list of flashcards.
type FlashcardListResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Limit      int                 `json:"limit,omitempty"`
	Offset     int                 `json:"offset,omitempty"`
}

func generationToResponse(g *domain.Generation) GenerationResponse {
	return GenerationResponse{
		ID:                    g.ID,
		GeneratedCount:        g.GeneratedCount,
		AcceptedUneditedCount: g.AcceptedUneditedCount,
		AcceptedEditedCount:   g.AcceptedEditedCount,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             g.UpdatedAt,
		Model:                 g.Model,
		SourceTextLength:      g.SourceTextLength,
		GenerationDurationMs:  g.GenerationDurationMs,
	}
}

func generateResultToResponse(result *generation.Result) GenerateResponse {
	proposals := make([]ProposalResponse, len(result.Flashcards))
	for i, p := range result.Flashcards {
		proposals[i] = ProposalResponse{
			Front:  p.Front,
			Back:   p.Back,
			Source: p.Source,
			UserID: p.UserID,
		}
	}

	// The creation response carries only the caller-facing subset.
	g := generationToResponse(result.Generation)
	g.SourceTextLength = 0
	g.GenerationDurationMs = 0

	return GenerateResponse{Generation: g, Flashcards: proposals}
}

func errorLogToResponse(e *domain.GenerationErrorLog) GenerationErrorLogResponse {
	return GenerationErrorLogResponse{
		ID:               e.ID,
		Model:            e.Model,
		ErrorCode:        e.ErrorCode,
		ErrorMessage:     e.ErrorMessage,
		SourceTextHash:   e.SourceTextHash,
		SourceTextLength: e.SourceTextLength,
		CreatedAt:        e.CreatedAt,
	}
}

func flashcardToResponse(f *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:           f.ID,
		GenerationID: f.GenerationID,
		Front:        f.Front,
		Back:         f.Back,
		Source:       f.Source,
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.UpdatedAt,
	}
}
