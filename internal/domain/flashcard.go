package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FlashcardSource tags where a flashcard's text came from.
type FlashcardSource string

const (
	// SourceAIFull marks text produced by the model and accepted as-is.
	SourceAIFull FlashcardSource = "ai-full"
	// SourceAIEdited marks model text the user changed before accepting.
	SourceAIEdited FlashcardSource = "ai-edited"
	// SourceManual marks a card written entirely by the user.
	SourceManual FlashcardSource = "manual"
)

// Length limits for persisted flashcards, counted in characters.
const (
	MaxFlashcardFrontLength = 200
	MaxFlashcardBackLength  = 500
)

// Flashcard-specific validation errors
var (
	ErrFlashcardUserIDEmpty     = errors.New("flashcard user ID cannot be empty")
	ErrFlashcardFrontEmpty      = errors.New("flashcard front cannot be empty")
	ErrFlashcardBackEmpty       = errors.New("flashcard back cannot be empty")
	ErrFlashcardFrontTooLong    = errors.New("flashcard front is too long")
	ErrFlashcardBackTooLong     = errors.New("flashcard back is too long")
	ErrFlashcardSourceInvalid   = errors.New("invalid flashcard source")
	ErrFlashcardGenerationEmpty = errors.New("AI flashcards must reference a generation")
	ErrFlashcardManualGenerated = errors.New("manual flashcards cannot reference a generation")
)

// IsValid reports whether s is a known source tag.
func (s FlashcardSource) IsValid() bool {
	switch s {
	case SourceAIFull, SourceAIEdited, SourceManual:
		return true
	default:
		return false
	}
}

// FlashcardProposal is an unpersisted candidate flashcard produced by the
// generation pipeline, awaiting the user's review.
type FlashcardProposal struct {
	Front  string          `json:"front"`
	Back   string          `json:"back"`
	Source FlashcardSource `json:"source"`
	UserID uuid.UUID       `json:"user_id,omitempty"`
}

// Flashcard is a card the user has kept.
type Flashcard struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	GenerationID *uuid.UUID      `json:"generation_id,omitempty"`
	Front        string          `json:"front"`
	Back         string          `json:"back"`
	Source       FlashcardSource `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewFlashcard creates a validated Flashcard. generationID must be set for AI
// sources and nil for manual cards.
func NewFlashcard(
	userID uuid.UUID,
	generationID *uuid.UUID,
	front, back string,
	source FlashcardSource,
) (*Flashcard, error) {
	now := time.Now().UTC()
	f := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		GenerationID: generationID,
		Front:        strings.TrimSpace(front),
		Back:         strings.TrimSpace(back),
		Source:       source,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return f, nil
}

// Validate checks if the Flashcard has valid data.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrInvalidID
	}
	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}
	if f.Front == "" {
		return ErrFlashcardFrontEmpty
	}
	if f.Back == "" {
		return ErrFlashcardBackEmpty
	}
	if utf8.RuneCountInString(f.Front) > MaxFlashcardFrontLength {
		return ErrFlashcardFrontTooLong
	}
	if utf8.RuneCountInString(f.Back) > MaxFlashcardBackLength {
		return ErrFlashcardBackTooLong
	}
	if !f.Source.IsValid() {
		return ErrFlashcardSourceInvalid
	}

	hasGeneration := f.GenerationID != nil && *f.GenerationID != uuid.Nil
	if f.Source == SourceManual && hasGeneration {
		return ErrFlashcardManualGenerated
	}
	if f.Source != SourceManual && !hasGeneration {
		return ErrFlashcardGenerationEmpty
	}

	return nil
}
