package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Generation-specific validation errors
var (
	// ErrGenerationUserIDEmpty is returned when a generation's user ID is nil.
	ErrGenerationUserIDEmpty = errors.New("generation user ID cannot be empty")

	// ErrGenerationHashEmpty is returned when the source text fingerprint is missing.
	ErrGenerationHashEmpty = errors.New("generation source text hash cannot be empty")

	// ErrGenerationLengthInvalid is returned when the source text length is not positive.
	ErrGenerationLengthInvalid = errors.New("generation source text length must be positive")

	// ErrGenerationCountInvalid is returned when a count would become negative.
	ErrGenerationCountInvalid = errors.New("generation counts cannot be negative")
)

// Generation is the durable audit record of one generation attempt.
//
// It is created with zero counts and an empty model name before the model is
// called, and updated exactly once after a successful call. A failed attempt
// leaves the record in its initial state; the failure itself is captured by a
// GenerationErrorLog sharing the same fingerprint.
type Generation struct {
	ID                    uuid.UUID `json:"id"`
	UserID                uuid.UUID `json:"user_id"`
	Model                 string    `json:"model"`
	GeneratedCount        int       `json:"generated_count"`
	AcceptedUneditedCount int       `json:"accepted_unedited_count"`
	AcceptedEditedCount   int       `json:"accepted_edited_count"`
	SourceTextHash        string    `json:"source_text_hash"`
	SourceTextLength      int       `json:"source_text_length"`
	GenerationDurationMs  int64     `json:"generation_duration"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewGeneration creates a Generation in its initial state for the given user
// and source fingerprint.
func NewGeneration(userID uuid.UUID, sourceTextHash string, sourceTextLength int) (*Generation, error) {
	now := time.Now().UTC()
	g := &Generation{
		ID:               uuid.New(),
		UserID:           userID,
		SourceTextHash:   sourceTextHash,
		SourceTextLength: sourceTextLength,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return g, nil
}

// Validate checks if the Generation has valid data.
func (g *Generation) Validate() error {
	if g.ID == uuid.Nil {
		return ErrInvalidID
	}

	if g.UserID == uuid.Nil {
		return ErrGenerationUserIDEmpty
	}

	if g.SourceTextHash == "" {
		return ErrGenerationHashEmpty
	}

	if g.SourceTextLength <= 0 {
		return ErrGenerationLengthInvalid
	}

	if g.GeneratedCount < 0 || g.AcceptedUneditedCount < 0 || g.AcceptedEditedCount < 0 {
		return ErrGenerationCountInvalid
	}

	return nil
}

// ApplyOutcome records the result of a successful model call.
func (g *Generation) ApplyOutcome(model string, generatedCount int, duration time.Duration) error {
	if generatedCount < 0 {
		return ErrGenerationCountInvalid
	}

	g.Model = model
	g.GeneratedCount = generatedCount
	g.GenerationDurationMs = duration.Milliseconds()
	g.UpdatedAt = time.Now().UTC()
	return nil
}
