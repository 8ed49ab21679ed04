package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnknownModel is recorded when a generation fails before the model name is known.
const UnknownModel = "unknown"

// GenerationErrorLog records one failed generation attempt. Entries are
// written on a best-effort basis and are not linked to a Generation row;
// the two share only the source fingerprint.
type GenerationErrorLog struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Model            string    `json:"model"`
	ErrorCode        string    `json:"error_code"`
	ErrorMessage     string    `json:"error_message"`
	SourceTextHash   string    `json:"source_text_hash"`
	SourceTextLength int       `json:"source_text_length"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewGenerationErrorLog builds an error log entry. An empty model is stored as
// UnknownModel.
func NewGenerationErrorLog(
	userID uuid.UUID,
	model, errorCode, errorMessage, sourceTextHash string,
	sourceTextLength int,
) *GenerationErrorLog {
	if model == "" {
		model = UnknownModel
	}

	return &GenerationErrorLog{
		ID:               uuid.New(),
		UserID:           userID,
		Model:            model,
		ErrorCode:        errorCode,
		ErrorMessage:     errorMessage,
		SourceTextHash:   sourceTextHash,
		SourceTextLength: sourceTextLength,
		CreatedAt:        time.Now().UTC(),
	}
}
