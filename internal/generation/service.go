package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/redact"
	"github.com/phrazzld/flashforge/internal/store"
)

// DefaultRequestTimeout bounds a single model call when no timeout is configured.
const DefaultRequestTimeout = 60 * time.Second

// Result is the outcome of a successful generation.
type Result struct {
	Generation *domain.Generation         `json:"generation"`
	Flashcards []domain.FlashcardProposal `json:"flashcards"`
}

// ServiceConfig holds the settings of a Service. It is built once at startup.
type ServiceConfig struct {
	// RequestTimeout bounds the model call. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// Service orchestrates one generation attempt end to end.
type Service struct {
	invoker     ModelInvoker
	generations store.GenerationStore
	errorLogs   store.GenerationErrorLogStore
	timeout     time.Duration
	logger      *slog.Logger
}

// NewService creates a Service. It returns ErrInvalidConfig if a dependency is nil.
func NewService(
	invoker ModelInvoker,
	generations store.GenerationStore,
	errorLogs store.GenerationErrorLogStore,
	cfg ServiceConfig,
	logger *slog.Logger,
) (*Service, error) {
	if invoker == nil {
		return nil, fmt.Errorf("%w: model invoker cannot be nil", ErrInvalidConfig)
	}
	if generations == nil {
		return nil, fmt.Errorf("%w: generation store cannot be nil", ErrInvalidConfig)
	}
	if errorLogs == nil {
		return nil, fmt.Errorf("%w: generation error log store cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Service{
		invoker:     invoker,
		generations: generations,
		errorLogs:   errorLogs,
		timeout:     timeout,
		logger:      logger.With(slog.String("component", "generation_service")),
	}, nil
}

// Generate turns sourceText into flashcard proposals for userID.
//
// A generation record is created before the model is called and updated once
// the proposals are known. language overrides detection when non-empty and
// must be a supported code. The caller is expected to have validated the
// length of sourceText.
//
// Failures after the record exists are written to the generation error log on
// a best-effort basis and returned unchanged. ErrSessionExpired is returned
// when the store rejects the session, and is never written to the error log.
func (s *Service) Generate(
	ctx context.Context,
	userID uuid.UUID,
	sourceText string,
	language string,
) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	hash := domain.Fingerprint(sourceText)
	length := utf8.RuneCountInString(sourceText)

	record, err := domain.NewGeneration(userID, hash, length)
	if err != nil {
		return nil, fmt.Errorf("invalid generation request: %w", err)
	}

	if err := s.generations.Create(ctx, record); err != nil {
		if errors.Is(err, store.ErrSessionExpired) {
			return nil, ErrSessionExpired
		}
		log.ErrorContext(ctx, "failed to create generation record",
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to create generation record: %w", err)
	}

	log = log.With(slog.String("generation_id", record.ID.String()))
	log.InfoContext(ctx, "generation started",
		slog.String("source_text_hash", hash),
		slog.Int("source_text_length", length))

	started := time.Now()
	model, proposals, err := s.run(ctx, sourceText, language)
	if err != nil {
		s.recordFailure(ctx, log, record, model, err)
		return nil, err
	}

	if err := record.ApplyOutcome(model, len(proposals), time.Since(started)); err != nil {
		s.recordFailure(ctx, log, record, model, err)
		return nil, err
	}

	if err := s.generations.UpdateOutcome(ctx, record); err != nil {
		if errors.Is(err, store.ErrSessionExpired) {
			return nil, ErrSessionExpired
		}
		wrapped := &persistenceError{err: fmt.Errorf("failed to update generation record: %w", err)}
		s.recordFailure(ctx, log, record, model, wrapped)
		return nil, wrapped
	}

	for i := range proposals {
		proposals[i].UserID = userID
	}

	log.InfoContext(ctx, "generation completed",
		slog.String("model", model),
		slog.Int("generated_count", len(proposals)),
		slog.Int64("duration_ms", record.GenerationDurationMs))

	return &Result{Generation: record, Flashcards: proposals}, nil
}

// run performs the language, prompt, model and parse steps. The model name
// is returned even when parsing fails so the error log can name it.
func (s *Service) run(
	ctx context.Context,
	sourceText string,
	language string,
) (string, []domain.FlashcardProposal, error) {
	lang := DetectLanguage(sourceText)
	if language != "" {
		parsed, err := domain.ParseLanguage(language)
		if err != nil {
			return "", nil, err
		}
		lang = parsed
	}

	prompt := BuildSystemPrompt(lang)

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	output, err := s.invoker.Invoke(callCtx, prompt, sourceText)
	if err != nil {
		return "", nil, err
	}

	proposals, err := ExtractProposals(ctx, output.Content)
	if err != nil {
		return output.Model, nil, err
	}

	return output.Model, proposals, nil
}

// recordFailure writes a best-effort error log entry. Errors while writing
// are logged and dropped so they never replace cause.
func (s *Service) recordFailure(
	ctx context.Context,
	log *slog.Logger,
	record *domain.Generation,
	model string,
	cause error,
) {
	code := ErrorCode(cause)
	message := redact.Credentials(cause.Error())

	log.WarnContext(ctx, "generation failed",
		slog.String("error_code", code),
		slog.String("error", message))

	if errors.Is(cause, ErrMissingCredential) {
		return
	}

	entry := domain.NewGenerationErrorLog(
		record.UserID, model, code, message, record.SourceTextHash, record.SourceTextLength,
	)

	// Detached so a cancelled request still leaves a trace.
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.errorLogs.Create(logCtx, entry); err != nil {
		log.ErrorContext(ctx, "failed to write generation error log",
			slog.String("error", redact.Error(err)),
			slog.String("error_code", code))
	}
}
