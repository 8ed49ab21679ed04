package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/service"
	"github.com/phrazzld/flashforge/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	fn       func(ctx context.Context, userID uuid.UUID, text, language string) (*generation.Result, error)
	calls    int
	language string
}

func (s *stubGenerator) Generate(ctx context.Context, userID uuid.UUID, text, language string) (*generation.Result, error) {
	s.calls++
	s.language = language
	return s.fn(ctx, userID, text, language)
}

type stubHistory struct {
	generation  *domain.Generation
	generations []*domain.Generation
	errorLogs   []*domain.GenerationErrorLog
	err         error
	limit       int
	offset      int
}

func (s *stubHistory) GetGeneration(_ context.Context, _, id uuid.UUID) (*domain.Generation, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.generation == nil || s.generation.ID != id {
		return nil, store.ErrGenerationNotFound
	}
	return s.generation, nil
}

func (s *stubHistory) ListGenerations(_ context.Context, _ uuid.UUID, limit, offset int) ([]*domain.Generation, error) {
	s.limit, s.offset = limit, offset
	return s.generations, s.err
}

func (s *stubHistory) ListErrorLogs(_ context.Context, _ uuid.UUID, limit, offset int) ([]*domain.GenerationErrorLog, error) {
	s.limit, s.offset = limit, offset
	return s.errorLogs, s.err
}

type stubFlashcardService struct {
	createFn func(ctx context.Context, userID uuid.UUID, inputs []service.FlashcardInput) ([]*domain.Flashcard, error)
	listed   []*domain.Flashcard
	err      error
	deleted  []uuid.UUID
}

func (s *stubFlashcardService) CreateFlashcards(
	ctx context.Context,
	userID uuid.UUID,
	inputs []service.FlashcardInput,
) ([]*domain.Flashcard, error) {
	return s.createFn(ctx, userID, inputs)
}

func (s *stubFlashcardService) ListFlashcards(context.Context, uuid.UUID, int, int) ([]*domain.Flashcard, error) {
	return s.listed, s.err
}

func (s *stubFlashcardService) DeleteFlashcard(_ context.Context, _, id uuid.UUID) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// newTestRouter mounts the handlers the way the server does, with the user
// ID injected in place of token authentication.
func newTestRouter(t *testing.T, userID uuid.UUID, gen Generator, history GenerationHistory, cards service.FlashcardService) http.Handler {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	genHandler := NewGenerationHandler(gen, history, log)
	cardHandler := NewFlashcardHandler(cards, log)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := shared.WithTraceID(req.Context(), "trace-test")
			if userID != uuid.Nil {
				ctx = shared.WithUserID(ctx, userID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/api/generations", genHandler.CreateGeneration)
	r.Get("/api/generations", genHandler.ListGenerations)
	r.Get("/api/generations/{id}", genHandler.GetGeneration)
	r.Get("/api/generation-error-logs", genHandler.ListErrorLogs)
	r.Post("/api/flashcards", cardHandler.CreateFlashcards)
	r.Get("/api/flashcards", cardHandler.ListFlashcards)
	r.Delete("/api/flashcards/{id}", cardHandler.DeleteFlashcard)
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateGeneration_Success(t *testing.T) {
	userID := uuid.New()
	record := &domain.Generation{
		ID:             uuid.New(),
		UserID:         userID,
		Model:          "openai/gpt-4o-mini",
		GeneratedCount: 2,
		CreatedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:      time.Date(2026, 1, 2, 3, 4, 6, 0, time.UTC),
	}
	gen := &stubGenerator{fn: func(_ context.Context, uid uuid.UUID, text, _ string) (*generation.Result, error) {
		assert.Equal(t, userID, uid)
		assert.Len(t, text, 1200)
		return &generation.Result{
			Generation: record,
			Flashcards: []domain.FlashcardProposal{
				{Front: "Q1", Back: "A1", Source: domain.SourceAIFull, UserID: userID},
				{Front: "Q2", Back: "A2", Source: domain.SourceAIFull, UserID: userID},
			},
		}, nil
	}}
	router := newTestRouter(t, userID, gen, &stubHistory{}, &stubFlashcardService{})

	rec := doRequest(t, router, http.MethodPost, "/api/generations",
		GenerateRequest{Text: strings.Repeat("a", 1200), Language: "pl"})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "pl", gen.language)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	g := body["generation"].(map[string]any)
	assert.Equal(t, record.ID.String(), g["id"])
	assert.Equal(t, "openai/gpt-4o-mini", g["model"])
	assert.EqualValues(t, 2, g["generated_count"])
	assert.EqualValues(t, 0, g["accepted_unedited_count"])
	assert.EqualValues(t, 0, g["accepted_edited_count"])
	assert.Equal(t, "2026-01-02T03:04:05Z", g["created_at"])
	assert.NotContains(t, g, "source_text_length")

	cards := body["flashcards"].([]any)
	require.Len(t, cards, 2)
	first := cards[0].(map[string]any)
	assert.Equal(t, "Q1", first["front"])
	assert.Equal(t, "ai-full", first["source"])
	assert.Equal(t, userID.String(), first["user_id"])
}

func TestCreateGeneration_RequestValidation(t *testing.T) {
	gen := &stubGenerator{fn: func(context.Context, uuid.UUID, string, string) (*generation.Result, error) {
		t.Fatal("generator must not be called")
		return nil, nil
	}}
	router := newTestRouter(t, uuid.New(), gen, &stubHistory{}, &stubFlashcardService{})

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{name: "too short", body: GenerateRequest{Text: strings.Repeat("a", 999)}, message: "Invalid text: must be at least 1000 characters"},
		{name: "too long", body: GenerateRequest{Text: strings.Repeat("a", 10001)}, message: "Invalid text: must be at most 10000 characters"},
		{name: "missing", body: GenerateRequest{}, message: "Invalid text: required field"},
		{name: "malformed", body: `{"text":`, message: "Invalid request format"},
		{name: "unknown field", body: `{"txt":"x"}`, message: "Invalid request format"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/generations", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tc.message, resp.Error)
			assert.Equal(t, "trace-test", resp.TraceID)
		})
	}
	assert.Zero(t, gen.calls)
}

func TestCreateGeneration_TextLengthCountsCharacters(t *testing.T) {
	gen := &stubGenerator{fn: func(_ context.Context, uid uuid.UUID, _, _ string) (*generation.Result, error) {
		return &generation.Result{Generation: &domain.Generation{ID: uuid.New(), UserID: uid}}, nil
	}}
	router := newTestRouter(t, uuid.New(), gen, &stubHistory{}, &stubFlashcardService{})

	// 1000 two-byte characters are 2000 bytes but still within bounds.
	rec := doRequest(t, router, http.MethodPost, "/api/generations",
		GenerateRequest{Text: strings.Repeat("ż", 1000)})

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, gen.calls)
}

func TestCreateGeneration_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "provider rejects key",
			err:     &generation.ProviderError{StatusCode: 401, Body: `{"error":"Invalid key sk-or-v1-abcdefghijklmnopqrstuvwxyz"}`},
			status:  http.StatusBadGateway,
			message: "The language model provider failed to generate flashcards",
		},
		{
			name:    "unparseable response",
			err:     &generation.ParseError{Kind: generation.ErrNoJSONFound},
			status:  http.StatusBadGateway,
			message: "The language model returned a response that could not be read",
		},
		{
			name:    "no content",
			err:     generation.ErrNoContent,
			status:  http.StatusBadGateway,
			message: "The language model provider failed to generate flashcards",
		},
		{
			name:    "session expired",
			err:     generation.ErrSessionExpired,
			status:  http.StatusUnauthorized,
			message: "session expired, please sign in again",
		},
		{
			name:    "unsupported language",
			err:     domain.ErrUnsupportedLanguage,
			status:  http.StatusBadRequest,
			message: "Unsupported language",
		},
		{
			name:    "missing credential",
			err:     generation.ErrMissingCredential,
			status:  http.StatusServiceUnavailable,
			message: "Flashcard generation is not available",
		},
		{
			name:    "timeout",
			err:     context.DeadlineExceeded,
			status:  http.StatusGatewayTimeout,
			message: "The language model did not answer in time",
		},
		{
			name:    "unclassified",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Failed to generate flashcards",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{fn: func(context.Context, uuid.UUID, string, string) (*generation.Result, error) {
				return nil, tc.err
			}}
			router := newTestRouter(t, uuid.New(), gen, &stubHistory{}, &stubFlashcardService{})

			rec := doRequest(t, router, http.MethodPost, "/api/generations",
				GenerateRequest{Text: strings.Repeat("a", 1000)})

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Error)
			assert.NotContains(t, rec.Body.String(), "sk-or-v1")
		})
	}
}

func TestCreateGeneration_RequiresUser(t *testing.T) {
	router := newTestRouter(t, uuid.Nil, &stubGenerator{}, &stubHistory{}, &stubFlashcardService{})

	rec := doRequest(t, router, http.MethodPost, "/api/generations",
		GenerateRequest{Text: strings.Repeat("a", 1000)})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerationHistoryEndpoints(t *testing.T) {
	userID := uuid.New()
	record := &domain.Generation{ID: uuid.New(), UserID: userID, Model: "m", GeneratedCount: 3, AcceptedEditedCount: 1}
	history := &stubHistory{
		generation:  record,
		generations: []*domain.Generation{record},
		errorLogs: []*domain.GenerationErrorLog{
			{ID: uuid.New(), UserID: userID, Model: domain.UnknownModel, ErrorCode: generation.CodeTimeout, SourceTextLength: 1500},
		},
	}
	router := newTestRouter(t, userID, &stubGenerator{}, history, &stubFlashcardService{})

	t.Run("get", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/generations/"+record.ID.String(), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp GenerationResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, record.ID, resp.ID)
		assert.Equal(t, 1, resp.AcceptedEditedCount)
	})

	t.Run("get unknown", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/generations/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Generation not found", decodeError(t, rec).Error)
	})

	t.Run("get malformed id", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/generations/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid ID", decodeError(t, rec).Error)
	})

	t.Run("list with pagination", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/generations?limit=500&offset=10", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp GenerationListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Generations, 1)
		assert.Equal(t, MaxPageSize, resp.Limit)
		assert.Equal(t, MaxPageSize, history.limit)
		assert.Equal(t, 10, history.offset)
	})

	t.Run("list rejects bad pagination", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/generations?offset=-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("error logs", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/generation-error-logs", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp GenerationErrorLogListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.ErrorLogs, 1)
		assert.Equal(t, "timeout", resp.ErrorLogs[0].ErrorCode)
		assert.Equal(t, "unknown", resp.ErrorLogs[0].Model)
		assert.Equal(t, DefaultPageSize, resp.Limit)
	})
}

func TestCreateFlashcards(t *testing.T) {
	userID, genID := uuid.New(), uuid.New()

	var got []service.FlashcardInput
	cards := &stubFlashcardService{createFn: func(_ context.Context, uid uuid.UUID, inputs []service.FlashcardInput) ([]*domain.Flashcard, error) {
		got = inputs
		out := make([]*domain.Flashcard, len(inputs))
		for i, in := range inputs {
			out[i] = &domain.Flashcard{ID: uuid.New(), UserID: uid, GenerationID: in.GenerationID, Front: in.Front, Back: in.Back, Source: in.Source}
		}
		return out, nil
	}}
	router := newTestRouter(t, userID, &stubGenerator{}, &stubHistory{}, cards)

	rec := doRequest(t, router, http.MethodPost, "/api/flashcards", CreateFlashcardsRequest{
		Flashcards: []FlashcardRequest{
			{Front: "Q1", Back: "A1", Source: "ai-full", GenerationID: &genID},
			{Front: "Q2", Back: "A2", Source: "manual"},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, got, 2)
	assert.Equal(t, domain.SourceAIFull, got[0].Source)
	assert.Equal(t, &genID, got[0].GenerationID)
	assert.Nil(t, got[1].GenerationID)

	var resp FlashcardListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Flashcards, 2)
	assert.Equal(t, genID, *resp.Flashcards[0].GenerationID)
}

func TestCreateFlashcards_Validation(t *testing.T) {
	cards := &stubFlashcardService{createFn: func(context.Context, uuid.UUID, []service.FlashcardInput) ([]*domain.Flashcard, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	router := newTestRouter(t, uuid.New(), &stubGenerator{}, &stubHistory{}, cards)

	tests := []struct {
		name    string
		body    any
		message string
	}{
		{
			name:    "empty batch",
			body:    CreateFlashcardsRequest{Flashcards: []FlashcardRequest{}},
			message: "Invalid flashcards: must be at least 1 items",
		},
		{
			name:    "front too long",
			body:    CreateFlashcardsRequest{Flashcards: []FlashcardRequest{{Front: strings.Repeat("q", 201), Back: "A", Source: "manual"}}},
			message: "Invalid front: must be at most 200 characters",
		},
		{
			name:    "back too long",
			body:    CreateFlashcardsRequest{Flashcards: []FlashcardRequest{{Front: "Q", Back: strings.Repeat("a", 501), Source: "manual"}}},
			message: "Invalid back: must be at most 500 characters",
		},
		{
			name:    "unknown source",
			body:    CreateFlashcardsRequest{Flashcards: []FlashcardRequest{{Front: "Q", Back: "A", Source: "robot"}}},
			message: "Invalid source: must be one of: ai-full ai-edited manual",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/flashcards", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Error)
		})
	}
}

func TestCreateFlashcards_ServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "foreign generation",
			err:     service.ErrGenerationNotOwned,
			status:  http.StatusNotFound,
			message: "Generation not found",
		},
		{
			name:    "domain validation",
			err:     errors.Join(domain.ErrValidation, domain.ErrFlashcardGenerationEmpty),
			status:  http.StatusBadRequest,
			message: "AI flashcards must reference a generation",
		},
		{
			name:    "session expired",
			err:     store.ErrSessionExpired,
			status:  http.StatusUnauthorized,
			message: "session expired, please sign in again",
		},
		{
			name:    "store failure",
			err:     service.NewServiceError("create_flashcards", "failed", errors.New("disk full")),
			status:  http.StatusInternalServerError,
			message: "Failed to save flashcards",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cards := &stubFlashcardService{createFn: func(context.Context, uuid.UUID, []service.FlashcardInput) ([]*domain.Flashcard, error) {
				return nil, tc.err
			}}
			router := newTestRouter(t, uuid.New(), &stubGenerator{}, &stubHistory{}, cards)

			rec := doRequest(t, router, http.MethodPost, "/api/flashcards", CreateFlashcardsRequest{
				Flashcards: []FlashcardRequest{{Front: "Q", Back: "A", Source: "manual"}},
			})

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeError(t, rec).Error)
		})
	}
}

func TestListAndDeleteFlashcards(t *testing.T) {
	userID, id := uuid.New(), uuid.New()
	cards := &stubFlashcardService{
		listed: []*domain.Flashcard{{ID: id, UserID: userID, Front: "Q", Back: "A", Source: domain.SourceManual}},
	}
	router := newTestRouter(t, userID, &stubGenerator{}, &stubHistory{}, cards)

	rec := doRequest(t, router, http.MethodGet, "/api/flashcards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp FlashcardListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Flashcards, 1)
	assert.Equal(t, id, resp.Flashcards[0].ID)

	rec = doRequest(t, router, http.MethodDelete, "/api/flashcards/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []uuid.UUID{id}, cards.deleted)

	cards.err = store.ErrFlashcardNotFound
	rec = doRequest(t, router, http.MethodDelete, "/api/flashcards/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Flashcard not found", decodeError(t, rec).Error)
}
