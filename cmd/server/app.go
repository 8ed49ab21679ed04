package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/gemini"
	"github.com/phrazzld/flashforge/internal/platform/openrouter"
	"github.com/phrazzld/flashforge/internal/platform/postgres"
	"github.com/phrazzld/flashforge/internal/ratelimit"
	"github.com/phrazzld/flashforge/internal/service"
	"github.com/phrazzld/flashforge/internal/service/auth"
	"github.com/phrazzld/flashforge/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	generationStore store.GenerationStore
	errorLogStore   store.GenerationErrorLogStore
	flashcardStore  store.FlashcardStore

	jwtService       auth.JWTService
	generator        *generation.Service
	historyService   *service.HistoryService
	flashcardService service.FlashcardService

	// limiter is nil when rate limiting is disabled.
	limiter *ratelimit.FixedWindowLimiter
}

// newApplication creates a new application instance with all dependencies initialized.
// The configuration, logger and database connection must be established first.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.generationStore = postgres.NewPostgresGenerationStore(db, logger)
	app.errorLogStore = postgres.NewPostgresGenerationErrorLogStore(db, logger)
	app.flashcardStore = postgres.NewPostgresFlashcardStore(db, logger)

	invoker, err := newInvoker(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize model invoker: %w", err)
	}

	app.generator, err = generation.NewService(
		invoker,
		app.generationStore,
		app.errorLogStore,
		generation.ServiceConfig{
			RequestTimeout: time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create generation service: %w", err)
	}

	app.historyService, err = service.NewHistoryService(app.generationStore, app.errorLogStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}

	app.flashcardService, err = service.NewFlashcardService(db, app.flashcardStore, app.generationStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	if cfg.RateLimit.RedisAddr != "" {
		app.limiter, err = ratelimit.NewFixedWindowLimiter(
			cfg.RateLimit.RedisAddr,
			cfg.RateLimit.RedisPassword,
			ratelimit.DefaultPrefix,
			cfg.RateLimit.Requests,
			time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := app.limiter.Ping(pingCtx); err != nil {
			// Requests are refused while Redis is unreachable, so startup
			// continues and the limiter recovers once Redis is back.
			logger.Warn("rate limiter redis is not reachable",
				slog.String("addr", cfg.RateLimit.RedisAddr),
				slog.String("error", err.Error()))
		}
	}

	logger.Info("application initialized",
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Bool("llm_use_mock", cfg.LLM.UseMock))
	return app, nil
}

// newInvoker selects the model backend named by the configuration.
func newInvoker(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.ModelInvoker, error) {
	if cfg.UseMock {
		logger.Warn("using mock model invoker; generated flashcards are placeholders")
		return generation.NewMockInvoker(), nil
	}

	// Deadlines come from the request context.
	httpClient := &http.Client{}

	switch cfg.Provider {
	case "openrouter":
		return openrouter.NewClient(openrouter.Config{
			APIKey:   cfg.OpenRouterAPIKey,
			BaseURL:  cfg.OpenRouterBaseURL,
			Model:    cfg.ModelName,
			SiteURL:  cfg.SiteURL,
			AppTitle: cfg.AppTitle,
		}, httpClient, logger)
	case "gemini":
		return gemini.NewInvoker(ctx, gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, httpClient, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.limiter != nil {
		if err := app.limiter.Close(); err != nil {
			app.logger.Error("error closing rate limiter", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
