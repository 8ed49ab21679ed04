package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/flashforge/internal/api"
	apiMiddleware "github.com/phrazzld/flashforge/internal/api/middleware"
	"github.com/phrazzld/flashforge/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	generationHandler := api.NewGenerationHandler(app.generator, app.historyService, app.logger)
	flashcardHandler := api.NewFlashcardHandler(app.flashcardService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Group(func(r chi.Router) {
			if app.limiter != nil {
				window := time.Duration(app.config.RateLimit.WindowSeconds) * time.Second
				r.Use(apiMiddleware.NewRateLimitMiddleware(app.limiter, window).Limit)
			}
			r.Post("/generations", generationHandler.CreateGeneration)
		})

		r.Get("/generations", generationHandler.ListGenerations)
		r.Get("/generations/{id}", generationHandler.GetGeneration)
		r.Get("/generation-error-logs", generationHandler.ListErrorLogs)

		r.Post("/flashcards", flashcardHandler.CreateFlashcards)
		r.Get("/flashcards", flashcardHandler.ListFlashcards)
		r.Delete("/flashcards/{id}", flashcardHandler.DeleteFlashcard)
	})

	r.Get("/health", app.handleHealth)

	return r
}

// handleHealth reports whether the database answers.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
