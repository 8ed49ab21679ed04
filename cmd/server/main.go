// Package main implements the entry point of the flashforge API server,
// which turns study material into flashcard proposals with a language model
// and stores the cards its users accept.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/phrazzld/flashforge/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run parses flags, loads configuration and dispatches to the requested mode:
// applying migrations, issuing a development token, or serving HTTP.
func run(args []string) error {
	flags := flag.NewFlagSet("flashforge", flag.ContinueOnError)
	migrateCmd := flags.String("migrate", "", "run a migration command (up, down, status, version) and exit")
	issueToken := flags.String("issue-token", "", "print an access token for the given user ID and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("llm_provider", cfg.LLM.Provider),
		slog.Bool("llm_use_mock", cfg.LLM.UseMock),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.RedisAddr != ""))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *issueToken != "" {
		return printToken(ctx, cfg, *issueToken)
	}

	db, err := setupAppDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}

	if *migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, *migrateCmd, log)
	}

	app, err := newApplication(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	return app.Run(ctx)
}

// printToken writes a locally signed access token for userID to stdout.
func printToken(ctx context.Context, cfg *config.Config, rawUserID string) error {
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", rawUserID, err)
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	token, err := jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, token)
	return err
}
