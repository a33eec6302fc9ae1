// Package main is the entry point for the game collection server.
//
// The main package should be kept minimal — its job is to:
// 1. Read configuration (from env vars, or a .env file in development)
// 2. Create dependencies (logger, database path)
// 3. Start the application
//
// All actual logic lives in imported packages (internal/server, internal/handler, etc.).
// This separation makes the app testable and its components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/avask/game-collection/internal/server"
)

func main() {
	// A .env file is a development convenience; in production the variables
	// come from the real environment, so a missing file is not an error.
	_ = godotenv.Load()

	// slog.NewTextHandler outputs human-readable logs to the terminal.
	// Log levels (from least to most severe): Debug → Info → Warn → Error.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Port comes from the PORT environment variable, defaulting to 8080.
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	// When running with `go run`, the working directory is the project root,
	// so "web/templates" resolves directly.
	templateDir := "web/templates"
	if envDir := os.Getenv("TEMPLATE_DIR"); envDir != "" {
		templateDir = envDir
	}

	// DB_PATH allows overriding for production deployments,
	// e.g. DB_PATH=/var/lib/game-collection/prod.db
	dbPath := "data/games.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}

	// os.MkdirAll creates all parent directories if needed (like `mkdir -p`).
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// SESSION_SECRET signs the session tokens and must be a long random
	// string. Generate one with:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		logger.Error("SESSION_SECRET not set — refusing to start without a signing key")
		os.Exit(1)
	}

	// SEED_DEMO_DATA=true populates an empty database with a demo account
	// and a couple of games. Handy for local development and demos.
	seed := os.Getenv("SEED_DEMO_DATA") == "true"

	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		DBPath:        dbPath,
		SessionSecret: sessionSecret,
		SeedDemoData:  seed,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
