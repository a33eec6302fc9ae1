// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — it connects handlers, middleware, and
// routes. It decides which URL patterns map to which handler functions, what
// middleware runs on which routes, and how the server starts and stops
// gracefully.
//
// WHY SEPARATE FROM main.go?
// Keeping server setup in its own package makes it:
// - Testable (we can create a test server without running main)
// - Reusable (multiple entry points could use the same server config)
// - Clean (main.go stays minimal — just "start the server")
//
// DEPENDENCY INJECTION FLOW:
// main.go builds a Config from the environment and passes it here.
// Server.New() creates: sqlite.DB → services → handlers → routes.
// This is the "composition root" pattern — all dependencies are wired in one
// place rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/avask/game-collection/internal/auth"
	"github.com/avask/game-collection/internal/handler"
	"github.com/avask/game-collection/internal/middleware"
	sqliteRepo "github.com/avask/game-collection/internal/repository/sqlite"
	"github.com/avask/game-collection/internal/service"
)

// Config holds server configuration.
// Using a struct for config (instead of individual parameters) makes it easy
// to add options without changing function signatures, and to load everything
// from the environment in one place.
type Config struct {
	Port          int
	TemplateDir   string
	DBPath        string
	SessionSecret string // signs session tokens; must be at least 16 characters
	SeedDemoData  bool   // insert the demo account and games into an empty database
}

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection. When the server shuts down we must
// close it to flush pending writes and release the file lock; Start() handles
// that during graceful shutdown.
type Server struct {
	router   *chi.Mux
	config   Config
	logger   *slog.Logger
	db       *sqliteRepo.DB
	accounts *service.AccountService
	catalog  *service.CatalogService
}

// New creates a new Server with the given config.
//
// This is where the entire dependency chain is assembled:
//  1. Open the database (sqlite.New)
//  2. Create the auth services (passwords, sessions)
//  3. Create the application services with the repository interfaces
//  4. Create the handlers with the services and the template renderer
//  5. Wire handlers to routes
//
// Each layer only receives what it needs: services get repository interfaces
// (not the concrete sqlite.DB), handlers get services (not the repository).
//
// We import repository/sqlite as `sqliteRepo` to avoid confusion with the
// sqlite driver package.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sessions, err := auth.NewSessionService(cfg.SessionSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session service: %w", err)
	}
	passwords := auth.NewPasswordService()

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		db:       db,
		accounts: service.NewAccountService(db, passwords, sessions, logger),
		catalog:  service.NewCatalogService(db, logger),
	}

	if err := s.setupRoutes(sessions); err != nil {
		db.Close() // clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	if cfg.SeedDemoData {
		if err := s.seedDemoData(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("seeding demo data: %w", err)
		}
	}

	return s, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET  /                    → full collection (HTML)
// GET  /search?q=           → filtered collection
// GET  /game/{id}           → game detail page
// GET  /register            → registration form
// POST /register            → create account
// GET  /login               → login form
// POST /login               → authenticate, set session cookie
// GET  /logout              → clear session cookie        [auth required]
// GET  /add_game            → add-game form               [auth required]
// POST /add_game            → create game                 [auth required]
// GET  /my_games            → session user's games        [auth required]
// POST /delete_game/{id}    → delete own game             [auth required]
//
// MIDDLEWARE ORDER MATTERS — middleware executes in the order it's added:
// 1. RequestID — assigns a unique ID to each request (for tracing)
// 2. RealIP — extracts real client IP from proxy headers
// 3. Logger — logs each request with timing info
// 4. Recoverer — catches panics and returns 500 instead of crashing
// 5. Identify — resolves the session cookie to an identity (never blocks)
func (s *Server) setupRoutes(sessions *auth.SessionService) error {
	render, err := handler.NewRenderer(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	authHandler := handler.NewAuthHandler(s.accounts, render, s.logger)
	gameHandler := handler.NewGameHandler(s.catalog, s.accounts, render, s.logger)

	// === Global Middleware ===
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	// Identify runs on every route so public pages can show who is logged in.
	// It never rejects a request — that is RequireAuth's job.
	s.router.Use(auth.Identify(sessions))

	// === Public Routes ===
	s.router.Get("/", gameHandler.HandleIndex)
	s.router.Get("/search", gameHandler.HandleSearch)
	s.router.Get("/game/{id}", gameHandler.HandleDetail)
	s.router.Get("/register", authHandler.ShowRegister)
	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Get("/login", authHandler.ShowLogin)
	s.router.Post("/login", authHandler.HandleLogin)

	// === Protected Routes ===
	// RequireAuth redirects anonymous visitors to /login?next=<path>.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(sessions))

		r.Get("/logout", authHandler.HandleLogout)
		r.Get("/add_game", gameHandler.ShowAddGame)
		r.Post("/add_game", gameHandler.HandleAddGame)
		r.Get("/my_games", gameHandler.HandleMyGames)
		r.Post("/delete_game/{id}", gameHandler.HandleDelete)
	})

	return nil
}

// Handler exposes the configured router, mainly for tests that want to drive
// the server with httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start's
// shutdown path. Tests use this.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
//
// The `defer s.db.Close()` ensures step 3 happens even if something panics.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
