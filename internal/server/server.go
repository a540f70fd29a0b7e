// Package server wires the application together: database, services,
// handlers, routes, and the HTTP server lifecycle. It is the composition
// root — every dependency is constructed and connected here, so the rest
// of the codebase only ever receives its collaborators.
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

	"github.com/uvg/wellness-backend/internal/auth"
	"github.com/uvg/wellness-backend/internal/config"
	"github.com/uvg/wellness-backend/internal/handler"
	"github.com/uvg/wellness-backend/internal/middleware"
	sqliteRepo "github.com/uvg/wellness-backend/internal/repository/sqlite"
	"github.com/uvg/wellness-backend/internal/service"
)

// Server owns the router and the database connection; the connection is
// closed during graceful shutdown so the WAL gets flushed.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph:
//
//	sqlite stores → services (Auth, Assessment) → handlers → routes
//
// Services receive repository interfaces, handlers receive services, and
// nothing below this package knows about the concrete wiring.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordServiceWithCost(cfg.BcryptCost)

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes(tokens, passwords)

	return s, nil
}

// setupRoutes registers middleware and the API surface:
//
//	POST /api/v1/auth/register        — open
//	POST /api/v1/auth/login           — open
//	GET  /api/v1/auth/me              — requires a valid token
//	POST /api/v1/assessments/gad7     — optionally authenticated
//	POST /api/v1/assessments/phq9     — optionally authenticated
//	GET  /api/v1/assessments/history  — optionally authenticated
//	GET  /healthz                     — liveness probe
func (s *Server) setupRoutes(tokens *auth.TokenService, passwords *auth.PasswordService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	assessmentService := service.NewAssessmentService(s.db.Assessments(), s.db.Users(), s.config.AllowGlobalHistory, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	assessmentHandler := handler.NewAssessmentHandler(assessmentService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		})

		// The assessment routes sit behind the fail-open gate: a valid
		// token attaches an identity, anything else stays anonymous.
		r.Route("/assessments", func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Post("/gad7", assessmentHandler.HandleGAD7)
			r.Post("/phq9", assessmentHandler.HandlePHQ9)
			r.Get("/history", assessmentHandler.HandleHistory)
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s,
// close the database.
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
