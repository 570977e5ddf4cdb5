// Package server wires storage, services, handlers and routes together and
// runs the HTTP server.
//
// DEPENDENCY FLOW:
//
//	config → storage backend (jsonfile | sqlite)
//	       → AuthService, MealService, TrackerService
//	       → AuthHandler, ProfileHandler, TrackerHandler
//	       → chi routes
//
// This is the composition root: nothing else in the module constructs a
// concrete store.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/nutrition-tracker/internal/auth"
	"github.com/sakif/nutrition-tracker/internal/config"
	"github.com/sakif/nutrition-tracker/internal/handler"
	"github.com/sakif/nutrition-tracker/internal/metrics"
	"github.com/sakif/nutrition-tracker/internal/middleware"
	"github.com/sakif/nutrition-tracker/internal/repository"
	"github.com/sakif/nutrition-tracker/internal/repository/jsonfile"
	sqliteRepo "github.com/sakif/nutrition-tracker/internal/repository/sqlite"
	"github.com/sakif/nutrition-tracker/internal/service"
)

// Stores is one storage backend's implementation of every repository.
type Stores struct {
	Users   repository.UserRepository
	Meals   repository.MealLogRepository
	Foods   repository.FoodCatalog
	closer  io.Closer
	Backend string
}

// Close releases the backend, if it holds anything.
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// OpenStores opens the backend named by cfg.Backend.
//
// IMPORT ALIAS: repository/sqlite is imported as sqliteRepo so it does not
// read like the driver package.
func OpenStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		db, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		return &Stores{
			Users:   db.Users(),
			Meals:   db.Meals(),
			Foods:   db.Foods(),
			closer:  db,
			Backend: config.BackendSQLite,
		}, nil

	case config.BackendFile, "":
		store, err := jsonfile.New(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening data directory: %w", err)
		}
		return &Stores{
			Users:   store.Users,
			Meals:   store.Meals,
			Foods:   store.Foods,
			Backend: config.BackendFile,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// Server is the HTTP server and everything it owns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	stores *Stores
}

// New opens storage and builds the router.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	stores, err := OpenStores(cfg)
	if err != nil {
		return nil, err
	}

	s, err := NewWithStores(cfg, stores, logger)
	if err != nil {
		stores.Close()
		return nil, err
	}
	return s, nil
}

// NewWithStores builds a Server over already-open stores. The server takes
// ownership of stores and closes them on shutdown.
func NewWithStores(cfg *config.Config, stores *Stores, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		stores: stores,
	}
	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	POST   /api/signup     register and sign in
//	POST   /api/login      sign in
//	POST   /api/logout     sign out
//	GET    /api/profile    own profile
//	PUT    /api/profile    update own profile
//	DELETE /api/profile    delete own profile (meals are kept)
//	GET    /api/dashboard  profile, BMR, meals, totals
//	POST   /api/meals      log a meal
//	GET    /api/summary    one day's meals and totals (?date=YYYY-MM-DD)
//	GET    /api/foods      food catalog
//	GET    /metrics        Prometheus scrape
//	GET    /healthz        liveness
//
// MIDDLEWARE ORDER: LoadSession runs before Logger so request logs carry
// the user; Metrics sits inside the router so it can read the matched
// route pattern.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordServiceWithCost(s.config.BcryptCost)

	authSvc := service.NewAuthService(s.stores.Users, passwords, tokens, s.logger)
	mealSvc := service.NewMealService(s.stores.Meals, s.logger)
	trackerSvc := service.NewTrackerService(authSvc, mealSvc, s.stores.Foods, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, tokens.TTL(), s.logger)
	profileHandler := handler.NewProfileHandler(authSvc, s.logger)
	trackerHandler := handler.NewTrackerHandler(trackerSvc, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(auth.LoadSession(tokens))
	s.router.Use(middleware.Metrics)
	s.router.Use(middleware.Logger(s.logger))

	s.router.Handle("/metrics", metrics.Handler())
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Get("/profile", profileHandler.HandleGet)
		r.Put("/profile", profileHandler.HandleUpdate)
		r.Delete("/profile", profileHandler.HandleDelete)

		r.Get("/dashboard", trackerHandler.HandleDashboard)
		r.Post("/meals", trackerHandler.HandleLogMeal)
		r.Get("/summary", trackerHandler.HandleSummary)
		r.Get("/foods", trackerHandler.HandleFoods)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, let in-flight requests finish (30s), close
// the stores.
func (s *Server) Start() error {
	defer func() {
		if err := s.stores.Close(); err != nil {
			s.logger.Error("closing stores", slog.String("error", err.Error()))
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("backend", s.stores.Backend),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
