// Package server is the composition root: it opens the configured store,
// builds the repository and handlers, mounts the routes and runs the HTTP
// server until a shutdown signal arrives.
//
// DEPENDENCY FLOW:
//
//	config.Config → backend.Open (sqlite | redis | mongo | postgres | memory)
//	             → metrics.InstrumentStore (counts and times every save)
//	             → repository.Repository (loads users, posts, session)
//	             → auth.TokenService (only when JWT_SECRET is set)
//	             → handlers → chi routes
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

	"github.com/sakif/campus-connect/internal/auth"
	"github.com/sakif/campus-connect/internal/config"
	"github.com/sakif/campus-connect/internal/handler"
	"github.com/sakif/campus-connect/internal/metrics"
	"github.com/sakif/campus-connect/internal/middleware"
	"github.com/sakif/campus-connect/internal/repository"
	"github.com/sakif/campus-connect/internal/store"
	"github.com/sakif/campus-connect/internal/store/backend"
)

const shutdownTimeout = 30 * time.Second

// Server owns the router and the store connection. The store is closed when
// Start returns.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	close   func() error
	repo    *repository.Repository
	metrics *metrics.Metrics
}

// New opens the store named by cfg.Backend and wires every route.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	st, closeStore, err := backend.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s, err := newWithStore(ctx, cfg, st, logger)
	if err != nil {
		closeStore()
		return nil, err
	}
	s.close = closeStore
	return s, nil
}

// newWithStore builds the server over an already opened store.
func newWithStore(ctx context.Context, cfg *config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	m := metrics.New()
	repo, err := repository.New(ctx, m.InstrumentStore(st), logger)
	if err != nil {
		return nil, fmt.Errorf("loading repository: %w", err)
	}
	m.TrackCounts(repo)

	var tokens *auth.TokenService
	if cfg.JWTSecret != "" {
		tokens, err = auth.NewTokenService(cfg.JWTSecret, auth.DefaultTTL)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("JWT_SECRET not set; session cookies are disabled")
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		close:   func() error { return nil },
		repo:    repo,
		metrics: m,
	}
	s.setupRoutes(tokens)
	return s, nil
}

// setupRoutes mounts the API.
//
// ROUTES:
//
//	POST   /api/register             public
//	POST   /api/login                public
//	POST   /api/logout               public
//	GET    /api/me                   session
//	GET    /api/feed                 session
//	POST   /api/posts                session
//	POST   /api/posts/{id}/like      session
//	POST   /api/posts/{id}/dislike   session
//	POST   /api/posts/{id}/comments  session
//	POST   /api/posts/{id}/save      session
//	GET    /api/search?q=            session
//	POST   /api/users/{id}/follow    session
//	DELETE /api/users/{id}/follow    session
//	GET    /api/profile              session
//	PUT    /api/profile              session
//	GET    /metrics                  public, Prometheus exposition
//
// Middleware order: RequestID first so the logger can read it, Recoverer
// last so it catches panics from everything inside it.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(s.metrics.Middleware)
	s.router.Use(chimiddleware.Recoverer)

	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	authHandler := handler.NewAuthHandler(s.repo, tokens, s.logger)
	postHandler := handler.NewPostHandler(s.repo, s.logger)
	userHandler := handler.NewUserHandler(s.repo, s.logger)
	profileHandler := handler.NewProfileHandler(s.repo, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireSession(s.repo, tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Get("/feed", postHandler.HandleFeed)

			r.Route("/posts", func(r chi.Router) {
				r.Post("/", postHandler.HandleCreate)
				r.Post("/{id}/like", postHandler.HandleLike)
				r.Post("/{id}/dislike", postHandler.HandleDislike)
				r.Post("/{id}/comments", postHandler.HandleComment)
				r.Post("/{id}/save", postHandler.HandleToggleSave)
			})

			r.Get("/search", userHandler.HandleSearch)
			r.Post("/users/{id}/follow", userHandler.HandleFollow)
			r.Delete("/users/{id}/follow", userHandler.HandleUnfollow)

			r.Get("/profile", profileHandler.HandleGet)
			r.Put("/profile", profileHandler.HandleUpdate)
		})
	})
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the store.
func (s *Server) Start() error {
	defer func() {
		if err := s.close(); err != nil {
			s.logger.Error("closing store", slog.String("error", err.Error()))
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

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("backend", s.config.Backend),
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
