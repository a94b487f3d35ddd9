// Package server wires storage, sessions, services and handlers into a chi
// router and runs the HTTP server.
//
// This is the composition root: every dependency is built in New and
// handed down, so no package keeps global state.
//
//	config → repositories (memory | sqlite) → SessionStore → services → handlers
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/blog-api/internal/apperror"
	"github.com/sakif/blog-api/internal/auth"
	"github.com/sakif/blog-api/internal/config"
	"github.com/sakif/blog-api/internal/handler"
	"github.com/sakif/blog-api/internal/middleware"
	"github.com/sakif/blog-api/internal/repository"
	"github.com/sakif/blog-api/internal/repository/memory"
	sqliteRepo "github.com/sakif/blog-api/internal/repository/sqlite"
	"github.com/sakif/blog-api/internal/service"
)

// Server owns the router and every long-lived dependency.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	sessions *auth.SessionStore
	users    repository.UserRepository
	posts    repository.PostRepository
	closers  []func() error
}

// New builds a ready-to-serve Server. Call Close (or Start, which closes
// on return) to release storage.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.openStorage(); err != nil {
		return nil, err
	}

	issuer, err := newIssuer(cfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.sessions = auth.NewSessionStore(issuer, logger)

	if cfg.Seed {
		err := service.Seed(context.Background(), s.users, s.posts)
		switch {
		case errors.Is(err, apperror.ErrAlreadyExists):
			// A reopened sqlite file already holds the seed.
			logger.Info("seed skipped, admin account exists")
		case err != nil:
			s.Close()
			return nil, fmt.Errorf("seeding data: %w", err)
		default:
			logger.Info("seed data loaded")
		}
	}

	s.setupRoutes()
	return s, nil
}

// openStorage selects the repository implementation named by the config.
func (s *Server) openStorage() error {
	switch s.config.Storage {
	case config.StorageSQLite:
		db, err := sqliteRepo.New(s.config.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		s.closers = append(s.closers, db.Close)
		s.users, s.posts = db.Users(), db.Posts()
	case config.StorageMemory, "":
		s.users, s.posts = memory.NewUsers(), memory.NewPosts()
	default:
		return fmt.Errorf("unknown storage %q", s.config.Storage)
	}
	return nil
}

func newIssuer(cfg config.Config) (auth.TokenIssuer, error) {
	if cfg.TokenSecret == "" {
		return auth.NewRandomIssuer(), nil
	}
	is, err := auth.NewJWTIssuer(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token issuer: %w", err)
	}
	return is, nil
}

// setupRoutes registers middleware and routes.
//
// ROUTES:
//
//	GET    /                          → liveness message
//	POST   /api/auth/register         → create account + session
//	POST   /api/auth/login            → new session
//	POST   /api/auth/logout           → revoke session        [auth]
//	GET    /api/auth/me               → current user          [auth]
//	GET    /api/categories            → category enumeration
//	GET    /api/posts?category=       → posts, newest first
//	GET    /api/posts/search/{query}  → text search
//	GET    /api/posts/{id}            → one post
//	POST   /api/posts                 → create                [auth]
//	PUT    /api/posts/{id}            → edit own post         [auth]
//	DELETE /api/posts/{id}            → delete own post       [auth]
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	authService := service.NewAuthService(s.users, s.sessions, s.logger)
	postService := service.NewPostService(s.posts, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	requireAuth := auth.RequireAuth(s.sessions, s.users, s.logger)

	s.router.Get("/", handler.HandleRoot)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.HandleLogout)
				r.Get("/me", authHandler.HandleMe)
			})
		})

		r.Get("/categories", postHandler.HandleCategories)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.HandleList)
			r.Get("/search/{query}", postHandler.HandleSearch)
			r.Get("/{id}", postHandler.HandleGetByID)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", postHandler.HandleCreate)
				r.Put("/{id}", postHandler.HandleUpdate)
				r.Delete("/{id}", postHandler.HandleDelete)
			})
		})
	})
}

// ServeHTTP lets tests drive the full middleware stack with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases storage. It is safe to call more than once.
func (s *Server) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Start serves HTTP until SIGINT/SIGTERM, then drains in-flight requests
// for up to 30 seconds and closes storage.
func (s *Server) Start() error {
	defer s.Close()

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
			slog.String("storage", s.config.Storage),
			slog.Bool("signedTokens", s.config.TokenSecret != ""),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
			slog.Int("liveSessions", s.sessions.Len()),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
