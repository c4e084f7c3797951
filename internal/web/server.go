package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/mariadmin/mariadmin/internal/config"
	"github.com/mariadmin/mariadmin/internal/store"
	"github.com/mariadmin/mariadmin/internal/web/handlers"
	"github.com/mariadmin/mariadmin/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	store    *store.Store
	cfg      config.Server
	timeouts config.Timeouts
	router   *chi.Mux
	handlers *handlers.Handlers
}

// NewServer creates a new web server
func NewServer(st *store.Store, cfg config.Server, timeouts config.Timeouts) *Server {
	s := &Server{
		store:    st,
		cfg:      cfg,
		timeouts: timeouts,
		router:   chi.NewRouter(),
		handlers: handlers.New(st),
	}
	s.setupRoutes()
	return s
}

// Router returns the configured handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	r := s.router
	h := s.handlers

	// AllowSubnet must come BEFORE RealIP so we check the actual connection source
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.AllowSubnet(s.cfg.AllowedNet))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.timeouts.HTTPRequest))

	r.Get("/health", h.Health)
	r.Get("/logs", h.ListLogs)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.ListUsers)
		r.Post("/{username}/{password}", h.AddUser)
		// Delete-via-GET mirrors the legacy API surface; DELETE is the
		// conventional form.
		r.Get("/{id}", h.DeleteUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// Start starts the web server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	var addr string
	if s.cfg.Bind != "" {
		addr = fmt.Sprintf("%s:%d", s.cfg.Bind, s.cfg.Port)
	} else {
		addr = fmt.Sprintf(":%d", s.cfg.Port)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.timeouts.HTTPRequest + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
