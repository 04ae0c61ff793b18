// Package server assembles the HTTP surface: editor API, health and
// metrics endpoints, and the static site catch-all.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pagesmith/internal/config"
	"pagesmith/internal/domain"
	"pagesmith/internal/handler"
	"pagesmith/internal/middleware"
	"pagesmith/internal/security"
)

// Server wires the router and the underlying http.Server.
type Server struct {
	cfg          *config.Config
	router       chi.Router
	httpServer   *http.Server
	loginLimiter *middleware.RateLimiter
}

// New builds the full router around the given handler and its dependencies.
func New(cfg *config.Config, editorHandler *handler.EditorHandler, repo domain.EditRepository, codec *security.TokenCodec) *Server {
	s := &Server{
		cfg: cfg,
		// login attempts are throttled hard; everything else is static
		// content and cheap JSON reads
		loginLimiter: middleware.NewRateLimiter(5, 10),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS(middleware.ParseOrigins(cfg.AllowedOrigins)))
	r.Use(middleware.Metrics())

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(repo))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/editor", func(r chi.Router) {
		r.Use(middleware.OpenAPIValidator(&middleware.OpenAPIValidatorConfig{
			Enabled:  cfg.IsDevelopment(),
			SpecPath: "api/openapi.yaml",
		}))

		r.Group(func(r chi.Router) {
			r.Use(s.loginLimiter.Middleware())
			r.Post("/login", editorHandler.Login)
		})

		r.Post("/logout", editorHandler.Logout)
		r.Get("/session", editorHandler.Session)
		r.Get("/edits", editorHandler.GetEdits)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(codec))
			r.Post("/edits", editorHandler.SaveEdits)
		})
	})

	// Everything else is the static site, with directory index fallback
	r.NotFound(handler.Static(cfg.StaticDir))

	s.router = r
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server and its background workers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.loginLimiter.Stop()
	return s.httpServer.Shutdown(ctx)
}
