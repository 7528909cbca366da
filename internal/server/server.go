// Package server implements the HTTP render service.
//
// Routes:
//
//	GET  /healthz               liveness and build info
//	GET  /v1/presets            preset names
//	GET  /v1/styles/{preset}    resolved connector style
//	POST /v1/styles/{preset}    resolved style with a JSON override body
//	POST /v1/render             tree JSON body → artifact
//	POST /v1/members            add a member to a tree
//
// Every response carries an X-Request-ID header.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/famtree/internal/config"
	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// Server serves renders through a shared pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    *config.Config
	logger *log.Logger
}

// New creates a server. The runner's cache also backs resolved styles.
func New(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the router with all routes and middleware registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Get("/styles/{preset}", s.handleStyle)
		r.Post("/styles/{preset}", s.handleStyle)
		r.With(s.limitBody).Post("/render", s.handleRender)
		r.With(s.limitBody).Post("/members", s.handleAddMember)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.HTTPAddr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewCache picks the backend: Redis when configured, else a file cache
// when a directory is set, else none.
func NewCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch {
	case cfg.RedisURL != "":
		return cache.NewRedisCache(ctx, cfg.RedisURL, "famtree:")
	case cfg.CacheDir != "":
		return cache.NewFileCache(cfg.CacheDir)
	}
	return cache.NewNullCache(), nil
}
