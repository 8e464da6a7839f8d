// Package server exposes the render pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz                 liveness and build information
//	POST /api/v1/render           render the document in the request body
//	GET  /api/v1/files/{path...}  render a document under the configured root
//
// Render options are query parameters: format, scale, color, annotate,
// diagonal, boundaries, strict and refresh. The body format of POST
// requests is taken from the "input" parameter, then from Content-Type,
// and defaults to JSON. Renders whose scaled size exceeds the configured
// cell limit are rejected with 400 INVALID_DIMENSIONS.
//
// Every response carries an X-Request-ID header. A well-formed UUID sent
// by the client is echoed back; otherwise a new one is generated.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/matrixplot/pkg/pipeline"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 32 << 20
	DefaultMaxCells     = 1 << 24
	shutdownTimeout     = 5 * time.Second
)

// Config configures a [Server].
type Config struct {
	// Addr is the listen address.
	Addr string

	// Root enables GET /api/v1/files/ for documents below this directory.
	// Empty disables the route.
	Root string

	// MaxBodyBytes limits POST bodies.
	MaxBodyBytes int64

	// MaxCells limits rows*cols*scale² of a render.
	MaxCells int

	Logger *log.Logger
}

// Server serves render requests through a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	router chi.Router

	mu  sync.Mutex
	srv *http.Server
}

// New builds a server around runner. Zero config fields take defaults.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.MaxCells <= 0 {
		cfg.MaxCells = DefaultMaxCells
	}
	if cfg.Logger == nil {
		cfg.Logger = runner.Logger
	}
	s := &Server{runner: runner, cfg: cfg}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		if s.cfg.Root != "" {
			r.Get("/files/*", s.handleFile)
		}
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeAPIError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.srv = srv
	s.mu.Unlock()

	s.cfg.Logger.Info("listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.cfg.Logger.Info("server stopped")
	return nil
}
