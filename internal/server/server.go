// Package server exposes the graph pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/v1/graph        JSON description of one package
//	POST /api/v1/graph        same, for a lockfile sent as the request body
//	GET  /api/v1/graph.dot    DOT text
//	GET  /api/v1/graph.svg    SVG image
//	GET  /api/v1/graph.png    PNG image
//	GET  /api/v1/packages     packages of a lockfile
//
// Graph routes take package, version, filter, mode, source, skip_optional,
// detailed and refresh query parameters. Lockfile and manifest paths are
// resolved under the configured root and may not escape it.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lockgraph/internal/backend"
	"github.com/matzehuels/lockgraph/pkg/pipeline"
)

const (
	defaultTimeout  = 30 * time.Second
	shutdownTimeout = 5 * time.Second
	maxBodySize     = 8 << 20
)

// Config holds what the server needs.
type Config struct {
	Addr    string
	Runner  *pipeline.Runner
	Sources *backend.Sources
	Logger  *log.Logger

	// DefaultMode and DefaultSource apply when a request names no mode.
	DefaultMode   string
	DefaultSource string

	// LockRoot is the directory file and manifest paths are resolved under.
	LockRoot string

	// AllowedURLs are the lockfile URLs requests may name in url mode, in
	// addition to DefaultSource when DefaultMode is url.
	AllowedURLs []string

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration
}

// Server is the HTTP API server.
type Server struct {
	cfg    Config
	logger *log.Logger
}

// New creates a server. Runner and Sources are required.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.LockRoot == "" {
		cfg.LockRoot = "."
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestID,
		middleware.RealIP,
		s.logRequests,
		middleware.Recoverer,
		middleware.Timeout(s.cfg.Timeout),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/graph", s.handleGraphJSON)
		r.Post("/graph", s.handleGraphBody)
		r.Get("/graph.dot", s.handleGraphArtifact("dot"))
		r.Get("/graph.svg", s.handleGraphArtifact("svg"))
		r.Get("/graph.png", s.handleGraphArtifact("png"))
		r.Get("/packages", s.handlePackages)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("NOT_FOUND", "no route for "+r.URL.Path))
	})
	return r
}

// Serve listens on the configured address until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is [Server.Serve] on an existing listener.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("serving", "addr", ln.Addr().String())

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
