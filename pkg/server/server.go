// Package server exposes the izzi pipeline over HTTP.
//
// Routes:
//
//	POST /v1/layout   compute placements, respond with the layout JSON
//	POST /v1/render   compute and render, respond with the artifact(s)
//	GET  /healthz     liveness and build information
//	GET  /metrics     Prometheus metrics
//
// Both POST routes accept the same body: the dataset document read by
// [io.ReadDataset] plus an optional partial "config" object laid over the
// server's configuration and an optional "formats" list.
//
//	{
//	  "title": "pronouns",
//	  "values": {"she/her": 41, "he/him": 40},
//	  "config": {"radius": {"base": 200}, "collision": {"avoidance": "off"}},
//	  "formats": ["svg"]
//	}
//
// Errors are JSON objects carrying the error code, a message and the
// request id. Invalid input maps to 400, everything else to 500.
//
// [io.ReadDataset]: github.com/bdekoz/izzi/pkg/io.ReadDataset
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bdekoz/izzi/pkg/config"
	"github.com/bdekoz/izzi/pkg/pipeline"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve context is canceled.
const shutdownTimeout = 10 * time.Second

// Server serves the pipeline API.
type Server struct {
	runner   *pipeline.Runner
	cfg      *config.Config
	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the server logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics serves g on /metrics. Without it /metrics is not routed.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// New builds a server around runner. cfg supplies the per-request
// defaults and the server limits; nil means [config.Default].
func New(runner *pipeline.Runner, cfg *config.Config, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID, s.instrument, middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(bodyLimit(s.cfg.Server.MaxBodyBytes))
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is canceled,
// then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	read, write := s.cfg.Timeouts()
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  read,
		WriteTimeout: write,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
