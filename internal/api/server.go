// Package api exposes the probe engine over HTTP: a check endpoint that
// accepts a domain and returns the full report as JSON, plus a liveness
// endpoint.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/wallcheck/wallcheck/internal/probe"
	"github.com/wallcheck/wallcheck/internal/ratelimit"
)

// Prober is the engine surface consumed by the API layer.
type Prober interface {
	Probe(ctx context.Context, domain string) (*probe.Report, error)
}

// ServerOptions configure the HTTP server. Zero values fall back to
// conservative defaults.
type ServerOptions struct {
	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration

	// RateLimit caps check requests per second; 0 disables throttling.
	// RateBurst defaults to the ceiling of RateLimit, minimum 1.
	RateLimit float64
	RateBurst int
}

// Server hosts the HTTP API around a Prober.
type Server struct {
	http    *http.Server
	prober  Prober
	logger  *slog.Logger
	opts    ServerOptions
	limiter *ratelimit.Limiter
}

// NewServer builds the server; it does not listen until Start is called.
func NewServer(prober Prober, opts ServerOptions, logger *slog.Logger) *Server {
	if opts.Addr == "" {
		opts.Addr = "127.0.0.1:8000"
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.ReadHeaderTimeout == 0 {
		opts.ReadHeaderTimeout = 2 * time.Second
	}
	if opts.WriteTimeout == 0 {
		// A probe can legitimately run for several timeout windows; give the
		// response path generous room.
		opts.WriteTimeout = 60 * time.Second
	}
	if opts.IdleTimeout == 0 {
		opts.IdleTimeout = 60 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}

	s := &Server{
		prober: prober,
		logger: logger,
		opts:   opts,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = int(opts.RateLimit)
			if burst < 1 {
				burst = 1
			}
		}
		s.limiter = ratelimit.New(opts.RateLimit, burst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/check", s.handleCheck)
	mux.HandleFunc("/health", s.handleHealth)

	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
	}
	return s
}

// Handler returns the server's HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe serves until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.logger.Info("api server listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, waiting up to ShutdownTimeout for
// in-flight checks.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
