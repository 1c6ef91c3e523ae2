// Package server exposes the lyrics pipeline over HTTP.
//
// Routes:
//
//	POST /generate-video  {employeeName, employeeInfo} → {videoUrl, status, lyrics}
//	GET  /health          → {status: "ok"}
//
// Every response carries an X-Request-Id header. CORS headers are added for
// the configured origins and OPTIONS preflight requests are answered
// directly.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/bimmerbailey/dumpsong/internal/employee"
	"github.com/bimmerbailey/dumpsong/internal/redact"
	"github.com/bimmerbailey/dumpsong/internal/video"
)

// maxBodyBytes caps the generate-video request body.
const maxBodyBytes = 64 << 10

// Default timeouts used when Options leaves them at zero.
const (
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultShutdownTimeout   = 15 * time.Second
)

// Generator produces lyrics for an employee. *lyrics.Generator satisfies it.
type Generator interface {
	Generate(ctx context.Context, info employee.Info) (string, error)
}

// Options configures a Server. The zero value is usable.
type Options struct {
	// AllowedOrigins lists origins allowed by CORS. Empty or "*" allows all.
	AllowedOrigins []string

	// RequestTimeout bounds one whole pipeline run, retries included.
	// Zero leaves only the client's own cancellation.
	RequestTimeout time.Duration

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	// Redactor scrubs error text before it is returned to callers.
	Redactor *redact.Redactor

	// Extractor parses free text. The zero value uses the default rules.
	Extractor employee.Extractor
}

// Server holds the collaborators built once at startup and shared by every
// request.
type Server struct {
	generator Generator
	renderer  video.Renderer
	logger    *slog.Logger
	opts      Options
}

// New creates a Server.
func New(generator Generator, renderer video.Renderer, logger *slog.Logger, opts Options) (*Server, error) {
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if renderer == nil {
		return nil, errors.New("renderer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	return &Server{
		generator: generator,
		renderer:  renderer,
		logger:    logger,
		opts:      opts,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /generate-video", s.handleGenerateVideo)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withRequestID(s.withLogging(s.withCORS(mux)))
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server", "timeout", s.opts.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
