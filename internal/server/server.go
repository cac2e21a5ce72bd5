// Package server provides the HTTP API for browsing jobs and matching
// résumés against them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout       = 30 * time.Second
	defaultMaxUploadBytes = 10 << 20
)

// JobReader is the read side of the job store
type JobReader interface {
	ListAll(ctx context.Context) ([]*models.JobPosting, error)
	Get(ctx context.Context, id int64) (*models.JobPosting, error)
}

// Options holds server configuration
type Options struct {
	Addr           string
	MaxUploadBytes int64
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	jobs       JobReader
	engine     *matcher.Engine
	logger     *zap.Logger
	validator  *validator.Validate
	maxUpload  int64
}

// New creates a new server instance
func New(opts Options, jobs JobReader, engine *matcher.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	s := &Server{
		jobs:      jobs,
		engine:    engine,
		logger:    logger,
		validator: validator.New(),
		maxUpload: maxUpload,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /job/{id}", s.handleGetJob)
	mux.HandleFunc("POST /recommend", s.handleRecommend)
	mux.HandleFunc("POST /match", s.handleMatch)
	mux.HandleFunc("GET /skills", s.handleSkills)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              opts.Addr,
		Handler:           Chain(mux, s.RequestID, s.Recover, s.AccessLog, withCORS),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln, then shuts down gracefully once ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.logger.Info("Server stopped")
		return nil
	})

	return g.Wait()
}

// withCORS lets a browser frontend on another origin call the API
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
