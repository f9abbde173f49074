// Package server serves the generator form over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-postgen/internal/metrics"
	"github.com/goliatone/go-postgen/pkg/client"
	"github.com/goliatone/go-postgen/pkg/content"
	pkgopenapi "github.com/goliatone/go-postgen/pkg/openapi"
	"github.com/goliatone/go-postgen/pkg/orchestrator"
)

// HealthChecker reports the upstream API's health.
type HealthChecker interface {
	Health(ctx context.Context) (content.Health, error)
}

// Config holds HTTP listener settings.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Mode is passed to gin.SetMode when non-empty.
	Mode string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records HTTP and submission metrics and exposes /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHealthChecker adds the upstream status to /healthz.
func WithHealthChecker(checker HealthChecker) Option {
	return func(s *Server) {
		s.health = checker
	}
}

// WithDocument selects the OpenAPI document and operation backing the form.
func WithDocument(src pkgopenapi.Source, operationID string) Option {
	return func(s *Server) {
		if src != nil {
			s.source = src
		}
		if operationID != "" {
			s.operationID = operationID
		}
	}
}

// WithTheme selects the theme and variant for every page.
func WithTheme(name, variant string) Option {
	return func(s *Server) {
		s.themeName = name
		s.themeVariant = variant
	}
}

// Server owns the gin engine and the http.Server around it. Each POST gets
// its own controller.
type Server struct {
	cfg          Config
	engine       *gin.Engine
	orch         *orchestrator.Orchestrator
	generator    client.Generator
	health       HealthChecker
	metrics      *metrics.Metrics
	logger       *zap.Logger
	source       pkgopenapi.Source
	operationID  string
	themeName    string
	themeVariant string
}

// New builds the engine and registers routes.
func New(cfg Config, orch *orchestrator.Orchestrator, generator client.Generator, options ...Option) (*Server, error) {
	if orch == nil {
		return nil, errors.New("server: orchestrator is required")
	}
	if generator == nil {
		return nil, errors.New("server: generator is required")
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		cfg:         cfg,
		orch:        orch,
		generator:   generator,
		logger:      zap.NewNop(),
		source:      pkgopenapi.EmbeddedSource(),
		operationID: pkgopenapi.GenerateOperationID,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	// Fail at startup rather than on the first request.
	if _, err := s.orch.Form(context.Background(), s.formRequest()); err != nil {
		return nil, fmt.Errorf("server: build form: %w", err)
	}

	s.engine = gin.New()
	s.registerRoutes()
	return s, nil
}

// Handler exposes the engine, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("address", s.cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) formRequest() orchestrator.Request {
	return orchestrator.Request{
		Source:       s.source,
		OperationID:  s.operationID,
		ThemeName:    s.themeName,
		ThemeVariant: s.themeVariant,
	}
}
