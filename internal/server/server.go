// Package server exposes the generation pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/docforge/docforge/internal/domain"
)

// Pipeline is the orchestration surface the server exposes.
type Pipeline interface {
	GenerateDocument(ctx context.Context, problemDomain, scenarioHint string) (map[string]any, error)
	PingProvider(ctx context.Context) (*domain.PingResult, error)
	ValidateDocument(ctx context.Context, doc map[string]any) (*domain.ValidationReport, error)
}

// EventLog reads back persisted communication events.
type EventLog interface {
	Recent(ctx context.Context, limit int) ([]domain.CommunicationEvent, error)
}

// Option configures the server.
type Option func(*Server)

// WithEventLog exposes the audit trail at GET /v1/events.
func WithEventLog(log EventLog) Option {
	return func(s *Server) { s.eventLog = log }
}

// WithRequestTimeout bounds one HTTP request. Generations run long, so the
// default matches the pipeline's generation timeout rather than a typical
// API timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

type Server struct {
	Router *chi.Mux
	Port   int

	pipeline       Pipeline
	eventLog       EventLog
	requestTimeout time.Duration
	logger         *slog.Logger
}

// New builds the HTTP facade over pipeline.
func New(port int, pipeline Pipeline, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		Port:           port,
		pipeline:       pipeline,
		requestTimeout: 30 * time.Minute,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(s.requestTimeout))
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "docforge")
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/documents/generate", s.handleGenerate)
		r.Post("/documents/validate", s.handleValidate)
		r.Get("/ping", s.handlePing)
		if s.eventLog != nil {
			r.Get("/events", s.handleEvents)
		}
	})

	s.Router = r
	return s
}

// Start blocks serving HTTP until the listener fails.
func (s *Server) Start() error {
	s.logger.Info("starting server", slog.Int("port", s.Port))
	return http.ListenAndServe(fmt.Sprintf(":%d", s.Port), s.Router)
}
