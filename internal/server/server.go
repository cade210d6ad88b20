// Package server provides the HTML pages and the JSON API of yosoku.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/yosoku/internal/config"
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/form"
	"github.com/hyperjump/yosoku/internal/model"
	"github.com/hyperjump/yosoku/internal/models"
	"go.uber.org/zap"
)

// ExamScoreApp is the exam score adapter as the server uses it.
type ExamScoreApp interface {
	Predict(ctx context.Context, values features.ExamValues) (*models.ScoreResult, error)
	Info() model.Info
	Contract() features.Contract
}

// PersonalityApp is the personality adapter as the server uses it.
type PersonalityApp interface {
	Predict(ctx context.Context, traits features.Traits) (*models.ClassResult, error)
	Info() model.Info
	ScalerInfo() model.Info
	Contract() features.Contract
}

// Apps holds the enabled apps; a nil app is not served.
type Apps struct {
	ExamScore   ExamScoreApp
	Personality PersonalityApp
}

// Server is the HTTP server for both prediction apps.
type Server struct {
	apps        Apps
	exam        *form.Controller
	personality *form.Controller
	config      *config.ServerConfig
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(apps Apps, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{apps: apps, config: cfg, logger: logger}
	if apps.ExamScore != nil {
		s.exam = form.NewController(form.ExamScoreForm(), form.ExamScorePredict(apps.ExamScore), logger)
	}
	if apps.Personality != nil {
		s.personality = form.NewController(form.PersonalityForm(), form.PersonalityPredict(apps.Personality), logger)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	timeout := s.config.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/", s.handleIndex)
	if s.exam != nil {
		r.Get("/exam-score", s.handlePage(s.exam))
		r.Post("/exam-score", s.handleSubmit(s.exam))
		r.Post("/api/v1/exam-score/predict", s.handlePredictExamScore)
	}
	if s.personality != nil {
		r.Get("/personality", s.handlePage(s.personality))
		r.Post("/personality", s.handleSubmit(s.personality))
		r.Post("/api/v1/personality/predict", s.handlePredictPersonality)
	}
	r.Get("/api/v1/models", s.handleModels)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
