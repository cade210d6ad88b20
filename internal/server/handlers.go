package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyperjump/yosoku/internal/form"
	"github.com/hyperjump/yosoku/internal/inference"
	"github.com/hyperjump/yosoku/internal/models"
	"go.uber.org/zap"
)

const indexTitle = "yosoku"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := form.Page{Title: indexTitle}
	for _, c := range []*form.Controller{s.exam, s.personality} {
		if c == nil {
			continue
		}
		f := c.Form()
		page.Apps = append(page.Apps, form.AppLink{Title: f.Title, Subtitle: f.Subtitle, Path: "/" + f.Key})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := form.RenderIndex(w, page); err != nil {
		s.logger.Error("render index failed", zap.Error(err))
	}
}

func (s *Server) handlePage(c *form.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.renderView(w, c, c.Initial())
	}
}

func (s *Server) handleSubmit(c *form.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.logger.Info("invalid form body", zap.String("app", c.Form().Key), zap.Error(err))
			view := c.Initial()
			view.Error = "invalid form body: " + err.Error()
			view.ErrorKind = string(inference.KindInput)
			s.renderView(w, c, view)
			return
		}
		values := c.Form().Read(r.PostForm)
		view := c.Submit(r.Context(), values)
		if view.Error != "" {
			s.logger.Info("prediction failed",
				zap.String("app", c.Form().Key),
				zap.String("kind", view.ErrorKind),
				zap.String("error", view.Error),
			)
		}
		s.renderView(w, c, view)
	}
}

func (s *Server) renderView(w http.ResponseWriter, c *form.Controller, view *form.View) {
	f := c.Form()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := form.Render(w, form.Page{Title: f.Title, Path: "/" + f.Key, View: view}); err != nil {
		s.logger.Error("render failed", zap.String("app", f.Key), zap.Error(err))
	}
}

func (s *Server) handlePredictExamScore(w http.ResponseWriter, r *http.Request) {
	var req models.ExamScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := s.apps.ExamScore.Predict(r.Context(), req.Values())
	if err != nil {
		s.respondPredictionError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handlePredictPersonality(w http.ResponseWriter, r *http.Request) {
	var req models.PersonalityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	traits, err := req.Values()
	if err != nil {
		s.respondPredictionError(w, &inference.Error{Kind: inference.KindInput, Err: err})
		return
	}
	res, err := s.apps.Personality.Predict(r.Context(), traits)
	if err != nil {
		s.respondPredictionError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	resp := DescribeApps(s.apps)
	s.respondJSON(w, http.StatusOK, &resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, models.ErrorResponse{Error: message})
}

// respondPredictionError maps input and encoding failures to 400 and scaler or model failures to 422.
func (s *Server) respondPredictionError(w http.ResponseWriter, err error) {
	var perr *inference.Error
	if !errors.As(err, &perr) {
		s.logger.Error("prediction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	status := http.StatusUnprocessableEntity
	if perr.Kind == inference.KindInput || perr.Kind == inference.KindEncoding {
		status = http.StatusBadRequest
	}
	s.logger.Debug("prediction rejected", zap.String("kind", string(perr.Kind)), zap.Error(err))
	s.respondJSON(w, status, models.ErrorResponse{Error: perr.Error(), Kind: string(perr.Kind), Field: perr.Field})
}
