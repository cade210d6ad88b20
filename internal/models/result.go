package models

import "github.com/hyperjump/yosoku/internal/model"

// ScoreResult is the outcome of an exam score prediction.
type ScoreResult struct {
	ID       string    `json:"id"`
	Score    float64   `json:"score"`
	Display  string    `json:"display"`
	Features []float64 `json:"features"`
	Cached   bool      `json:"cached,omitempty"`
}

// LabelProbability is one row of the probability table.
type LabelProbability struct {
	Code        int     `json:"code"`
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// ClassResult is the outcome of a personality prediction.
type ClassResult struct {
	ID            string             `json:"id"`
	Code          int                `json:"code"`
	Label         string             `json:"label"`
	Display       string             `json:"display"`
	Probabilities []LabelProbability `json:"probabilities"`
	Features      []float64          `json:"features"`
	// Traits echoes the submitted ratings by trait name.
	Traits map[string]float64 `json:"traits"`
	Cached bool               `json:"cached,omitempty"`
}

// AppInfo describes one served app and the artifacts behind it.
type AppInfo struct {
	Name     string      `json:"name"`
	Title    string      `json:"title"`
	Path     string      `json:"path"`
	Contract string      `json:"contract"`
	Features []string    `json:"features"`
	Model    model.Info  `json:"model"`
	Scaler   *model.Info `json:"scaler,omitempty"`
}

// ModelsResponse is the body of GET /api/v1/models.
type ModelsResponse struct {
	Apps []AppInfo `json:"apps"`
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}
