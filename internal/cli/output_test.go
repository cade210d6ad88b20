package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/yosoku/internal/model"
	"github.com/hyperjump/yosoku/internal/models"
)

func TestWriteScoreResult(t *testing.T) {
	res := &models.ScoreResult{ID: "abc", Score: 71.234, Display: "Predicted Exam Score: 71.23"}

	var buf bytes.Buffer
	if err := WriteScoreResult(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Predicted Exam Score: 71.23\n" {
		t.Errorf("text output = %q", buf.String())
	}

	buf.Reset()
	if err := WriteScoreResult(&buf, res, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var out models.ScoreResult
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("json output not parseable: %v", err)
	}
	if out.Score != 71.234 || out.ID != "abc" {
		t.Errorf("json output = %+v", out)
	}
}

func TestWriteClassResult(t *testing.T) {
	res := &models.ClassResult{
		Label:   "Ambivert",
		Display: "Predicted Personality Category: Ambivert",
		Probabilities: []models.LabelProbability{
			{Code: 0, Label: "Introvert", Probability: 0.1},
			{Code: 1, Label: "Extrovert", Probability: 0.2},
			{Code: 2, Label: "Ambivert", Probability: 0.7},
		},
	}
	var buf bytes.Buffer
	if err := WriteClassResult(&buf, res, OutputText); err != nil {
		t.Fatal(err)
	}
	got := buf.String()
	for _, want := range []string{"Predicted Personality Category: Ambivert", "Introvert  0.1000", "Ambivert   0.7000"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWriteModels(t *testing.T) {
	resp := &models.ModelsResponse{Apps: []models.AppInfo{{
		Name:     "personality",
		Title:    "Personality Type Prediction",
		Contract: "personality/v1",
		Features: make([]string, 26),
		Model:    model.Info{Format: "logreg", Path: "/m/model.json"},
		Scaler:   &model.Info{Kind: "standard_scaler", Path: "/m/scaler.json"},
	}}}
	var buf bytes.Buffer
	if err := WriteModels(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"personality/v1, 26 features", "logreg /m/model.json", "standard_scaler /m/scaler.json"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	_ = WriteModels(&buf, &models.ModelsResponse{}, OutputText)
	if !strings.Contains(buf.String(), "No apps enabled.") {
		t.Errorf("empty output = %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	if f, err := ParseOutputFormat("json"); err != nil || f != OutputJSON {
		t.Errorf("json: %v %v", f, err)
	}
	if _, err := ParseOutputFormat("compact"); err == nil {
		t.Error("expected error for unknown format")
	}
}
