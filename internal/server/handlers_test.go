package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hyperjump/yosoku/internal/config"
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/inference"
	"github.com/hyperjump/yosoku/internal/model"
	"github.com/hyperjump/yosoku/internal/model/modeltest"
	"github.com/hyperjump/yosoku/internal/models"
	"go.uber.org/zap"
)

func newTestApps(t *testing.T) Apps {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	reg, err := model.LoadRegressor(ctx, model.Spec{Path: modeltest.WriteExamScoreModel(t, dir)})
	if err != nil {
		t.Fatal(err)
	}
	exam, err := inference.NewExamScorePredictor(reg)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := model.LoadTransformer(ctx, model.Spec{Path: modeltest.WritePersonalityScaler(t, dir)})
	if err != nil {
		t.Fatal(err)
	}
	clf, err := model.LoadClassifier(ctx, model.Spec{Path: modeltest.WritePersonalityModel(t, dir)})
	if err != nil {
		t.Fatal(err)
	}
	personality, err := inference.NewPersonalityPredictor(sc, clf)
	if err != nil {
		t.Fatal(err)
	}
	return Apps{ExamScore: exam, Personality: personality}
}

func newTestServer(t *testing.T, apps Apps) *httptest.Server {
	t.Helper()
	srv := NewServer(apps, &config.ServerConfig{Host: "localhost", Port: 8501}, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Apps{})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d", resp.StatusCode)
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if out["status"] != "ok" {
		t.Errorf("body = %v", out)
	}
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	for _, want := range []string{`href="/exam-score"`, `href="/personality"`} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %s", want)
		}
	}
}

func TestExamScorePage(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	resp, err := http.Get(ts.URL + "/exam-score")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Predict Exam Score") || strings.Contains(body, "Predicted Exam Score") {
		t.Error("initial page should show the form and no result")
	}
}

func TestExamScoreSubmit(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	form := url.Values{
		"study_hours":      {"4"},
		"class_attendance": {"75"},
		"sleep_hours":      {"7"},
		"sleep_quality":    {"Medium"},
		"study_method":     {"Self Study"},
		"facility_rating":  {"High"},
	}
	resp, err := http.PostForm(ts.URL+"/exam-score", form)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "Predicted Exam Score: 60.00") {
		t.Errorf("result missing from page:\n%s", body)
	}
	if !strings.Contains(body, `<option value="Medium" selected>`) {
		t.Error("submitted values should be kept")
	}
}

func TestExamScoreSubmit_inlineErrorThenRecover(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	bad := url.Values{"sleep_quality": {"Excellent"}}
	resp, err := http.PostForm(ts.URL+"/exam-score", bad)
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("inline errors keep status 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "encoding failed: sleep_quality") {
		t.Errorf("inline error missing:\n%s", body)
	}
	if !strings.Contains(body, "Predict Exam Score") {
		t.Error("form should still be rendered after an error")
	}

	resp, err = http.PostForm(ts.URL+"/exam-score", url.Values{"sleep_quality": {"High"}})
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Predicted Exam Score: 60.00") {
		t.Errorf("next submission should succeed:\n%s", body)
	}
}

func TestExamScoreSubmit_malformedBody(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	resp, err := http.Post(ts.URL+"/exam-score", "application/x-www-form-urlencoded", strings.NewReader("study_hours=%zz"))
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("inline errors keep status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}
	if !strings.Contains(body, "invalid form body") || !strings.Contains(body, `role="alert"`) {
		t.Errorf("inline error missing:\n%s", body)
	}
	if !strings.Contains(body, "Predict Exam Score") {
		t.Error("form should still be rendered after an error")
	}
}

type failingExam struct{}

func (failingExam) Predict(context.Context, features.ExamValues) (*models.ScoreResult, error) {
	return nil, &inference.Error{Kind: inference.KindModel, Err: errors.New("feature shape mismatch")}
}
func (failingExam) Info() model.Info            { return model.Info{Format: "fake"} }
func (failingExam) Contract() features.Contract { return features.ExamScoreContract }

func TestExamScoreSubmit_modelFailure(t *testing.T) {
	ts := newTestServer(t, Apps{ExamScore: failingExam{}})
	resp, err := http.PostForm(ts.URL+"/exam-score", url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if body := readBody(t, resp); !strings.Contains(body, "prediction failed: feature shape mismatch") {
		t.Errorf("model error should render inline:\n%s", body)
	}

	resp, err = http.Post(ts.URL+"/api/v1/exam-score/predict", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", resp.StatusCode)
	}
	var out models.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out.Kind != "model" {
		t.Errorf("kind = %q", out.Kind)
	}
}

func TestPersonalitySubmit(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	resp, err := http.PostForm(ts.URL+"/personality", url.Values{"social_energy": {"10"}})
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	for _, want := range []string{"Predicted Personality Category: Extrovert", "<th>Introvert</th>", "<th>Ambivert</th>"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPredictExamScoreAPI(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKind   string
	}{
		{"defaults", `{}`, http.StatusOK, ""},
		{"full", `{"study_hours": 6, "class_attendance": 90, "sleep_hours": 8, "sleep_quality": "High", "study_method": "Online", "facility_rating": "Medium"}`, http.StatusOK, ""},
		{"bad json", `{`, http.StatusBadRequest, ""},
		{"unknown label", `{"study_method": "Tutoring"}`, http.StatusBadRequest, "encoding"},
		{"out of range", `{"class_attendance": 101}`, http.StatusBadRequest, "input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/exam-score/predict", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status: got %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				var res models.ScoreResult
				if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
					t.Fatal(err)
				}
				if res.ID == "" || len(res.Features) != 6 {
					t.Errorf("unexpected result %+v", res)
				}
				return
			}
			var out models.ErrorResponse
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				t.Fatal(err)
			}
			if out.Kind != tt.wantKind || out.Error == "" {
				t.Errorf("error response = %+v", out)
			}
		})
	}
}

func TestPredictPersonalityAPI(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	body, _ := json.Marshal(models.PersonalityRequest{Traits: map[string]float64{"social_energy": 10}})
	resp, err := http.Post(ts.URL+"/api/v1/personality/predict", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: got %d", resp.StatusCode)
	}
	var res models.ClassResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if res.Label != "Extrovert" || len(res.Probabilities) != 3 {
		t.Errorf("result = %+v", res)
	}

	resp2, err := http.Post(ts.URL+"/api/v1/personality/predict", "application/json", strings.NewReader(`{"traits": {"height": 1}}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown trait: status %d, want 400", resp2.StatusCode)
	}
}

func TestModels(t *testing.T) {
	ts := newTestServer(t, newTestApps(t))
	resp, err := http.Get(ts.URL + "/api/v1/models")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out models.ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if len(out.Apps) != 2 {
		t.Fatalf("got %d apps", len(out.Apps))
	}
	if out.Apps[0].Model.Format != model.FormatXGBoost || out.Apps[0].Contract != "exam_score/v1" {
		t.Errorf("exam app = %+v", out.Apps[0])
	}
	if out.Apps[1].Scaler == nil || out.Apps[1].Scaler.Kind != model.ScalerStandard {
		t.Errorf("personality app = %+v", out.Apps[1])
	}
}

func TestDisabledAppNotRouted(t *testing.T) {
	apps := newTestApps(t)
	apps.Personality = nil
	ts := newTestServer(t, apps)
	for _, path := range []string{"/personality", "/api/v1/personality/predict"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("%s: status %d, want 404", path, resp.StatusCode)
		}
	}
}
