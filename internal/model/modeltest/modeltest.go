// Package modeltest writes small, valid artifacts for tests of packages that load models.
package modeltest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/yosoku/internal/features"
)

// ExamScoreBase is the base score of the exam score fixture. The fixture adds 10
// below 5 study hours and 20 from 5 hours on.
const ExamScoreBase = 50

// WriteExamScoreModel writes an XGBoost JSON regressor over the exam score contract
// and returns its path.
func WriteExamScoreModel(t testing.TB, dir string) string {
	t.Helper()
	doc := map[string]any{
		"learner": map[string]any{
			"attributes":    map[string]any{},
			"feature_names": features.ExamScoreContract.Features,
			"gradient_booster": map[string]any{
				"name": "gbtree",
				"model": map[string]any{
					"gbtree_model_param": map[string]any{"num_trees": "1", "num_parallel_tree": "1"},
					"trees": []any{map[string]any{
						"left_children":    []int{1, -1, -1},
						"right_children":   []int{2, -1, -1},
						"split_indices":    []int{0, 0, 0},
						"split_conditions": []float64{5, 10, 20},
						"default_left":     []int{1, 0, 0},
					}},
				},
			},
			"learner_model_param": map[string]any{
				"base_score":  "[5E1]",
				"num_feature": "6",
				"num_class":   "0",
			},
			"objective": map[string]any{"name": "reg:squarederror"},
		},
		"version": []int{2, 1, 3},
	}
	return writeJSON(t, dir, "tuned_xgb_regressor.json", doc)
}

// WritePersonalityModel writes a multinomial logistic regression over the personality
// contract. Only social_energy carries weight, toward class 1 (Extrovert).
func WritePersonalityModel(t testing.TB, dir string) string {
	t.Helper()
	n := features.NumTraits
	coef := make([][]float64, 3)
	for i := range coef {
		coef[i] = make([]float64, n)
	}
	coef[1][0] = 1
	doc := map[string]any{
		"classes":       []int{0, 1, 2},
		"coef":          coef,
		"intercept":     []float64{0, 0, 0},
		"multi_class":   "multinomial",
		"feature_names": features.PersonalityContract.Features,
	}
	return writeJSON(t, dir, "model.json", doc)
}

// WritePersonalityScaler writes a standard scaler centering every trait on 5.
func WritePersonalityScaler(t testing.TB, dir string) string {
	t.Helper()
	n := features.NumTraits
	mean := make([]float64, n)
	scale := make([]float64, n)
	for i := range mean {
		mean[i] = 5
		scale[i] = 1
	}
	doc := map[string]any{
		"type":          "standard_scaler",
		"mean":          mean,
		"scale":         scale,
		"feature_names": features.PersonalityContract.Features,
	}
	return writeJSON(t, dir, "scaler.json", doc)
}

func writeJSON(t testing.TB, dir, name string, doc any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
