package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/hyperjump/yosoku/pkg/utils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// logRegDocument mirrors the fitted attributes of a scikit-learn LogisticRegression.
// Both the bare and the trailing-underscore attribute names are accepted.
type logRegDocument struct {
	Classes       []int       `json:"classes"`
	ClassesU      []int       `json:"classes_"`
	Coef          [][]float64 `json:"coef"`
	CoefU         [][]float64 `json:"coef_"`
	Intercept     []float64   `json:"intercept"`
	InterceptU    []float64   `json:"intercept_"`
	MultiClass    string      `json:"multi_class"`
	FeatureNames  []string    `json:"feature_names"`
	FeatureNamesU []string    `json:"feature_names_in_"`
	Version       string      `json:"sklearn_version"`
}

func (d *logRegDocument) normalize() {
	if d.Classes == nil {
		d.Classes = d.ClassesU
	}
	if d.Coef == nil {
		d.Coef = d.CoefU
	}
	if d.Intercept == nil {
		d.Intercept = d.InterceptU
	}
	if d.FeatureNames == nil {
		d.FeatureNames = d.FeatureNamesU
	}
}

// LogisticRegression is a linear classifier evaluated with gonum.
type LogisticRegression struct {
	coef      *mat.Dense
	intercept *mat.VecDense
	classes   []int
	// multinomial selects softmax over the decision values; otherwise one-vs-rest.
	// A binary multinomial model is softmax([-z, z]).
	multinomial bool
	binary      bool
	info        Info
}

// LoadLogReg reads a logistic regression JSON artifact from path.
func LoadLogReg(path string) (*LogisticRegression, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	return decodeLogReg(path, data)
}

func decodeLogReg(path string, data []byte) (*LogisticRegression, error) {
	m, err := parseLogReg(data)
	if err != nil {
		return nil, artifactErr(path, err)
	}
	m.info.Path = path
	return m, nil
}

func parseLogReg(data []byte) (*LogisticRegression, error) {
	var doc logRegDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse logistic regression json: %w", err)
	}
	doc.normalize()

	rows := len(doc.Coef)
	if rows == 0 || len(doc.Coef[0]) == 0 {
		return nil, errors.New("coef is empty")
	}
	cols := len(doc.Coef[0])
	if len(doc.Classes) < 2 {
		return nil, fmt.Errorf("need at least 2 classes, got %d", len(doc.Classes))
	}
	binary := rows == 1
	if binary && len(doc.Classes) != 2 {
		return nil, fmt.Errorf("single coef row requires 2 classes, got %d", len(doc.Classes))
	}
	if !binary && rows != len(doc.Classes) {
		return nil, fmt.Errorf("coef has %d rows for %d classes", rows, len(doc.Classes))
	}
	if len(doc.Intercept) != rows {
		return nil, fmt.Errorf("intercept has %d entries, want %d", len(doc.Intercept), rows)
	}
	if len(doc.FeatureNames) > 0 && len(doc.FeatureNames) != cols {
		return nil, fmt.Errorf("feature_names has %d entries for %d coefficients", len(doc.FeatureNames), cols)
	}

	flat := make([]float64, 0, rows*cols)
	for i, row := range doc.Coef {
		if len(row) != cols {
			return nil, fmt.Errorf("coef row %d has %d entries, want %d", i, len(row), cols)
		}
		flat = append(flat, row...)
	}

	var multinomial bool
	switch doc.MultiClass {
	case "", "auto":
		multinomial = !binary
	case "multinomial":
		multinomial = true
	case "ovr":
	default:
		return nil, fmt.Errorf("unsupported multi_class %q", doc.MultiClass)
	}

	return &LogisticRegression{
		coef:        mat.NewDense(rows, cols, flat),
		intercept:   mat.NewVecDense(rows, append([]float64(nil), doc.Intercept...)),
		classes:     append([]int(nil), doc.Classes...),
		multinomial: multinomial,
		binary:      binary,
		info: Info{
			Format:       FormatLogReg,
			Kind:         "classifier",
			NumFeatures:  cols,
			FeatureNames: doc.FeatureNames,
			Version:      doc.Version,
		},
	}, nil
}

// decisionFunction returns coef·x + intercept, one value per coef row.
func (m *LogisticRegression) decisionFunction(x []float64) ([]float64, error) {
	if err := checkWidth(x, m.info.NumFeatures); err != nil {
		return nil, err
	}
	rows, _ := m.coef.Dims()
	z := mat.NewVecDense(rows, nil)
	z.MulVec(m.coef, mat.NewVecDense(len(x), append([]float64(nil), x...)))
	z.AddVec(z, m.intercept)
	return z.RawVector().Data, nil
}

// PredictProba returns one probability per class, in Classes order.
func (m *LogisticRegression) PredictProba(_ context.Context, x []float64) ([]float64, error) {
	z, err := m.decisionFunction(x)
	if err != nil {
		return nil, err
	}
	switch {
	case m.binary:
		if m.multinomial {
			z[0] *= 2
		}
		p := sigmoid(z[0])
		return []float64{1 - p, p}, nil
	case m.multinomial:
		lse := floats.LogSumExp(z)
		for i := range z {
			z[i] = math.Exp(z[i] - lse)
		}
		return z, nil
	}
	for i := range z {
		z[i] = sigmoid(z[i])
	}
	floats.Scale(1/floats.Sum(z), z)
	return z, nil
}

// Predict returns the class code with the highest probability.
func (m *LogisticRegression) Predict(ctx context.Context, x []float64) (int, error) {
	p, err := m.PredictProba(ctx, x)
	if err != nil {
		return 0, err
	}
	return m.classes[utils.ArgMax(p)], nil
}

// Classes returns the class codes.
func (m *LogisticRegression) Classes() []int { return append([]int(nil), m.classes...) }

// Info describes the artifact.
func (m *LogisticRegression) Info() Info { return m.info }

// Close is a no-op.
func (m *LogisticRegression) Close() error { return nil }
