// Package model loads serialized prediction artifacts and evaluates them.
package model

import (
	"context"
	"errors"
)

// ErrArtifact is wrapped by every load failure.
var ErrArtifact = errors.New("invalid model artifact")

// Artifact formats.
const (
	FormatAuto    = "auto"
	FormatXGBoost = "xgboost"
	FormatLogReg  = "logreg"
	FormatONNX    = "onnx"
	FormatScaler  = "scaler"
)

// Info describes a loaded artifact.
type Info struct {
	Format       string   `json:"format"`
	Kind         string   `json:"kind,omitempty"`
	Path         string   `json:"path"`
	NumFeatures  int      `json:"num_features"`
	FeatureNames []string `json:"feature_names,omitempty"`
	Version      string   `json:"version,omitempty"`
}

// Regressor predicts one continuous value from a feature vector.
type Regressor interface {
	Predict(ctx context.Context, x []float64) (float64, error)
	Info() Info
	Close() error
}

// Classifier predicts a class code and per-class probabilities from a feature vector.
type Classifier interface {
	Predict(ctx context.Context, x []float64) (int, error)
	PredictProba(ctx context.Context, x []float64) ([]float64, error)
	// Classes returns the class codes in the order PredictProba reports them.
	Classes() []int
	Info() Info
	Close() error
}

// Transformer rescales a feature vector before it reaches a model.
type Transformer interface {
	Transform(x []float64) ([]float64, error)
	Info() Info
}

// Spec locates an artifact and the shape it must have.
type Spec struct {
	Format string
	Path   string
	// NumFeatures is the expected input width; 0 skips the check.
	NumFeatures int
	// NumClasses is required by ONNX classifiers, whose graphs do not expose their classes.
	NumClasses int
	// ONNX tensor names. Empty values take the skl2onnx defaults.
	InputName   string
	OutputNames []string
}

func checkWidth(x []float64, n int) error {
	if n > 0 && len(x) != n {
		return &WidthError{Want: n, Got: len(x)}
	}
	return nil
}
