//go:build !cgo
// +build !cgo

package model

import (
	"context"
	"errors"
)

var errNoCGO = errors.New("ONNX models require CGO; build with CGO_ENABLED=1 and onnxruntime")

// ONNXRegressor stub type when built without CGO (see onnx.go for real implementation).
type ONNXRegressor struct{}

// NewONNXRegressor returns an error when built without CGO (ONNX not available).
func NewONNXRegressor(_ Spec) (*ONNXRegressor, error) { return nil, errNoCGO }

func (*ONNXRegressor) Predict(context.Context, []float64) (float64, error) { return 0, errNoCGO }
func (*ONNXRegressor) Info() Info                                          { return Info{Format: FormatONNX} }
func (*ONNXRegressor) Close() error                                        { return nil }

// ONNXClassifier stub type when built without CGO.
type ONNXClassifier struct{}

// NewONNXClassifier returns an error when built without CGO (ONNX not available).
func NewONNXClassifier(_ Spec, _ int) (*ONNXClassifier, error) { return nil, errNoCGO }

func (*ONNXClassifier) Predict(context.Context, []float64) (int, error) { return 0, errNoCGO }
func (*ONNXClassifier) PredictProba(context.Context, []float64) ([]float64, error) {
	return nil, errNoCGO
}
func (*ONNXClassifier) Classes() []int { return nil }
func (*ONNXClassifier) Info() Info     { return Info{Format: FormatONNX} }
func (*ONNXClassifier) Close() error   { return nil }
