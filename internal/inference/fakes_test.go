package inference

import (
	"context"
	"errors"

	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/model"
)

type fakeRegressor struct {
	fn    func(x []float64) (float64, error)
	info  model.Info
	calls int
}

func (f *fakeRegressor) Predict(_ context.Context, x []float64) (float64, error) {
	f.calls++
	return f.fn(x)
}
func (f *fakeRegressor) Info() model.Info { return f.info }
func (f *fakeRegressor) Close() error     { return nil }

// sumRegressor scores a vector as the sum of its entries.
func sumRegressor() *fakeRegressor {
	return &fakeRegressor{
		fn: func(x []float64) (float64, error) {
			s := 0.0
			for _, v := range x {
				s += v
			}
			return s, nil
		},
		info: model.Info{Format: "fake", NumFeatures: features.ExamScoreContract.Len()},
	}
}

type fakeClassifier struct {
	code    int
	proba   []float64
	classes []int
	err     error
	panics  bool
	info    model.Info
	seen    [][]float64
}

func (f *fakeClassifier) Predict(_ context.Context, x []float64) (int, error) {
	if f.panics {
		panic("index out of range")
	}
	f.seen = append(f.seen, append([]float64(nil), x...))
	return f.code, f.err
}

func (f *fakeClassifier) PredictProba(_ context.Context, _ []float64) ([]float64, error) {
	return append([]float64(nil), f.proba...), f.err
}
func (f *fakeClassifier) Classes() []int   { return f.classes }
func (f *fakeClassifier) Info() model.Info { return f.info }
func (f *fakeClassifier) Close() error     { return nil }

type fakeScaler struct {
	offset float64
	err    error
	info   model.Info
}

func (f *fakeScaler) Transform(x []float64) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v - f.offset
	}
	return out, nil
}
func (f *fakeScaler) Info() model.Info { return f.info }

var errBoom = errors.New("boom")
