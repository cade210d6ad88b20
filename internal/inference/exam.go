package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/model"
	"github.com/hyperjump/yosoku/internal/models"
	"go.uber.org/zap"
)

// ExamScorePredictor runs the exam score regressor. It is immutable after construction
// and safe for concurrent use.
type ExamScorePredictor struct {
	model    model.Regressor
	contract features.Contract
	cache    *resultCache[models.ScoreResult]
	logger   *zap.Logger
}

// NewExamScorePredictor checks m against the exam score feature contract.
func NewExamScorePredictor(m model.Regressor, opts ...Option) (*ExamScorePredictor, error) {
	if m == nil {
		return nil, errors.New("exam score model is nil")
	}
	contract := features.ExamScoreContract
	info := m.Info()
	if err := contract.Check(info.FeatureNames); err != nil {
		return nil, fmt.Errorf("model %s: %w", info.Path, err)
	}
	if err := contract.CheckCount(info.NumFeatures); err != nil {
		return nil, fmt.Errorf("model %s: %w", info.Path, err)
	}
	o := buildOptions(opts)
	cache, err := newResultCache[models.ScoreResult](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction cache: %w", err)
	}
	return &ExamScorePredictor{model: m, contract: contract, cache: cache, logger: o.logger}, nil
}

// Predict validates and encodes values, then scores them.
func (p *ExamScorePredictor) Predict(ctx context.Context, values features.ExamValues) (*models.ScoreResult, error) {
	if err := values.Validate(); err != nil {
		return nil, inputError(err)
	}
	in, err := values.Encode()
	if err != nil {
		p.logger.Debug("encoding miss", zap.Error(err))
		return nil, encodingError(err)
	}
	x := in.Vector()

	if cached, ok := p.cache.get(x); ok {
		cached.ID = uuid.NewString()
		cached.Cached = true
		cached.Features = append([]float64(nil), x...)
		return &cached, nil
	}

	start := time.Now()
	var score float64
	err = guard(KindModel, func() error {
		var err error
		score, err = p.model.Predict(ctx, x)
		if err != nil {
			return err
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			return fmt.Errorf("model returned %v", score)
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("exam score prediction failed", zap.Float64s("features", x), zap.Error(err))
		return nil, err
	}

	result := models.ScoreResult{
		ID:       uuid.NewString(),
		Score:    score,
		Display:  FormatScore(score),
		Features: x,
	}
	p.cache.add(x, result)
	p.logger.Debug("exam score predicted",
		zap.String("id", result.ID),
		zap.Float64("score", score),
		zap.Duration("took", time.Since(start)),
	)
	out := result
	out.Features = append([]float64(nil), x...)
	return &out, nil
}

// Info describes the loaded model.
func (p *ExamScorePredictor) Info() model.Info { return p.model.Info() }

// Contract returns the feature contract the model was checked against.
func (p *ExamScorePredictor) Contract() features.Contract { return p.contract }

// Close releases the model.
func (p *ExamScorePredictor) Close() error { return p.model.Close() }

// FormatScore renders a score with two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("Predicted Exam Score: %.2f", score)
}
