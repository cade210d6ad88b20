package inference

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/model"
	"github.com/hyperjump/yosoku/internal/models"
	"github.com/hyperjump/yosoku/pkg/utils"
	"go.uber.org/zap"
)

// UnknownLabel is shown for a class code with no label.
const UnknownLabel = "Unknown"

// PersonalityLabels maps class codes to category names.
var PersonalityLabels = map[int]string{
	0: "Introvert",
	1: "Extrovert",
	2: "Ambivert",
}

// LabelFor returns the category name of code, or UnknownLabel.
func LabelFor(code int) string {
	if l, ok := PersonalityLabels[code]; ok {
		return l
	}
	return UnknownLabel
}

// PersonalityPredictor scales the trait vector and runs the personality classifier.
// It is immutable after construction and safe for concurrent use.
type PersonalityPredictor struct {
	scaler   model.Transformer
	model    model.Classifier
	classes  []int
	contract features.Contract
	cache    *resultCache[models.ClassResult]
	logger   *zap.Logger
}

// NewPersonalityPredictor checks the scaler and the classifier against the personality feature contract.
func NewPersonalityPredictor(scaler model.Transformer, m model.Classifier, opts ...Option) (*PersonalityPredictor, error) {
	if scaler == nil || m == nil {
		return nil, errors.New("personality scaler and model are required")
	}
	contract := features.PersonalityContract
	for _, info := range []model.Info{scaler.Info(), m.Info()} {
		if err := contract.Check(info.FeatureNames); err != nil {
			return nil, fmt.Errorf("%s %s: %w", info.Format, info.Path, err)
		}
		if err := contract.CheckCount(info.NumFeatures); err != nil {
			return nil, fmt.Errorf("%s %s: %w", info.Format, info.Path, err)
		}
	}
	classes := m.Classes()
	if len(classes) == 0 {
		return nil, errors.New("personality model reports no classes")
	}
	o := buildOptions(opts)
	for _, c := range classes {
		if LabelFor(c) == UnknownLabel {
			o.logger.Warn("class code has no label", zap.Int("code", c))
		}
	}
	cache, err := newResultCache[models.ClassResult](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction cache: %w", err)
	}
	return &PersonalityPredictor{
		scaler:   scaler,
		model:    m,
		classes:  classes,
		contract: contract,
		cache:    cache,
		logger:   o.logger,
	}, nil
}

// Predict validates, scales and classifies traits.
func (p *PersonalityPredictor) Predict(ctx context.Context, traits features.Traits) (*models.ClassResult, error) {
	if err := traits.Validate(); err != nil {
		return nil, inputError(err)
	}
	x := traits.Vector()

	if cached, ok := p.cache.get(x); ok {
		cached.ID = uuid.NewString()
		cached.Cached = true
		cached.Features = append([]float64(nil), x...)
		cached.Probabilities = append([]models.LabelProbability(nil), cached.Probabilities...)
		cached.Traits = traits.Map()
		return &cached, nil
	}

	start := time.Now()
	var scaled []float64
	err := guard(KindScaling, func() error {
		var err error
		scaled, err = p.scaler.Transform(x)
		return err
	})
	if err != nil {
		p.logger.Warn("personality scaling failed", zap.Error(err))
		return nil, err
	}

	var code int
	var proba []float64
	err = guard(KindModel, func() error {
		var err error
		if code, err = p.model.Predict(ctx, scaled); err != nil {
			return err
		}
		if proba, err = p.model.PredictProba(ctx, scaled); err != nil {
			return err
		}
		if len(proba) != len(p.classes) {
			return fmt.Errorf("model returned %d probabilities for %d classes", len(proba), len(p.classes))
		}
		if !utils.IsDistribution(proba, utils.ProbabilityTolerance) {
			return fmt.Errorf("probabilities %v do not sum to 1", proba)
		}
		return nil
	})
	if err != nil {
		p.logger.Warn("personality prediction failed", zap.Error(err))
		return nil, err
	}

	table := make([]models.LabelProbability, len(p.classes))
	for i, c := range p.classes {
		table[i] = models.LabelProbability{Code: c, Label: LabelFor(c), Probability: proba[i]}
	}
	label := LabelFor(code)
	result := models.ClassResult{
		ID:            uuid.NewString(),
		Code:          code,
		Label:         label,
		Display:       FormatLabel(label),
		Probabilities: table,
		Features:      x,
		Traits:        traits.Map(),
	}
	p.cache.add(x, result)
	p.logger.Debug("personality predicted",
		zap.String("id", result.ID),
		zap.String("label", label),
		zap.Duration("took", time.Since(start)),
	)
	out := result
	out.Features = append([]float64(nil), x...)
	out.Probabilities = append([]models.LabelProbability(nil), table...)
	out.Traits = traits.Map()
	return &out, nil
}

// ScalerInfo describes the loaded scaler.
func (p *PersonalityPredictor) ScalerInfo() model.Info { return p.scaler.Info() }

// Info describes the loaded classifier.
func (p *PersonalityPredictor) Info() model.Info { return p.model.Info() }

// Contract returns the feature contract the artifacts were checked against.
func (p *PersonalityPredictor) Contract() features.Contract { return p.contract }

// Close releases the classifier.
func (p *PersonalityPredictor) Close() error { return p.model.Close() }

// FormatLabel renders the predicted category.
func FormatLabel(label string) string {
	return fmt.Sprintf("Predicted Personality Category: %s", label)
}
