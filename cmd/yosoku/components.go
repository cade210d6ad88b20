package main

import (
	"context"
	"fmt"

	"github.com/hyperjump/yosoku/internal/config"
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/inference"
	"github.com/hyperjump/yosoku/internal/model"
	"github.com/hyperjump/yosoku/internal/server"
	"go.uber.org/zap"
)

// Components holds the loaded predictors. A disabled app is nil.
type Components struct {
	ExamScore   *inference.ExamScorePredictor
	Personality *inference.PersonalityPredictor
}

// Apps returns the enabled predictors for the server.
func (c *Components) Apps() server.Apps {
	var apps server.Apps
	if c.ExamScore != nil {
		apps.ExamScore = c.ExamScore
	}
	if c.Personality != nil {
		apps.Personality = c.Personality
	}
	return apps
}

func (c *Components) Close() {
	if c.ExamScore != nil {
		_ = c.ExamScore.Close()
	}
	if c.Personality != nil {
		_ = c.Personality.Close()
	}
}

func artifactSpec(a config.ArtifactConfig, numFeatures, numClasses int) model.Spec {
	return model.Spec{
		Format:      a.Format,
		Path:        a.Path,
		NumFeatures: numFeatures,
		NumClasses:  numClasses,
		InputName:   a.InputName,
		OutputNames: a.OutputNames,
	}
}

// initializeComponents loads every enabled app's artifacts. Any failure is returned;
// callers treat it as fatal.
func initializeComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []inference.Option{
		inference.WithLogger(logger),
		inference.WithCacheSize(cfg.Inference.CacheSizeOrDefault()),
	}
	c := &Components{}

	if cfg.Apps.ExamScore.EnabledOrDefault() {
		a := cfg.Apps.ExamScore
		reg, err := model.LoadRegressor(ctx, artifactSpec(a.Model, features.ExamScoreContract.Len(), 0))
		if err != nil {
			return nil, fmt.Errorf("failed to load exam score model: %w", err)
		}
		p, err := inference.NewExamScorePredictor(reg, opts...)
		if err != nil {
			_ = reg.Close()
			return nil, fmt.Errorf("failed to initialize exam score app: %w", err)
		}
		c.ExamScore = p
		logger.Info("exam score model loaded",
			zap.String("format", reg.Info().Format),
			zap.String("path", reg.Info().Path),
		)
	}

	if cfg.Apps.Personality.EnabledOrDefault() {
		a := cfg.Apps.Personality
		n := features.PersonalityContract.Len()
		scaler, err := model.LoadTransformer(ctx, artifactSpec(a.Scaler, n, 0))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to load personality scaler: %w", err)
		}
		clf, err := model.LoadClassifier(ctx, artifactSpec(a.Model, n, len(inference.PersonalityLabels)))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to load personality model: %w", err)
		}
		p, err := inference.NewPersonalityPredictor(scaler, clf, opts...)
		if err != nil {
			_ = clf.Close()
			c.Close()
			return nil, fmt.Errorf("failed to initialize personality app: %w", err)
		}
		c.Personality = p
		logger.Info("personality model loaded",
			zap.String("format", clf.Info().Format),
			zap.String("path", clf.Info().Path),
			zap.String("scaler", scaler.Info().Path),
		)
	}
	return c, nil
}
