package form

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/inference"
	"github.com/hyperjump/yosoku/internal/models"
	"go.uber.org/zap"
)

// State is the phase of a form.
type State int32

const (
	// Idle waits for a trigger.
	Idle State = iota
	// Predicting runs the adapter for a triggered submission.
	Predicting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Predicting:
		return "predicting"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Result is the outcome region of a page.
type Result struct {
	ID       string
	Headline string
	Table    []models.LabelProbability
}

// View is everything a page needs to render after a submission. Values always
// hold what was submitted so the form stays editable.
type View struct {
	Form      *Form
	Values    Values
	Result    *Result
	Error     string
	ErrorKind string
}

// PredictFunc runs one prediction on form values.
type PredictFunc func(ctx context.Context, v Values) (*Result, error)

// Controller drives submissions of one form.
type Controller struct {
	form     *Form
	predict  PredictFunc
	logger   *zap.Logger
	inFlight atomic.Int32
}

// NewController creates a controller for form that predicts with predict.
func NewController(form *Form, predict PredictFunc, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{form: form, predict: predict, logger: logger}
}

// Form returns the controlled form.
func (c *Controller) Form() *Form { return c.form }

// State reports Predicting while any submission is running, Idle otherwise.
func (c *Controller) State() State {
	if c.inFlight.Load() > 0 {
		return Predicting
	}
	return Idle
}

// Initial is the view of an untouched form.
func (c *Controller) Initial() *View {
	return &View{Form: c.form, Values: c.form.Defaults()}
}

// Submit runs one triggered submission to completion: Idle, then Predicting while
// the adapter runs, then Idle with either a result or an inline error.
func (c *Controller) Submit(ctx context.Context, v Values) *View {
	view := &View{Form: c.form, Values: v}

	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	res, err := c.predict(ctx, v)
	if err != nil {
		c.logger.Debug("submission failed", zap.String("form", c.form.Key), zap.Error(err))
		view.Error = err.Error()
		view.ErrorKind = string(inference.KindOf(err))
		return view
	}
	view.Result = res
	return view
}

// ExamScorePredictor is the adapter behind the exam score form.
type ExamScorePredictor interface {
	Predict(ctx context.Context, values features.ExamValues) (*models.ScoreResult, error)
}

// PersonalityPredictor is the adapter behind the personality form.
type PersonalityPredictor interface {
	Predict(ctx context.Context, traits features.Traits) (*models.ClassResult, error)
}

// ExamScorePredict adapts p to the exam score form.
func ExamScorePredict(p ExamScorePredictor) PredictFunc {
	return func(ctx context.Context, v Values) (*Result, error) {
		res, err := p.Predict(ctx, ExamValues(v))
		if err != nil {
			return nil, err
		}
		return &Result{ID: res.ID, Headline: res.Display}, nil
	}
}

// PersonalityPredict adapts p to the personality form.
func PersonalityPredict(p PersonalityPredictor) PredictFunc {
	return func(ctx context.Context, v Values) (*Result, error) {
		res, err := p.Predict(ctx, Traits(v))
		if err != nil {
			return nil, err
		}
		return &Result{ID: res.ID, Headline: res.Display, Table: res.Probabilities}, nil
	}
}
