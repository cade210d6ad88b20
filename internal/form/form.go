// Package form describes the input widgets of each app, reads submitted values
// into them and drives a submission through prediction to a rendered view.
package form

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/pkg/utils"
)

// Slider is a bounded numeric input.
type Slider struct {
	Name    string
	Label   string
	Range   features.Range
	Integer bool
}

// Format renders v with the precision of the slider's step.
func (s *Slider) Format(v float64) string {
	if s.Integer {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', max(1, s.Range.Decimals()), 64)
}

// Select is a closed single-choice input.
type Select struct {
	Name    string
	Label   string
	Options []string
	Default string
}

// Field holds exactly one widget.
type Field struct {
	Slider *Slider
	Select *Select
}

// Name returns the submitted name of the widget.
func (f Field) Name() string {
	if f.Slider != nil {
		return f.Slider.Name
	}
	return f.Select.Name
}

// Form is the widget layout of one app.
type Form struct {
	Key      string
	Title    string
	Subtitle string
	Button   string
	Footer   string
	Fields   []Field
	// Columns is the number of columns the fields are laid out in; 0 or 1 means one.
	Columns int
}

// Values are the widget values of one submission.
type Values struct {
	Numbers map[string]float64
	Choices map[string]string
}

// Number returns the value of a slider.
func (v Values) Number(name string) float64 { return v.Numbers[name] }

// Choice returns the value of a select.
func (v Values) Choice(name string) string { return v.Choices[name] }

// Defaults returns the value every widget starts with.
func (f *Form) Defaults() Values {
	v := Values{Numbers: map[string]float64{}, Choices: map[string]string{}}
	for _, field := range f.Fields {
		switch {
		case field.Slider != nil:
			v.Numbers[field.Slider.Name] = field.Slider.Range.Default
		case field.Select != nil:
			v.Choices[field.Select.Name] = field.Select.Default
		}
	}
	return v
}

// Read takes every widget value from a submission. Numbers are clamped to the slider
// bounds and snapped to its step; a missing or unparseable number takes the default.
// Select values are kept as submitted.
func (f *Form) Read(in url.Values) Values {
	v := f.Defaults()
	for _, field := range f.Fields {
		switch {
		case field.Slider != nil:
			s := field.Slider
			raw := strings.TrimSpace(in.Get(s.Name))
			if raw == "" {
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			v.Numbers[s.Name] = s.Range.Snap(n)
		case field.Select != nil:
			if _, ok := in[field.Select.Name]; ok {
				v.Choices[field.Select.Name] = in.Get(field.Select.Name)
			}
		}
	}
	return v
}

// Layout splits the fields into Columns columns, dealing them out in order.
func (f *Form) Layout() [][]Field {
	n := f.Columns
	if n < 1 {
		n = 1
	}
	cols := make([][]Field, n)
	for i, field := range f.Fields {
		cols[i%n] = append(cols[i%n], field)
	}
	return cols
}

// ExamScoreForm is the form of the exam score predictor.
func ExamScoreForm() *Form {
	return &Form{
		Key:      "exam-score",
		Title:    "Exam Score Predictor",
		Subtitle: "Boosting Algorithm • XGBoost Regressor",
		Button:   "Predict Exam Score",
		Footer:   "Machine Learning Project | Go + XGBoost",
		Columns:  1,
		Fields: []Field{
			{Slider: &Slider{Name: features.FeatureStudyHours, Label: "Study Hours (per day)", Range: features.StudyHoursRange}},
			{Slider: &Slider{Name: features.FeatureClassAttendance, Label: "Class Attendance (%)", Range: features.ClassAttendanceRange, Integer: true}},
			{Slider: &Slider{Name: features.FeatureSleepHours, Label: "Sleep Hours", Range: features.SleepHoursRange}},
			{Select: newSelect(features.FeatureSleepQuality, "Sleep Quality", features.SleepQualityOptions())},
			{Select: newSelect(features.FeatureStudyMethod, "Study Method", features.StudyMethodOptions())},
			{Select: newSelect(features.FeatureFacilityRating, "Facility Rating", features.FacilityRatingOptions())},
		},
	}
}

// PersonalityForm is the form of the personality predictor: one slider per trait in two columns.
func PersonalityForm() *Form {
	names := features.TraitNames()
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Slider: &Slider{Name: name, Label: utils.HumanizeName(name), Range: features.TraitRange}}
	}
	return &Form{
		Key:      "personality",
		Title:    "Personality Type Prediction",
		Subtitle: "Rate the following traits to predict your personality category",
		Button:   "Predict Personality",
		Footer:   "Personality Prediction App | Built with Go & Logistic Regression",
		Columns:  2,
		Fields:   fields,
	}
}

func newSelect(name, label string, options []string) *Select {
	return &Select{Name: name, Label: label, Options: options, Default: options[0]}
}

// ExamValues converts the exam score form values.
func ExamValues(v Values) features.ExamValues {
	return features.ExamValues{
		StudyHours:      v.Number(features.FeatureStudyHours),
		ClassAttendance: v.Number(features.FeatureClassAttendance),
		SleepHours:      v.Number(features.FeatureSleepHours),
		SleepQuality:    v.Choice(features.FeatureSleepQuality),
		StudyMethod:     v.Choice(features.FeatureStudyMethod),
		FacilityRating:  v.Choice(features.FeatureFacilityRating),
	}
}

// Traits converts the personality form values. Missing traits keep the default.
func Traits(v Values) features.Traits {
	t := features.DefaultTraits()
	for _, name := range features.TraitNames() {
		if n, ok := v.Numbers[name]; ok {
			_ = t.Set(name, n)
		}
	}
	return t
}
