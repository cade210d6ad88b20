package features

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by RangeError when a numeric input is outside its bounds.
var ErrOutOfRange = errors.New("value out of range")

// Range is the closed interval, default and step of one numeric input.
type Range struct {
	Min     float64
	Max     float64
	Default float64
	Step    float64
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r.Min && v <= r.Max
}

// Clamp limits v to [Min, Max]. NaN becomes Default.
func (r Range) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return r.Default
	case v < r.Min:
		return r.Min
	case v > r.Max:
		return r.Max
	}
	return v
}

// Snap clamps v and rounds it to the nearest step counted from Min.
func (r Range) Snap(v float64) float64 {
	v = r.Clamp(v)
	if r.Step <= 0 {
		return v
	}
	steps := math.Round((v - r.Min) / r.Step)
	snapped := r.Min + steps*r.Step
	return r.Clamp(roundTo(snapped, stepDecimals(r.Step)))
}

// Decimals returns the number of decimal places implied by Step.
func (r Range) Decimals() int { return stepDecimals(r.Step) }

// RangeError reports a numeric input outside its declared bounds.
type RangeError struct {
	Field string
	Value float64
	Range Range
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: %v is outside [%v, %v]", e.Field, e.Value, e.Range.Min, e.Range.Max)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func (r Range) check(field string, v float64) error {
	if !r.Contains(v) {
		return &RangeError{Field: field, Value: v, Range: r}
	}
	return nil
}

func stepDecimals(step float64) int {
	d := 0
	for d < 10 && math.Abs(step-math.Round(step)) > 1e-9 {
		step *= 10
		d++
	}
	return d
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
