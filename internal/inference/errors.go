// Package inference turns raw form values into model predictions: it encodes
// categoricals, assembles and scales the feature vector, calls the model and
// formats the result.
package inference

import (
	"errors"
	"fmt"

	"github.com/hyperjump/yosoku/internal/features"
)

// Kind classifies a prediction failure.
type Kind string

const (
	// KindInput is a numeric value outside its range or an unknown feature name.
	KindInput Kind = "input"
	// KindEncoding is a categorical label outside its closed set.
	KindEncoding Kind = "encoding"
	// KindScaling is a failure of the feature scaler.
	KindScaling Kind = "scaling"
	// KindModel is a failure of the model call or an invalid model output.
	KindModel Kind = "model"
)

// Error is returned by every predictor. Field names the offending input when known.
type Error struct {
	Kind  Kind
	Field string
	Err   error
}

func (e *Error) Error() string {
	var prefix string
	switch e.Kind {
	case KindInput:
		prefix = "invalid input"
	case KindEncoding:
		prefix = "encoding failed"
	case KindScaling:
		prefix = "scaling failed"
	default:
		prefix = "prediction failed"
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func inputError(err error) *Error {
	e := &Error{Kind: KindInput, Err: err}
	var rangeErr *features.RangeError
	if errors.As(err, &rangeErr) {
		e.Field = rangeErr.Field
	}
	return e
}

func encodingError(err error) *Error {
	e := &Error{Kind: KindEncoding, Err: err}
	var catErr *features.CategoryError
	if errors.As(err, &catErr) {
		e.Field = catErr.Field
	}
	return e
}

// guard runs fn and reports any error or panic as an *Error of the given kind.
func guard(kind Kind, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: kind, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if e := fn(); e != nil {
		return &Error{Kind: kind, Err: e}
	}
	return nil
}
